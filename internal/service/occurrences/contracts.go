package occurrences

import (
	"context"
	"time"

	"github.com/m04kA/varaamo-core/internal/domain"
)

// ReservableIndex индекс интервалов работы
type ReservableIndex interface {
	OverlappingWithPeriod(ctx context.Context, resourceID string, start, end time.Time) ([]domain.TimeSpan, error)
}

// AffectingIndex индекс влияющих бронирований
type AffectingIndex interface {
	SpansAffecting(ctx context.Context, unitIDs []int64, start, end time.Time, exclude []int64) ([]domain.TimeSpan, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
