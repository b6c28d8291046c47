package get_first_reservable_time

import (
	"context"
	"time"

	"github.com/m04kA/varaamo-core/internal/domain"
)

// ReservationUnitRepository интерфейс репозитория единиц бронирования
type ReservationUnitRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ReservationUnit, error)
}

// ReservableIndex индекс интервалов работы
type ReservableIndex interface {
	OverlappingWithPeriod(ctx context.Context, resourceID string, start, end time.Time) ([]domain.TimeSpan, error)
}

// AffectingIndex индекс влияющих бронирований
type AffectingIndex interface {
	SpansAffecting(ctx context.Context, unitIDs []int64, start, end time.Time, exclude []int64) ([]domain.TimeSpan, error)
	RequestRefresh()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
