package affecting

import (
	"context"
	"time"

	"github.com/m04kA/varaamo-core/internal/domain"
)

// Repository интерфейс репозитория кэша affecting time spans
type Repository interface {
	Rebuild(ctx context.Context, states []domain.ReservationState, now time.Time) (int64, error)
	GetRefreshedAt(ctx context.Context) (time.Time, error)
	ListAffecting(ctx context.Context, unitIDs []int64, start, end time.Time, exclude []int64) ([]*domain.AffectingTimeSpan, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс для записи метрик пересборки
type Metrics interface {
	ObserveAffectingRefresh(duration time.Duration, err error)
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
