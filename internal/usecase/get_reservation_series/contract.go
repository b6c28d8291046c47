package get_reservation_series

import (
	"context"

	"github.com/m04kA/varaamo-core/internal/domain"
)

// SeriesRepository интерфейс репозитория серий
type SeriesRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ReservationSeries, error)
	ListRejectedOccurrences(ctx context.Context, seriesID int64) ([]*domain.RejectedOccurrence, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListBySeries(ctx context.Context, seriesID int64) ([]*domain.Reservation, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
