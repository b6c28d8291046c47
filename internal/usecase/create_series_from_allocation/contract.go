package create_series_from_allocation

import (
	"context"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/internal/usecase/create_reservation_series"
)

// ApplicationRepository интерфейс репозитория заявок и выделенных слотов
type ApplicationRepository interface {
	GetAllocatedSlot(ctx context.Context, id int64) (*domain.AllocatedTimeSlot, error)
	GetSectionByID(ctx context.Context, id int64) (*domain.ApplicationSection, error)
}

// SeriesCreator создание серии бронирований
type SeriesCreator interface {
	Execute(ctx context.Context, req *create_reservation_series.Request) (*create_reservation_series.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
