package create_reservation_series

import (
	"context"

	createSeries "github.com/m04kA/varaamo-core/internal/usecase/create_reservation_series"
)

type CreateReservationSeriesUseCase interface {
	Execute(ctx context.Context, req *createSeries.Request) (*createSeries.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
