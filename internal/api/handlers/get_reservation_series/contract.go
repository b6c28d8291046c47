package get_reservation_series

import (
	"context"

	getSeries "github.com/m04kA/varaamo-core/internal/usecase/get_reservation_series"
)

type GetReservationSeriesUseCase interface {
	Execute(ctx context.Context, req *getSeries.Request) (*getSeries.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
