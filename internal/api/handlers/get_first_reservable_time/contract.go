package get_first_reservable_time

import (
	"context"

	firstReservable "github.com/m04kA/varaamo-core/internal/usecase/get_first_reservable_time"
)

type GetFirstReservableTimeUseCase interface {
	Execute(ctx context.Context, req *firstReservable.Request) (*firstReservable.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
