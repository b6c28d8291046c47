package create_series_from_allocation

import (
	"context"

	fromAllocation "github.com/m04kA/varaamo-core/internal/usecase/create_series_from_allocation"
)

type CreateSeriesFromAllocationUseCase interface {
	Execute(ctx context.Context, req *fromAllocation.Request) (*fromAllocation.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
