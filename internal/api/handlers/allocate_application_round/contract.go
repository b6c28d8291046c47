package allocate_application_round

import (
	"context"

	allocateRound "github.com/m04kA/varaamo-core/internal/usecase/allocate_application_round"
)

type AllocateApplicationRoundUseCase interface {
	Execute(ctx context.Context, req *allocateRound.Request) (*allocateRound.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
