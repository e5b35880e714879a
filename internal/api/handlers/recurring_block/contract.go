package recurring_block

import (
	"context"

	recurringBlock "github.com/m04kA/SMC-AvailabilityService/internal/usecase/recurring_block"
)

type RecurringBlockUseCase interface {
	Execute(ctx context.Context, req *recurringBlock.Request) (*recurringBlock.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
