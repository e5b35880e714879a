package seed_availability

import (
	"context"

	seedAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/seed_availability"
)

type SeedAvailabilityUseCase interface {
	Execute(ctx context.Context, req *seedAvailability.Request) (*seedAvailability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
