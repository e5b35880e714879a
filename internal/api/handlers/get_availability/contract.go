package get_availability

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

type AvailabilityService interface {
	GetRecord(ctx context.Context, key domain.NaturalKey) (*domain.AvailabilityRecord, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
