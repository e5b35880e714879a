package availability

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Repository источник истины для записей доступности
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.AvailabilityRecord, error)
	GetByNaturalKey(ctx context.Context, key domain.NaturalKey) (*domain.AvailabilityRecord, error)
	List(ctx context.Context, filter domain.AvailabilityFilter) ([]*domain.AvailabilityRecord, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
