package availability

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Repository интерфейс репозитория записей доступности (источник истины)
type Repository interface {
	Create(ctx context.Context, record *domain.AvailabilityRecord) (*domain.AvailabilityRecord, error)
	Upsert(ctx context.Context, record *domain.AvailabilityRecord) (*domain.AvailabilityRecord, bool, error)
	GetByID(ctx context.Context, id string) (*domain.AvailabilityRecord, error)
	GetByNaturalKey(ctx context.Context, key domain.NaturalKey) (*domain.AvailabilityRecord, error)
	Update(ctx context.Context, record *domain.AvailabilityRecord, expectedVersion int64) (*domain.AvailabilityRecord, error)
	Delete(ctx context.Context, id string) error
}

// CachedStore кэширующее чтение и инвалидация
type CachedStore interface {
	GetByID(ctx context.Context, id string) (*domain.AvailabilityRecord, error)
	GetByNaturalKey(ctx context.Context, key domain.NaturalKey) (*domain.AvailabilityRecord, error)
	List(ctx context.Context, filter domain.AvailabilityFilter) ([]*domain.AvailabilityRecord, error)
	Invalidate(ctx context.Context, before, after *domain.AvailabilityRecord)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики движка слотов
type Metrics interface {
	ObserveEngineRetry(operation string)
	ObserveEngineConflict(operation, reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
