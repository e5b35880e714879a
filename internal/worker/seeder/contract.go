package seeder

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/locker"
	"github.com/m04kA/SMC-AvailabilityService/internal/usecase/seed_availability"
)

// TemplateSource источник активных шаблонов посева
type TemplateSource interface {
	ListActive(ctx context.Context) ([]*domain.Template, error)
}

// SeedUseCase посев диапазона дней для одной сущности
type SeedUseCase interface {
	Execute(ctx context.Context, req *seed_availability.Request) (*seed_availability.Response, error)
}

// Locker лидерская блокировка между инстансами
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (*locker.Lock, error)
	Extend(ctx context.Context, lock *locker.Lock, ttl time.Duration) error
	Unlock(ctx context.Context, lock *locker.Lock) error
}

// Metrics счетчики запусков
type Metrics interface {
	ObserveSeederRun(status string, created, skipped int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
