package reserve_slot

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/bookingservice"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// SlotEngine интерфейс движка слотов
type SlotEngine interface {
	Reserve(ctx context.Context, key domain.NaturalKey, start, end types.TimeString, bookingRef string, guards ...availability.Guard) (*domain.AvailabilityRecord, error)
}

// CatalogClient интерфейс клиента каталога сущностей
type CatalogClient interface {
	Exists(ctx context.Context, kind, entityID string) (bool, *catalogservice.Entity, error)
}

// BookingClient интерфейс клиента сервиса бронирований
type BookingClient interface {
	Exists(ctx context.Context, bookingID string) (bool, *bookingservice.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
