package reserve_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	bookingClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/bookingservice"
	catalogClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// UseCase use case резервирования слота под бронирование
type UseCase struct {
	engine        SlotEngine
	catalogClient CatalogClient
	bookingClient BookingClient
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	engine SlotEngine,
	catalogClient CatalogClient,
	bookingClient BookingClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		engine:        engine,
		catalogClient: catalogClient,
		bookingClient: bookingClient,
		logger:        logger,
	}
}

// Execute выполняет use case резервирования.
// Проверки состояния слотов выполняются движком внутри транзакции на заблокированной записи.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveSlot: %s/%s on %s %s-%s, booking=%s",
		req.EntityKind, req.EntityID, types.FormatDate(req.Day), req.Start, req.End, req.BookingRef)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReserveSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Сущность существует и активна
	found, entity, err := uc.catalogClient.Exists(ctx, string(req.EntityKind), req.EntityID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrInvalidEntityID) {
			uc.logger.Warn("ReserveSlot: malformed entity id %q", req.EntityID)
			return nil, fmt.Errorf("%w: malformed entity id", ErrInvalidInput)
		}
		uc.logger.Error("ReserveSlot: failed to get entity %s/%s: %v", req.EntityKind, req.EntityID, err)
		return nil, fmt.Errorf("%w: failed to get entity: %v", ErrInternal, err)
	}
	if !found {
		uc.logger.Warn("ReserveSlot: entity %s/%s not found", req.EntityKind, req.EntityID)
		return nil, ErrEntityNotFound
	}
	if !entity.IsActive {
		uc.logger.Warn("ReserveSlot: entity %s/%s is not active", req.EntityKind, req.EntityID)
		return nil, ErrEntityInactive
	}

	// 3. Бронирование существует, активно и оформлено на эту сущность
	found, booking, err := uc.bookingClient.Exists(ctx, req.BookingRef)
	if err != nil {
		if errors.Is(err, bookingClient.ErrInvalidBookingID) {
			uc.logger.Warn("ReserveSlot: malformed booking id %q", req.BookingRef)
			return nil, fmt.Errorf("%w: malformed booking id", ErrInvalidInput)
		}
		uc.logger.Error("ReserveSlot: failed to get booking id=%s: %v", req.BookingRef, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	if !found {
		uc.logger.Warn("ReserveSlot: booking id=%s not found", req.BookingRef)
		return nil, ErrBookingNotFound
	}
	if !booking.BelongsTo(string(req.EntityKind), req.EntityID) {
		uc.logger.Warn("ReserveSlot: booking id=%s belongs to %s/%s", req.BookingRef, booking.EntityKind, booking.EntityID)
		return nil, ErrBookingMismatch
	}
	if !booking.IsActive() {
		uc.logger.Warn("ReserveSlot: booking id=%s has status %s", req.BookingRef, booking.Status)
		return nil, ErrBookingInactive
	}

	// 4. Резервируем: запись за день должна быть, все пересекающиеся слоты свободны
	key := domain.NewNaturalKey(req.EntityID, req.EntityKind, req.Day)
	record, err := uc.engine.Reserve(ctx, key, req.Start, req.End, req.BookingRef,
		availability.RequireRecord(),
		availability.RequireRangeAvailable(req.Start, req.End),
	)
	if err != nil {
		if availability.IsConflict(err) {
			uc.logger.Warn("ReserveSlot: rejected for booking id=%s: %v", req.BookingRef, err)
			return nil, err
		}
		if errors.Is(err, availability.ErrConcurrentModification) {
			return nil, err
		}
		if errors.Is(err, availability.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("ReserveSlot: engine error for booking id=%s: %v", req.BookingRef, err)
		return nil, fmt.Errorf("%w: failed to reserve: %v", ErrInternal, err)
	}

	uc.logger.Info("ReserveSlot: booking id=%s reserved on record id=%s (version=%d)", req.BookingRef, record.ID, record.Version)
	return &Response{
		Record:   record,
		Reserved: reservedBy(record, req.BookingRef),
	}, nil
}
