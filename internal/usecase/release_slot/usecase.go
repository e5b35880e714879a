package release_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	catalogClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// UseCase use case освобождения слота
type UseCase struct {
	engine        SlotEngine
	catalogClient CatalogClient
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(engine SlotEngine, catalogClient CatalogClient, logger Logger) *UseCase {
	return &UseCase{
		engine:        engine,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// Execute освобождает слот с точными границами.
// Слот должен существовать и не быть заблокированным; повторное освобождение свободного слота не ошибка.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReleaseSlot: %s/%s on %s %s-%s",
		req.EntityKind, req.EntityID, types.FormatDate(req.Day), req.Start, req.End)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReleaseSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Сущность существует (неактивная сущность может освобождать слоты)
	found, _, err := uc.catalogClient.Exists(ctx, string(req.EntityKind), req.EntityID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrInvalidEntityID) {
			return nil, fmt.Errorf("%w: malformed entity id", ErrInvalidInput)
		}
		uc.logger.Error("ReleaseSlot: failed to get entity %s/%s: %v", req.EntityKind, req.EntityID, err)
		return nil, fmt.Errorf("%w: failed to get entity: %v", ErrInternal, err)
	}
	if !found {
		uc.logger.Warn("ReleaseSlot: entity %s/%s not found", req.EntityKind, req.EntityID)
		return nil, ErrEntityNotFound
	}

	// 3. Освобождаем
	key := domain.NewNaturalKey(req.EntityID, req.EntityKind, req.Day)
	record, err := uc.engine.Release(ctx, key, req.Start, req.End,
		availability.RequireSlotNotBlocked(req.Start, req.End),
	)
	if err != nil {
		if availability.IsConflict(err) || errors.Is(err, availability.ErrConcurrentModification) {
			uc.logger.Warn("ReleaseSlot: rejected: %v", err)
			return nil, err
		}
		if errors.Is(err, availability.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("ReleaseSlot: engine error: %v", err)
		return nil, fmt.Errorf("%w: failed to release: %v", ErrInternal, err)
	}

	slot, _ := record.FindSlot(req.Start, req.End)
	uc.logger.Info("ReleaseSlot: slot %s-%s released on record id=%s", req.Start, req.End, record.ID)
	return &Response{Record: record, Slot: slot}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.EntityID == "" || len(req.EntityID) > domain.MaxEntityIDLength {
		return fmt.Errorf("%w: entityID is required and must be at most %d characters", ErrInvalidInput, domain.MaxEntityIDLength)
	}
	if !req.EntityKind.IsValid() {
		return fmt.Errorf("%w: unknown entity kind %q", ErrInvalidInput, req.EntityKind)
	}
	if req.Day.IsZero() {
		return fmt.Errorf("%w: day is required", ErrInvalidInput)
	}
	if err := types.ValidateRange(req.Start, req.End); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
