package block_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	catalogClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// UseCase use case административной блокировки слотов
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

// Block блокирует слот. Отсутствующий слот (или запись) добавляется сразу заблокированным;
// существующий слот не должен быть забронирован или уже заблокирован.
func (uc *UseCase) Block(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BlockSlot: %s/%s on %s %s-%s, reason=%q",
		req.EntityKind, req.EntityID, types.FormatDate(req.Day), req.Start, req.End, req.Reason)

	if err := uc.prepare(ctx, "BlockSlot", req); err != nil {
		return nil, err
	}
	if len(req.Reason) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	key := domain.NewNaturalKey(req.EntityID, req.EntityKind, req.Day)
	record, err := uc.engine.Block(ctx, key, req.Start, req.End, req.Reason,
		availability.RequireBlockable(req.Start, req.End),
	)
	if err != nil {
		return nil, uc.mapEngineError("BlockSlot", err)
	}

	slot, _ := record.FindSlot(req.Start, req.End)
	uc.logger.Info("BlockSlot: slot %s-%s blocked on record id=%s", req.Start, req.End, record.ID)
	return &Response{Record: record, Slot: slot}, nil
}

// Unblock снимает блокировку; слот должен существовать и быть заблокированным
func (uc *UseCase) Unblock(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UnblockSlot: %s/%s on %s %s-%s",
		req.EntityKind, req.EntityID, types.FormatDate(req.Day), req.Start, req.End)

	if err := uc.prepare(ctx, "UnblockSlot", req); err != nil {
		return nil, err
	}

	key := domain.NewNaturalKey(req.EntityID, req.EntityKind, req.Day)
	record, err := uc.engine.Unblock(ctx, key, req.Start, req.End,
		availability.RequireSlotBlocked(req.Start, req.End),
	)
	if err != nil {
		return nil, uc.mapEngineError("UnblockSlot", err)
	}

	slot, _ := record.FindSlot(req.Start, req.End)
	uc.logger.Info("UnblockSlot: slot %s-%s unblocked on record id=%s", req.Start, req.End, record.ID)
	return &Response{Record: record, Slot: slot}, nil
}

// Вспомогательные методы

// prepare валидирует запрос и проверяет существование сущности
func (uc *UseCase) prepare(ctx context.Context, op string, req *Request) error {
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
		uc.logger.Warn("%s: validation failed: %v", op, err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	found, _, err := uc.catalogClient.Exists(ctx, string(req.EntityKind), req.EntityID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrInvalidEntityID) {
			return fmt.Errorf("%w: malformed entity id", ErrInvalidInput)
		}
		uc.logger.Error("%s: failed to get entity %s/%s: %v", op, req.EntityKind, req.EntityID, err)
		return fmt.Errorf("%w: failed to get entity: %v", ErrInternal, err)
	}
	if !found {
		uc.logger.Warn("%s: entity %s/%s not found", op, req.EntityKind, req.EntityID)
		return ErrEntityNotFound
	}
	return nil
}

// mapEngineError пропускает конфликты состояния как есть, остальное оборачивает
func (uc *UseCase) mapEngineError(op string, err error) error {
	if availability.IsConflict(err) || errors.Is(err, availability.ErrConcurrentModification) {
		uc.logger.Warn("%s: rejected: %v", op, err)
		return err
	}
	if errors.Is(err, availability.ErrInvalidInput) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	uc.logger.Error("%s: engine error: %v", op, err)
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
