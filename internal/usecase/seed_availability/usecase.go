package seed_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	catalogClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// UseCase use case посева записей доступности из базовых слотов
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

// Execute создает по записи на каждый день диапазона.
// Существующие записи не перезаписываются и попадают в Skipped, поэтому повторный посев безопасен.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SeedAvailability: %s/%s %s..%s, %d base slots",
		req.EntityKind, req.EntityID, types.FormatDate(req.From), types.FormatDate(req.To), len(req.BaseSlots))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SeedAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Сущность существует и активна
	found, entity, err := uc.catalogClient.Exists(ctx, string(req.EntityKind), req.EntityID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrInvalidEntityID) {
			return nil, fmt.Errorf("%w: malformed entity id", ErrInvalidInput)
		}
		uc.logger.Error("SeedAvailability: failed to get entity %s/%s: %v", req.EntityKind, req.EntityID, err)
		return nil, fmt.Errorf("%w: failed to get entity: %v", ErrInternal, err)
	}
	if !found {
		uc.logger.Warn("SeedAvailability: entity %s/%s not found", req.EntityKind, req.EntityID)
		return nil, ErrEntityNotFound
	}
	if !entity.IsActive {
		uc.logger.Warn("SeedAvailability: entity %s/%s is not active", req.EntityKind, req.EntityID)
		return nil, ErrEntityInactive
	}

	// 3. Посев по дням
	days, err := types.DaysInRange(req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	tpl := &domain.Template{Weekdays: req.Weekdays}

	resp := &Response{
		Created: make([]*domain.AvailabilityRecord, 0, len(days)),
		Skipped: make([]time.Time, 0),
	}
	for _, day := range days {
		if !tpl.AppliesOn(day) {
			continue
		}

		key := domain.NewNaturalKey(req.EntityID, req.EntityKind, day)
		record, created, err := uc.engine.Seed(ctx, key, req.BaseSlots)
		if err != nil {
			uc.logger.Error("SeedAvailability: failed on %s after %d created: %v", types.FormatDate(day), len(resp.Created), err)
			return nil, fmt.Errorf("%w: seed %s: %v", ErrInternal, types.FormatDate(day), err)
		}
		if !created {
			resp.Skipped = append(resp.Skipped, day)
			continue
		}
		resp.Created = append(resp.Created, record)
	}

	uc.logger.Info("SeedAvailability: %s/%s created=%d skipped=%d",
		req.EntityKind, req.EntityID, len(resp.Created), len(resp.Skipped))
	return resp, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.EntityID == "" || len(req.EntityID) > domain.MaxEntityIDLength {
		return fmt.Errorf("%w: entityID is required and must be at most %d characters", ErrInvalidInput, domain.MaxEntityIDLength)
	}
	if !req.EntityKind.IsValid() {
		return fmt.Errorf("%w: unknown entity kind %q", ErrInvalidInput, req.EntityKind)
	}
	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}
	if types.TruncateDay(req.To).Before(types.TruncateDay(req.From)) {
		return fmt.Errorf("%w: to is before from", ErrInvalidInput)
	}
	if n := types.CountDays(req.From, req.To); n > domain.MaxRangeDays {
		return fmt.Errorf("%w: range of %d days exceeds %d", ErrInvalidInput, n, domain.MaxRangeDays)
	}
	if err := domain.ValidateBaseSlots(req.BaseSlots); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
