package recurring_block

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	catalogClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const reasonInternal = "internal"

// UseCase use case повторяющейся блокировки слота по дням недели
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

// Execute проходит диапазон по дням и блокирует слот в каждый день с подходящим днем недели.
// Каждый день - отдельная запись без общей транзакции: ошибка одного дня не отменяет остальные.
// Если не заблокирован ни один день, возвращается *BatchError со списком причин.
// При отмене контекста возвращается ErrInterrupted вместе с уже обработанными днями.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RecurringBlock: %s/%s %s..%s %s-%s weekdays=%v",
		req.EntityKind, req.EntityID, types.FormatDate(req.From), types.FormatDate(req.To), req.Start, req.End, req.Weekdays)

	// 1. Валидация входных данных
	weekdays, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("RecurringBlock: validation failed: %v", err)
		return nil, err
	}

	// 2. Сущность существует
	found, _, err := uc.catalogClient.Exists(ctx, string(req.EntityKind), req.EntityID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrInvalidEntityID) {
			return nil, fmt.Errorf("%w: malformed entity id", ErrInvalidInput)
		}
		uc.logger.Error("RecurringBlock: failed to get entity %s/%s: %v", req.EntityKind, req.EntityID, err)
		return nil, fmt.Errorf("%w: failed to get entity: %v", ErrInternal, err)
	}
	if !found {
		uc.logger.Warn("RecurringBlock: entity %s/%s not found", req.EntityKind, req.EntityID)
		return nil, ErrEntityNotFound
	}

	// 3. Обходим дни
	days, err := types.DaysInRange(req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	resp := &Response{
		Blocked:     make([]time.Time, 0),
		Failures:    make([]DayFailure, 0),
		DaysInRange: len(days),
	}

	for _, day := range days {
		if _, ok := weekdays[day.Weekday()]; !ok {
			continue
		}

		if err := ctx.Err(); err != nil {
			uc.logger.Warn("RecurringBlock: interrupted on %s after %d blocked days: %v",
				types.FormatDate(day), len(resp.Blocked), err)
			return resp, fmt.Errorf("%w: %w", ErrInterrupted, err)
		}
		resp.MatchingDays++

		key := domain.NewNaturalKey(req.EntityID, req.EntityKind, day)
		_, err := uc.engine.Block(ctx, key, req.Start, req.End, req.Reason,
			availability.RequireBlockable(req.Start, req.End),
		)
		if err != nil {
			resp.Failures = append(resp.Failures, DayFailure{Day: day, Reason: failureReason(err)})
			if availability.IsConflict(err) {
				uc.logger.Warn("RecurringBlock: %s skipped: %v", types.FormatDate(day), err)
			} else {
				uc.logger.Error("RecurringBlock: %s failed: %v", types.FormatDate(day), err)
			}
			continue
		}
		resp.Blocked = append(resp.Blocked, day)
	}

	if resp.MatchingDays == 0 {
		uc.logger.Warn("RecurringBlock: no day in range matches weekdays %v", req.Weekdays)
		return nil, fmt.Errorf("%w: no day in range matches the weekdays", ErrInvalidInput)
	}

	if len(resp.Blocked) == 0 {
		uc.logger.Warn("RecurringBlock: nothing blocked, %d failures", len(resp.Failures))
		return nil, &BatchError{MatchingDays: resp.MatchingDays, Failures: resp.Failures}
	}

	uc.logger.Info("RecurringBlock: blocked %d of %d matching days (%d in range), %d failures",
		len(resp.Blocked), resp.MatchingDays, resp.DaysInRange, len(resp.Failures))
	return resp, nil
}

// validateRequest валидирует запрос и возвращает множество дней недели
func validateRequest(req *Request) (map[time.Weekday]struct{}, error) {
	if req.EntityID == "" || len(req.EntityID) > domain.MaxEntityIDLength {
		return nil, fmt.Errorf("%w: entityID is required and must be at most %d characters", ErrInvalidInput, domain.MaxEntityIDLength)
	}
	if !req.EntityKind.IsValid() {
		return nil, fmt.Errorf("%w: unknown entity kind %q", ErrInvalidInput, req.EntityKind)
	}
	if err := types.ValidateRange(req.Start, req.End); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(req.Reason) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}
	if req.From.IsZero() || req.To.IsZero() {
		return nil, fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}
	if types.TruncateDay(req.To).Before(types.TruncateDay(req.From)) {
		return nil, fmt.Errorf("%w: to is before from", ErrInvalidInput)
	}
	if n := types.CountDays(req.From, req.To); n > domain.MaxRangeDays {
		return nil, fmt.Errorf("%w: range of %d days exceeds %d", ErrInvalidInput, n, domain.MaxRangeDays)
	}
	if len(req.Weekdays) == 0 {
		return nil, fmt.Errorf("%w: at least one weekday is required", ErrInvalidInput)
	}

	parsed, err := types.ParseWeekdays(req.Weekdays)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	set := make(map[time.Weekday]struct{}, len(parsed))
	for _, wd := range parsed {
		set[wd] = struct{}{}
	}
	return set, nil
}

// failureReason код причины для дня, который не удалось заблокировать
func failureReason(err error) string {
	if availability.IsConflict(err) {
		return availability.ReasonCode(err)
	}
	if errors.Is(err, availability.ErrConcurrentModification) {
		return "concurrent_modification"
	}
	return reasonInternal
}
