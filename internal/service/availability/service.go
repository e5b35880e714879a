package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// DefaultMaxRetries число попыток мутации при конкурентной записи
const DefaultMaxRetries = 3

// Названия операций (метка operation в метриках и логах)
const (
	opReserve = "reserve"
	opRelease = "release"
	opBlock   = "block"
	opUnblock = "unblock"
	opDelete  = "delete"
	opSeed    = "seed"
)

// Service движок слотов: владеет записью доступности (сущность, день) и ее слотами
type Service struct {
	repo       Repository
	store      CachedStore
	txManager  TransactionManager
	metrics    Metrics
	logger     Logger
	maxRetries int
}

// NewService создает новый экземпляр движка слотов
func NewService(
	repo Repository,
	store CachedStore,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	maxRetries int,
) *Service {
	if maxRetries < 1 {
		maxRetries = DefaultMaxRetries
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Service{
		repo:       repo,
		store:      store,
		txManager:  txManager,
		metrics:    metrics,
		logger:     logger,
		maxRetries: maxRetries,
	}
}

// GetFreeSlots слоты дня, доступные для бронирования. Нет записи - пустой список без ошибки.
func (s *Service) GetFreeSlots(ctx context.Context, key domain.NaturalKey) ([]domain.Slot, error) {
	key = domain.NewNaturalKey(key.EntityID, key.EntityKind, key.Day)
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	record, err := s.store.GetByNaturalKey(ctx, key)
	if errors.Is(err, availabilityRepo.ErrRecordNotFound) {
		return []domain.Slot{}, nil
	}
	if err != nil {
		s.logger.Error("GetFreeSlots: store error for %s/%s on %s: %v", key.EntityKind, key.EntityID, types.FormatDate(key.Day), err)
		return nil, fmt.Errorf("%w: GetFreeSlots - store error: %v", ErrInternal, err)
	}

	return domain.FreeSlots(record.Slots), nil
}

// GetRecord запись сущности за день
func (s *Service) GetRecord(ctx context.Context, key domain.NaturalKey) (*domain.AvailabilityRecord, error) {
	key = domain.NewNaturalKey(key.EntityID, key.EntityKind, key.Day)
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	record, err := s.store.GetByNaturalKey(ctx, key)
	if errors.Is(err, availabilityRepo.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		s.logger.Error("GetRecord: store error for %s/%s on %s: %v", key.EntityKind, key.EntityID, types.FormatDate(key.Day), err)
		return nil, fmt.Errorf("%w: GetRecord - store error: %v", ErrInternal, err)
	}

	return record, nil
}

// GetByID запись по идентификатору
func (s *Service) GetByID(ctx context.Context, id string) (*domain.AvailabilityRecord, error) {
	record, err := s.store.GetByID(ctx, id)
	if errors.Is(err, availabilityRepo.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		s.logger.Error("GetByID: store error for id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - store error: %v", ErrInternal, err)
	}
	return record, nil
}

// List записи сущности за период
func (s *Service) List(ctx context.Context, filter domain.AvailabilityFilter) ([]*domain.AvailabilityRecord, error) {
	if filter.EntityID == "" || !filter.EntityKind.IsValid() {
		return nil, fmt.Errorf("%w: entity id and kind are required", ErrInvalidInput)
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, types.ErrInvalidDateRange)
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Limit <= 0 {
		filter.Limit = domain.DefaultListLimit
	}
	if filter.Limit > domain.MaxListLimit {
		filter.Limit = domain.MaxListLimit
	}
	if filter.From != nil {
		from := types.TruncateDay(*filter.From)
		filter.From = &from
	}
	if filter.To != nil {
		to := types.TruncateDay(*filter.To)
		filter.To = &to
	}

	records, err := s.store.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: store error for %s/%s: %v", filter.EntityKind, filter.EntityID, err)
		return nil, fmt.Errorf("%w: List - store error: %v", ErrInternal, err)
	}
	return records, nil
}

// Reserve помечает занятыми все слоты, пересекающиеся с [start, end), ссылкой на бронирование.
// Нет записи - создается запись с единственным зарезервированным слотом.
func (s *Service) Reserve(ctx context.Context, key domain.NaturalKey, start, end types.TimeString, bookingRef string, guards ...Guard) (*domain.AvailabilityRecord, error) {
	if bookingRef == "" {
		return nil, fmt.Errorf("%w: booking reference is required", ErrInvalidInput)
	}
	return s.mutate(ctx, opReserve, key, start, end, guards,
		func() []domain.Slot {
			return []domain.Slot{domain.NewReservedSlot(start, end, bookingRef)}
		},
		func(slots []domain.Slot) ([]domain.Slot, bool, error) {
			out, touched := domain.ReserveRange(slots, start, end, bookingRef)
			return out, touched > 0, nil
		},
	)
}

// Release освобождает слот с точными границами, если он не заблокирован.
// Нет записи - создается запись с одним свободным слотом.
func (s *Service) Release(ctx context.Context, key domain.NaturalKey, start, end types.TimeString, guards ...Guard) (*domain.AvailabilityRecord, error) {
	return s.mutate(ctx, opRelease, key, start, end, guards,
		func() []domain.Slot {
			return []domain.Slot{domain.NewFreeSlot(start, end)}
		},
		func(slots []domain.Slot) ([]domain.Slot, bool, error) {
			out, changed := domain.ReleaseExact(slots, start, end)
			return out, changed, nil
		},
	)
}

// Block блокирует слот с точными границами; если его нет, добавляет новый заблокированный слот.
// Добавление сверх лимита слотов на день отклоняется с ErrSlotLimitReached.
func (s *Service) Block(ctx context.Context, key domain.NaturalKey, start, end types.TimeString, reason string, guards ...Guard) (*domain.AvailabilityRecord, error) {
	return s.mutate(ctx, opBlock, key, start, end, guards,
		func() []domain.Slot {
			return []domain.Slot{domain.NewBlockedSlot(start, end, reason)}
		},
		func(slots []domain.Slot) ([]domain.Slot, bool, error) {
			out, err := domain.BlockExact(slots, start, end, reason)
			if errors.Is(err, domain.ErrTooManySlots) {
				return nil, false, newSlotError(key.Day, start, end, ErrSlotLimitReached)
			}
			return out, err == nil, err
		},
	)
}

// Unblock снимает блокировку со слота с точными границами. Незаблокированный слот не меняется.
// Нет записи - создается запись с одним свободным слотом.
func (s *Service) Unblock(ctx context.Context, key domain.NaturalKey, start, end types.TimeString, guards ...Guard) (*domain.AvailabilityRecord, error) {
	return s.mutate(ctx, opUnblock, key, start, end, guards,
		func() []domain.Slot {
			return []domain.Slot{domain.NewFreeSlot(start, end)}
		},
		func(slots []domain.Slot) ([]domain.Slot, bool, error) {
			out, changed := domain.UnblockExact(slots, start, end)
			return out, changed, nil
		},
	)
}

// Seed создает запись дня из базовых слотов, если ее еще нет.
// Возвращает запись и created=false, если запись уже существовала.
func (s *Service) Seed(ctx context.Context, key domain.NaturalKey, base []domain.BaseSlot) (*domain.AvailabilityRecord, bool, error) {
	key = domain.NewNaturalKey(key.EntityID, key.EntityKind, key.Day)
	if err := key.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	record, created, err := s.repo.Upsert(ctx, &domain.AvailabilityRecord{
		EntityID:   key.EntityID,
		EntityKind: key.EntityKind,
		Day:        key.Day,
		Slots:      domain.SeedSlots(base),
	})
	if err != nil {
		s.logger.Error("Seed: repository error for %s/%s on %s: %v", key.EntityKind, key.EntityID, types.FormatDate(key.Day), err)
		return nil, false, fmt.Errorf("%w: Seed - repository error: %v", ErrInternal, err)
	}

	if created {
		s.invalidate(ctx, opSeed, nil, record)
	}
	return record, created, nil
}

// Delete удаляет запись. Запись с забронированными слотами удалить нельзя.
func (s *Service) Delete(ctx context.Context, id string) error {
	var deleted *domain.AvailabilityRecord

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		record, err := s.repo.GetByID(txCtx, id)
		if errors.Is(err, availabilityRepo.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: Delete - get record: %v", ErrInternal, err)
		}

		if record.HasBookings() {
			return ErrRecordHasBookings
		}

		if err := s.repo.Delete(txCtx, id); err != nil {
			if errors.Is(err, availabilityRepo.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return fmt.Errorf("%w: Delete - delete record: %v", ErrInternal, err)
		}

		deleted = record
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRecordHasBookings) {
			s.metrics.ObserveEngineConflict(opDelete, "has_bookings")
			s.logger.Warn("Delete: record id=%s still has bookings", id)
		} else if !errors.Is(err, ErrRecordNotFound) {
			s.logger.Error("Delete: failed for id=%s: %v", id, err)
		}
		return asServiceError(err, "Delete")
	}

	s.logger.Info("Delete: record id=%s (%s/%s on %s) deleted", id, deleted.EntityKind, deleted.EntityID, types.FormatDate(deleted.Day))
	s.invalidate(ctx, opDelete, deleted, nil)
	return nil
}

// mutate общий цикл мутации: чтение записи под блокировкой, проверка guard-ов, вычисление
// нового списка слотов и запись с проверкой версии. Конфликт версии или гонка создания
// приводят к повтору с перечитыванием записи.
func (s *Service) mutate(
	ctx context.Context,
	op string,
	key domain.NaturalKey,
	start, end types.TimeString,
	guards []Guard,
	create func() []domain.Slot,
	apply func(slots []domain.Slot) ([]domain.Slot, bool, error),
) (*domain.AvailabilityRecord, error) {
	key = domain.NewNaturalKey(key.EntityID, key.EntityKind, key.Day)
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := types.ValidateRange(start, end); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	day := types.FormatDate(key.Day)

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		var before, after *domain.AvailabilityRecord
		changed := false

		err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			current, err := s.repo.GetByNaturalKey(txCtx, key)
			if errors.Is(err, availabilityRepo.ErrRecordNotFound) {
				current = nil
			} else if err != nil {
				return fmt.Errorf("%w: %s - get record: %v", ErrInternal, op, err)
			}

			for _, guard := range guards {
				if err := guard(key, current); err != nil {
					return err
				}
			}

			if current == nil {
				created, err := s.repo.Create(txCtx, &domain.AvailabilityRecord{
					EntityID:   key.EntityID,
					EntityKind: key.EntityKind,
					Day:        key.Day,
					Slots:      create(),
				})
				if err != nil {
					return err
				}
				after, changed = created, true
				return nil
			}

			slots, ok, err := apply(current.Slots)
			if err != nil {
				return err
			}
			if !ok {
				after = current
				return nil
			}

			next := current.Clone()
			next.Slots = slots
			updated, err := s.repo.Update(txCtx, next, current.Version)
			if err != nil {
				return err
			}
			before, after, changed = current, updated, true
			return nil
		})

		if err == nil {
			if changed {
				s.invalidate(ctx, op, before, after)
			}
			s.logger.Info("%s: %s/%s on %s %s-%s done (version=%d, changed=%t)",
				op, key.EntityKind, key.EntityID, day, start, end, after.Version, changed)
			return after, nil
		}

		if isRetryable(err) {
			s.metrics.ObserveEngineRetry(op)
			s.logger.Warn("%s: concurrent write on %s/%s %s, attempt %d/%d: %v",
				op, key.EntityKind, key.EntityID, day, attempt, s.maxRetries, err)
			continue
		}

		if IsConflict(err) {
			s.metrics.ObserveEngineConflict(op, ReasonCode(err))
			s.logger.Warn("%s: rejected for %s/%s: %v", op, key.EntityKind, key.EntityID, err)
			return nil, err
		}

		s.logger.Error("%s: failed for %s/%s on %s: %v", op, key.EntityKind, key.EntityID, day, err)
		return nil, asServiceError(err, op)
	}

	s.logger.Error("%s: giving up on %s/%s %s after %d attempts", op, key.EntityKind, key.EntityID, day, s.maxRetries)
	return nil, ErrConcurrentModification
}

// invalidate сбрасывает кэш после коммита. Ошибки только логируются, вызов не падает,
// и отмена контекста запроса не прерывает инвалидацию.
func (s *Service) invalidate(ctx context.Context, op string, before, after *domain.AvailabilityRecord) {
	s.store.Invalidate(context.WithoutCancel(ctx), before, after)
}

// isRetryable конкурентная запись: повтор с перечитыванием записи может пройти
func isRetryable(err error) bool {
	return errors.Is(err, availabilityRepo.ErrVersionConflict) ||
		errors.Is(err, availabilityRepo.ErrAlreadyExists) ||
		errors.Is(err, txmanager.ErrRetriesExhausted)
}

func asServiceError(err error, op string) error {
	if IsConflict(err) || errors.Is(err, ErrInternal) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	return fmt.Errorf("%w: %s - %v", ErrInternal, op, err)
}

type nopMetrics struct{}

func (nopMetrics) ObserveEngineRetry(string)            {}
func (nopMetrics) ObserveEngineConflict(string, string) {}
