package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/cache"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Store кэширующее чтение записей доступности и их инвалидация
type Store struct {
	repo  Repository
	cache *cache.Cache
	log   Logger
}

func NewStore(repo Repository, c *cache.Cache, log Logger) *Store {
	return &Store{repo: repo, cache: c, log: log}
}

// GetByID запись по ID
func (s *Store) GetByID(ctx context.Context, id string) (*domain.AvailabilityRecord, error) {
	key := cache.RecordIDKey(id)
	return cache.ReadThrough(ctx, s.cache, cache.FamilyRecordByID, key,
		cache.Scope{Generations: []string{cache.GenerationKey(key)}},
		func(ctx context.Context) (*domain.AvailabilityRecord, error) {
			return s.repo.GetByID(ctx, id)
		},
	)
}

// GetByNaturalKey запись сущности за день
func (s *Store) GetByNaturalKey(ctx context.Context, key domain.NaturalKey) (*domain.AvailabilityRecord, error) {
	kind := string(key.EntityKind)
	return cache.ReadThrough(ctx, s.cache, cache.FamilyRecordByDay,
		cache.RecordDayKey(kind, key.EntityID, key.Day),
		cache.Scope{Generations: []string{entityGeneration(kind, key.EntityID)}},
		func(ctx context.Context) (*domain.AvailabilityRecord, error) {
			return s.repo.GetByNaturalKey(ctx, key)
		},
	)
}

// List страница записей сущности; ключ страницы попадает в индекс сущности
func (s *Store) List(ctx context.Context, filter domain.AvailabilityFilter) ([]*domain.AvailabilityRecord, error) {
	kind := string(filter.EntityKind)
	key := cache.RecordListKey(kind, filter.EntityID, formatBound(filter.From), formatBound(filter.To), filter.Offset, filter.Limit)

	return cache.ReadThrough(ctx, s.cache, cache.FamilyRecordList, key,
		cache.Scope{
			Indexes:     []string{cache.EntityIndexKey(kind, filter.EntityID)},
			Generations: []string{entityGeneration(kind, filter.EntityID)},
		},
		func(ctx context.Context) ([]*domain.AvailabilityRecord, error) {
			return s.repo.List(ctx, filter)
		},
	)
}

// Invalidate удаляет ключи старой и новой версии записи и все страницы списков затронутых сущностей.
// Любой из аргументов может быть nil (создание или удаление).
func (s *Store) Invalidate(ctx context.Context, before, after *domain.AvailabilityRecord) {
	keys := make([]string, 0, 4)
	var scope cache.Scope

	for _, rec := range []*domain.AvailabilityRecord{before, after} {
		if rec == nil {
			continue
		}
		kind := string(rec.EntityKind)
		if rec.ID != "" {
			idKey := cache.RecordIDKey(rec.ID)
			keys = append(keys, idKey)
			scope.Generations = append(scope.Generations, cache.GenerationKey(idKey))
		}
		keys = append(keys, cache.RecordDayKey(kind, rec.EntityID, rec.Day))
		scope.Indexes = append(scope.Indexes, cache.EntityIndexKey(kind, rec.EntityID))
		scope.Generations = append(scope.Generations, entityGeneration(kind, rec.EntityID))
	}

	if len(keys) == 0 {
		return
	}

	if err := s.cache.Invalidate(ctx, cache.FamilyRecordByDay, keys, scope); err != nil {
		s.log.Warn("availability cache: invalidation incomplete for %v: %v", keys, err)
	}
}

func entityGeneration(kind, entityID string) string {
	return cache.GenerationKey(cache.EntityIndexKey(kind, entityID))
}

func formatBound(t *time.Time) string {
	if t == nil {
		return ""
	}
	return types.FormatDate(*t)
}
