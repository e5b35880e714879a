// Package availabilitytest содержит хранилище записей доступности в памяти для тестов движка и usecase-ов.
package availabilitytest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Repository хранилище в памяти с той же проверкой версии и уникальностью ключа, что у Postgres-репозитория
type Repository struct {
	mu      sync.Mutex
	records map[string]*domain.AvailabilityRecord
	byKey   map[string]string

	// UpdateErr, если задан, возвращается из каждого Update
	UpdateErr error
}

func NewRepository() *Repository {
	return &Repository{
		records: make(map[string]*domain.AvailabilityRecord),
		byKey:   make(map[string]string),
	}
}

func keyString(k domain.NaturalKey) string {
	return fmt.Sprintf("%s/%s/%s", k.EntityKind, k.EntityID, types.FormatDate(k.Day))
}

// Len число записей
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Put кладет запись как есть, минуя проверки
func (r *Repository) Put(rec *domain.AvailabilityRecord) *domain.AvailabilityRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := rec.Clone()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Version == 0 {
		c.Version = 1
	}
	c.Day = types.TruncateDay(c.Day)
	r.records[c.ID] = c
	r.byKey[keyString(c.Key())] = c.ID
	return c.Clone()
}

func (r *Repository) Create(_ context.Context, record *domain.AvailabilityRecord) (*domain.AvailabilityRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := keyString(record.Key())
	if _, ok := r.byKey[k]; ok {
		return nil, fmt.Errorf("%w: Create - duplicate key %s", availabilityRepo.ErrAlreadyExists, k)
	}
	c := record.Clone()
	c.ID = uuid.NewString()
	c.Day = types.TruncateDay(c.Day)
	c.Version = 1
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	r.records[c.ID] = c
	r.byKey[k] = c.ID
	return c.Clone(), nil
}

func (r *Repository) Upsert(ctx context.Context, record *domain.AvailabilityRecord) (*domain.AvailabilityRecord, bool, error) {
	created, err := r.Create(ctx, record)
	if err == nil {
		return created, true, nil
	}
	existing, err := r.GetByNaturalKey(ctx, record.Key())
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.AvailabilityRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, availabilityRepo.ErrRecordNotFound
	}
	return rec.Clone(), nil
}

func (r *Repository) GetByNaturalKey(_ context.Context, key domain.NaturalKey) (*domain.AvailabilityRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byKey[keyString(domain.NewNaturalKey(key.EntityID, key.EntityKind, key.Day))]
	if !ok {
		return nil, availabilityRepo.ErrRecordNotFound
	}
	return r.records[id].Clone(), nil
}

// List записи сущности, отсортированные по дню
func (r *Repository) List(_ context.Context, filter domain.AvailabilityFilter) ([]*domain.AvailabilityRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.AvailabilityRecord, 0)
	for _, rec := range r.records {
		if rec.EntityID != filter.EntityID || rec.EntityKind != filter.EntityKind {
			continue
		}
		if filter.From != nil && rec.Day.Before(*filter.From) {
			continue
		}
		if filter.To != nil && rec.Day.After(*filter.To) {
			continue
		}
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })

	if filter.Offset >= len(out) {
		return []*domain.AvailabilityRecord{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *Repository) Update(_ context.Context, record *domain.AvailabilityRecord, expectedVersion int64) (*domain.AvailabilityRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UpdateErr != nil {
		return nil, r.UpdateErr
	}
	current, ok := r.records[record.ID]
	if !ok || current.Version != expectedVersion {
		return nil, fmt.Errorf("%w: Update - id=%s", availabilityRepo.ErrVersionConflict, record.ID)
	}
	c := record.Clone()
	c.Version = expectedVersion + 1
	c.UpdatedAt = time.Now().UTC()
	r.records[c.ID] = c
	return c.Clone(), nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return availabilityRepo.ErrRecordNotFound
	}
	delete(r.records, id)
	delete(r.byKey, keyString(rec.Key()))
	return nil
}

// Store читает напрямую из Repository и считает инвалидации
type Store struct {
	*Repository

	mu            sync.Mutex
	invalidations int
}

func NewStore(repo *Repository) *Store {
	return &Store{Repository: repo}
}

func (s *Store) Invalidate(_ context.Context, before, after *domain.AvailabilityRecord) {
	if before == nil && after == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidations++
}

// Invalidations число вызовов Invalidate
func (s *Store) Invalidations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalidations
}

// TxManager выполняет fn без транзакции; конкурентность закрывается проверкой версии в Repository
type TxManager struct{}

func (TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
