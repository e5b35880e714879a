package templates

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/cache"
	templateRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/template"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/templates/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
)

type memTemplates struct {
	mu     sync.Mutex
	nextID int64
	items  map[string]*domain.Template
	gets   int
}

func newMemTemplates() *memTemplates {
	return &memTemplates{items: map[string]*domain.Template{}}
}

func tplKey(id string, kind domain.EntityKind) string { return string(kind) + "/" + id }

func (r *memTemplates) Upsert(_ context.Context, tpl *domain.Template) (*domain.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *tpl
	if existing, ok := r.items[tplKey(tpl.EntityID, tpl.EntityKind)]; ok {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	} else {
		r.nextID++
		c.ID = r.nextID
		c.CreatedAt = time.Now().UTC()
	}
	c.UpdatedAt = time.Now().UTC()
	r.items[tplKey(tpl.EntityID, tpl.EntityKind)] = &c
	out := c
	return &out, nil
}

func (r *memTemplates) GetByEntity(_ context.Context, entityID string, kind domain.EntityKind) (*domain.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	t, ok := r.items[tplKey(entityID, kind)]
	if !ok {
		return nil, templateRepo.ErrTemplateNotFound
	}
	out := *t
	return &out, nil
}

func (r *memTemplates) ListActive(context.Context) ([]*domain.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Template, 0)
	for _, t := range r.items {
		if t.IsActive {
			c := *t
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memTemplates) DeleteByEntity(_ context.Context, entityID string, kind domain.EntityKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := tplKey(entityID, kind)
	if _, ok := r.items[k]; !ok {
		return templateRepo.ErrTemplateNotFound
	}
	delete(r.items, k)
	return nil
}

type fakeCatalog struct {
	entities map[string]*catalogservice.Entity
}

func (c *fakeCatalog) Exists(_ context.Context, kind, entityID string) (bool, *catalogservice.Entity, error) {
	if entityID == "bad id" {
		return false, nil, catalogservice.ErrInvalidEntityID
	}
	e, ok := c.entities[kind+"/"+entityID]
	if !ok {
		return false, nil, nil
	}
	return true, e, nil
}

func newTestService(t *testing.T) (*Service, *memTemplates) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := logger.NewNop()
	repo := newMemTemplates()
	catalog := &fakeCatalog{entities: map[string]*catalogservice.Entity{
		"meeting_room/R1": {ID: "R1", Kind: "meeting_room", Name: "Orion", IsActive: true},
		"office/O1":       {ID: "O1", Kind: "office", Name: "HQ", IsActive: false},
	}}
	c := cache.New(cache.NewClient(rdb), time.Minute, log, nil)
	return NewService(repo, catalog, c, log), repo
}

func validRequest() *models.UpsertTemplateRequest {
	return &models.UpsertTemplateRequest{
		EntityID:   "R1",
		EntityKind: "meeting_room",
		BaseSlots: []models.BaseSlot{
			{Start: "09:00", End: "10:00"},
			{Start: "10:00", End: "11:00"},
		},
		Weekdays:   []string{"friday", "Monday"},
		WindowDays: 14,
	}
}

func TestService_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	resp, err := svc.Upsert(ctx, validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.True(t, resp.IsActive)
	assert.Equal(t, []string{"monday", "friday"}, resp.Weekdays)
	assert.Len(t, resp.BaseSlots, 2)

	got, err := svc.Get(ctx, domain.KindMeetingRoom, "R1")
	require.NoError(t, err)
	assert.Equal(t, resp.BaseSlots, got.BaseSlots)
	assert.Equal(t, 14, got.WindowDays)
}

func TestService_Get_CachedUntilUpsert(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	_, err := svc.Upsert(ctx, validRequest())
	require.NoError(t, err)

	_, err = svc.Get(ctx, domain.KindMeetingRoom, "R1")
	require.NoError(t, err)
	_, err = svc.Get(ctx, domain.KindMeetingRoom, "R1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.gets)

	req := validRequest()
	req.WindowDays = 30
	req.IsActive = ptr.Ptr(false)
	_, err = svc.Upsert(ctx, req)
	require.NoError(t, err)

	got, err := svc.Get(ctx, domain.KindMeetingRoom, "R1")
	require.NoError(t, err)
	assert.Equal(t, 30, got.WindowDays)
	assert.False(t, got.IsActive)
	assert.Equal(t, 2, repo.gets)
}

func TestService_Upsert_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	req := validRequest()
	req.BaseSlots = []models.BaseSlot{{Start: "11:00", End: "10:00"}}
	_, err := svc.Upsert(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.Weekdays = []string{"someday"}
	_, err = svc.Upsert(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.EntityKind = "garage"
	_, err = svc.Upsert(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.BaseSlots = nil
	_, err = svc.Upsert(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Upsert_EntityChecks(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	req := validRequest()
	req.EntityID = "R404"
	_, err := svc.Upsert(ctx, req)
	assert.ErrorIs(t, err, ErrEntityNotFound)

	req = validRequest()
	req.EntityKind, req.EntityID = "office", "O1"
	_, err = svc.Upsert(ctx, req)
	assert.ErrorIs(t, err, ErrEntityInactive)

	req = validRequest()
	req.EntityID = "bad id"
	_, err = svc.Upsert(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Upsert(ctx, validRequest())
	require.NoError(t, err)
	_, err = svc.Get(ctx, domain.KindMeetingRoom, "R1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, domain.KindMeetingRoom, "R1"))

	_, err = svc.Get(ctx, domain.KindMeetingRoom, "R1")
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	err = svc.Delete(ctx, domain.KindMeetingRoom, "R1")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestService_ListActive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Upsert(ctx, validRequest())
	require.NoError(t, err)

	templates, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "R1", templates[0].EntityID)
	assert.True(t, templates[0].AppliesOn(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)))
	assert.False(t, templates[0].AppliesOn(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
}
