package recurring_block

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability/availabilitytest"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// 2024-03-04 понедельник
var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

type fakeCatalog struct{}

func (fakeCatalog) Exists(_ context.Context, kind, entityID string) (bool, *catalogservice.Entity, error) {
	if entityID == "R1" {
		return true, &catalogservice.Entity{ID: entityID, Kind: kind, IsActive: true}, nil
	}
	return false, nil, nil
}

func newFixture(t *testing.T) (*UseCase, *availability.Service) {
	t.Helper()
	log := logger.NewNop()
	repo := availabilitytest.NewRepository()
	engine := availability.NewService(repo, availabilitytest.NewStore(repo), availabilitytest.TxManager{}, nil, log, 3)
	return NewUseCase(engine, fakeCatalog{}, log), engine
}

func key(day time.Time) domain.NaturalKey {
	return domain.NewNaturalKey("R1", domain.KindMeetingRoom, day)
}

func twoWeeks() *Request {
	return &Request{
		EntityID:   "R1",
		EntityKind: domain.KindMeetingRoom,
		From:       monday,
		To:         monday.AddDate(0, 0, 13),
		Start:      "09:00",
		End:        "10:00",
		Reason:     "cleaning",
		Weekdays:   []string{"monday", "wednesday", "friday"},
	}
}

func TestUseCase_Execute_PartialSuccess(t *testing.T) {
	ctx := context.Background()
	uc, engine := newFixture(t)

	wed1 := monday.AddDate(0, 0, 2)
	wed2 := monday.AddDate(0, 0, 9)
	_, err := engine.Reserve(ctx, key(wed1), "09:00", "10:00", "BOOK-1")
	require.NoError(t, err)
	_, err = engine.Reserve(ctx, key(wed2), "09:00", "10:00", "BOOK-2")
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, twoWeeks())
	require.NoError(t, err)

	assert.Equal(t, 14, resp.DaysInRange)
	assert.Equal(t, 6, resp.MatchingDays)
	assert.Len(t, resp.Blocked, 4)
	require.Len(t, resp.Failures, 2)
	assert.Equal(t, resp.MatchingDays, len(resp.Blocked)+len(resp.Failures))
	assert.True(t, resp.Partial())

	assert.Equal(t, wed1, resp.Failures[0].Day)
	assert.Equal(t, "has_active_booking", resp.Failures[0].Reason)
	assert.Equal(t, wed2, resp.Failures[1].Day)

	for _, day := range resp.Blocked {
		rec, err := engine.GetRecord(ctx, key(day))
		require.NoError(t, err)
		slot, ok := rec.FindSlot("09:00", "10:00")
		require.True(t, ok)
		assert.True(t, slot.Blocked)
	}

	// забронированные дни не тронуты
	rec, err := engine.GetRecord(ctx, key(wed1))
	require.NoError(t, err)
	assert.False(t, rec.Slots[0].Blocked)
	assert.True(t, rec.Slots[0].IsReserved())

	// день вне набора дней недели не создан
	_, err = engine.GetRecord(ctx, key(monday.AddDate(0, 0, 1)))
	assert.ErrorIs(t, err, availability.ErrRecordNotFound)
}

func TestUseCase_Execute_AlreadyBlockedDays(t *testing.T) {
	ctx := context.Background()
	uc, _ := newFixture(t)

	first, err := uc.Execute(ctx, twoWeeks())
	require.NoError(t, err)
	assert.Len(t, first.Blocked, 6)
	assert.False(t, first.Partial())

	_, err = uc.Execute(ctx, twoWeeks())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNothingBlocked)

	var batchErr *BatchError
	require.True(t, errors.As(err, &batchErr))
	assert.Equal(t, 6, batchErr.MatchingDays)
	require.Len(t, batchErr.Failures, 6)
	for _, f := range batchErr.Failures {
		assert.Equal(t, "already_blocked", f.Reason)
	}
}

func TestUseCase_Execute_Validation(t *testing.T) {
	ctx := context.Background()
	uc, _ := newFixture(t)

	tests := []struct {
		name   string
		mutate func(r *Request)
		want   error
	}{
		{"unknown weekday", func(r *Request) { r.Weekdays = []string{"funday"} }, ErrInvalidInput},
		{"no weekdays", func(r *Request) { r.Weekdays = nil }, ErrInvalidInput},
		{"reversed range", func(r *Request) { r.From, r.To = r.To, r.From }, ErrInvalidInput},
		{"range too long", func(r *Request) { r.To = r.From.AddDate(0, 0, domain.MaxRangeDays) }, ErrInvalidInput},
		{"bad time", func(r *Request) { r.End = "24:00" }, ErrInvalidInput},
		{"unknown entity", func(r *Request) { r.EntityID = "R404" }, ErrEntityNotFound},
		{"no matching day", func(r *Request) {
			r.To = r.From.AddDate(0, 0, 1)
			r.Weekdays = []string{"sunday"}
		}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := twoWeeks()
			tt.mutate(req)
			_, err := uc.Execute(ctx, req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUseCase_Execute_MaxRangeAccepted(t *testing.T) {
	ctx := context.Background()
	uc, _ := newFixture(t)

	req := twoWeeks()
	req.To = req.From.AddDate(0, 0, domain.MaxRangeDays-1)
	req.Weekdays = []string{"sunday"}

	resp, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxRangeDays, resp.DaysInRange)
	assert.Equal(t, types.CountDays(req.From, req.To), resp.DaysInRange)
	assert.Equal(t, resp.MatchingDays, len(resp.Blocked))
}

type cancelAfterEngine struct {
	engine SlotEngine
	after  int
	cancel context.CancelFunc
	calls  int
}

func (e *cancelAfterEngine) Block(ctx context.Context, key domain.NaturalKey, start, end types.TimeString, reason string, guards ...availability.Guard) (*domain.AvailabilityRecord, error) {
	rec, err := e.engine.Block(ctx, key, start, end, reason, guards...)
	e.calls++
	if e.calls == e.after {
		e.cancel()
	}
	return rec, err
}

func TestUseCase_Execute_CancelledKeepsCommittedDays(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logger.NewNop()
	repo := availabilitytest.NewRepository()
	engine := availability.NewService(repo, availabilitytest.NewStore(repo), availabilitytest.TxManager{}, nil, log, 3)
	uc := NewUseCase(&cancelAfterEngine{engine: engine, after: 2, cancel: cancel}, fakeCatalog{}, log)

	resp, err := uc.Execute(ctx, twoWeeks())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.ErrorIs(t, err, context.Canceled)

	require.NotNil(t, resp)
	assert.Equal(t, []time.Time{monday, monday.AddDate(0, 0, 2)}, resp.Blocked)
	assert.Equal(t, 2, resp.MatchingDays)
	assert.Equal(t, 2, repo.Len())
}
