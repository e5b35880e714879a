package availability

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability/availabilitytest"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

var testDay = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func testKey() domain.NaturalKey {
	return domain.NewNaturalKey("E1", domain.KindMeetingRoom, testDay)
}

type countingMetrics struct {
	mu        sync.Mutex
	retries   map[string]int
	conflicts map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{retries: map[string]int{}, conflicts: map[string]int{}}
}

func (m *countingMetrics) ObserveEngineRetry(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retries[operation]++
}

func (m *countingMetrics) ObserveEngineConflict(operation, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts[operation+":"+reason]++
}

func newTestService(t *testing.T, maxRetries int) (*Service, *availabilitytest.Repository, *availabilitytest.Store, *countingMetrics) {
	t.Helper()
	repo := availabilitytest.NewRepository()
	store := availabilitytest.NewStore(repo)
	m := newCountingMetrics()
	svc := NewService(repo, store, availabilitytest.TxManager{}, m, logger.NewNop(), maxRetries)
	return svc, repo, store, m
}

func seedFree(t *testing.T, svc *Service, slots ...domain.BaseSlot) *domain.AvailabilityRecord {
	t.Helper()
	rec, created, err := svc.Seed(context.Background(), testKey(), slots)
	require.NoError(t, err)
	require.True(t, created)
	return rec
}

func TestService_GetFreeSlots_NoRecord(t *testing.T) {
	svc, _, _, _ := newTestService(t, 3)

	slots, err := svc.GetFreeSlots(context.Background(), testKey())
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestService_ReserveReleaseBlockLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, _, m := newTestService(t, 3)
	seedFree(t, svc, domain.BaseSlot{Start: "09:00", End: "10:00"})

	rec, err := svc.Reserve(ctx, testKey(), "09:00", "10:00", "BOOK-1",
		RequireRecord(), RequireRangeAvailable("09:00", "10:00"))
	require.NoError(t, err)
	require.Len(t, rec.Slots, 1)
	assert.False(t, rec.Slots[0].Free)
	assert.Equal(t, "BOOK-1", ptr.Value(rec.Slots[0].BookingRef))

	free, err := svc.GetFreeSlots(ctx, testKey())
	require.NoError(t, err)
	assert.Empty(t, free)

	rec, err = svc.Release(ctx, testKey(), "09:00", "10:00")
	require.NoError(t, err)
	assert.True(t, rec.Slots[0].Free)
	assert.Nil(t, rec.Slots[0].BookingRef)

	rec, err = svc.Block(ctx, testKey(), "09:00", "10:00", "maintenance")
	require.NoError(t, err)
	require.Len(t, rec.Slots, 1)
	assert.False(t, rec.Slots[0].Free)
	assert.True(t, rec.Slots[0].Blocked)
	assert.Equal(t, "maintenance", ptr.Value(rec.Slots[0].Reason))

	free, err = svc.GetFreeSlots(ctx, testKey())
	require.NoError(t, err)
	assert.Empty(t, free)

	_, err = svc.Reserve(ctx, testKey(), "09:00", "10:00", "BOOK-2",
		RequireRecord(), RequireRangeAvailable("09:00", "10:00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotBlocked)

	var slotErr *SlotError
	require.True(t, errors.As(err, &slotErr))
	assert.Equal(t, "blocked", slotErr.Code())
	assert.Equal(t, testDay, slotErr.Day)
	assert.Equal(t, 1, m.conflicts["reserve:blocked"])

	stored, err := svc.GetRecord(ctx, testKey())
	require.NoError(t, err)
	assert.True(t, stored.Slots[0].Blocked)
	assert.Nil(t, stored.Slots[0].BookingRef)
}

func TestService_Reserve_CreatesRecord(t *testing.T) {
	svc, _, store, _ := newTestService(t, 3)

	rec, err := svc.Reserve(context.Background(), testKey(), "14:00", "15:00", "BOOK-1")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, int64(1), rec.Version)
	require.Len(t, rec.Slots, 1)
	assert.True(t, rec.Slots[0].IsReserved())
	assert.Equal(t, 1, store.Invalidations())
}

func TestService_Reserve_RewritesOverlappingSlots(t *testing.T) {
	svc, _, _, _ := newTestService(t, 3)
	seedFree(t, svc,
		domain.BaseSlot{Start: "09:00", End: "09:30"},
		domain.BaseSlot{Start: "09:30", End: "10:00"},
		domain.BaseSlot{Start: "10:00", End: "10:30"},
	)

	rec, err := svc.Reserve(context.Background(), testKey(), "09:00", "10:00", "BOOK-1",
		RequireRecord(), RequireRangeAvailable("09:00", "10:00"))
	require.NoError(t, err)

	require.Len(t, rec.Slots, 3)
	assert.Equal(t, "BOOK-1", ptr.Value(rec.Slots[0].BookingRef))
	assert.Equal(t, "BOOK-1", ptr.Value(rec.Slots[1].BookingRef))
	assert.True(t, rec.Slots[2].Free)
	assert.Equal(t, int64(2), rec.Version)

	free, err := svc.GetFreeSlots(context.Background(), testKey())
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, "10:00", free[0].Start.String())
}

func TestService_Reserve_GuardRejectsPartiallyReservedRange(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t, 3)
	seedFree(t, svc,
		domain.BaseSlot{Start: "09:00", End: "09:30"},
		domain.BaseSlot{Start: "09:30", End: "10:00"},
	)

	_, err := svc.Reserve(ctx, testKey(), "09:30", "10:00", "BOOK-1")
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, testKey(), "09:00", "10:00", "BOOK-2",
		RequireRecord(), RequireRangeAvailable("09:00", "10:00"))
	assert.ErrorIs(t, err, ErrSlotAlreadyReserved)

	_, err = svc.Reserve(ctx, testKey(), "12:00", "13:00", "BOOK-3",
		RequireRecord(), RequireRangeAvailable("12:00", "13:00"))
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestService_Reserve_RequireRecord(t *testing.T) {
	svc, repo, _, m := newTestService(t, 3)

	_, err := svc.Reserve(context.Background(), testKey(), "09:00", "10:00", "BOOK-1", RequireRecord())
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.Equal(t, 0, repo.Len())
	assert.Equal(t, 1, m.conflicts["reserve:record_not_found"])
}

func TestService_ReserveRelease_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t, 3)
	seedFree(t, svc, domain.BaseSlot{Start: "11:00", End: "12:00"})

	_, err := svc.Reserve(ctx, testKey(), "11:00", "12:00", "BOOK-1")
	require.NoError(t, err)
	rec, err := svc.Release(ctx, testKey(), "11:00", "12:00")
	require.NoError(t, err)

	assert.Equal(t, domain.NewFreeSlot("11:00", "12:00"), rec.Slots[0])
}

func TestService_Release_BlockedSlotUntouched(t *testing.T) {
	ctx := context.Background()
	svc, _, store, _ := newTestService(t, 3)
	seedFree(t, svc, domain.BaseSlot{Start: "11:00", End: "12:00"})
	_, err := svc.Block(ctx, testKey(), "11:00", "12:00", "cleaning")
	require.NoError(t, err)
	before := store.Invalidations()

	rec, err := svc.Release(ctx, testKey(), "11:00", "12:00")
	require.NoError(t, err)
	assert.True(t, rec.Slots[0].Blocked)
	assert.False(t, rec.Slots[0].Free)
	assert.Equal(t, before, store.Invalidations())
}

func TestService_Release_CreatesRecordWhenMissing(t *testing.T) {
	svc, _, _, _ := newTestService(t, 3)

	rec, err := svc.Release(context.Background(), testKey(), "08:00", "09:00")
	require.NoError(t, err)
	assert.Equal(t, []domain.Slot{domain.NewFreeSlot("08:00", "09:00")}, rec.Slots)
}

func TestService_Release_AlreadyFreeIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, _, store, _ := newTestService(t, 3)
	seedFree(t, svc, domain.BaseSlot{Start: "11:00", End: "12:00"})

	_, err := svc.Reserve(ctx, testKey(), "11:00", "12:00", "BOOK-1")
	require.NoError(t, err)
	released, err := svc.Release(ctx, testKey(), "11:00", "12:00")
	require.NoError(t, err)
	before := store.Invalidations()

	again, err := svc.Release(ctx, testKey(), "11:00", "12:00")
	require.NoError(t, err)
	assert.Equal(t, released.Version, again.Version)
	assert.Equal(t, before, store.Invalidations())
}

func TestService_Block_AppendsMissingSlot(t *testing.T) {
	svc, _, _, _ := newTestService(t, 3)
	seedFree(t, svc, domain.BaseSlot{Start: "09:00", End: "10:00"})

	rec, err := svc.Block(context.Background(), testKey(), "13:00", "14:00", "")
	require.NoError(t, err)
	require.Len(t, rec.Slots, 2)
	assert.True(t, rec.Slots[0].Free)
	assert.True(t, rec.Slots[1].Blocked)
	assert.Nil(t, rec.Slots[1].Reason)
}

func TestService_Block_GuardRejectsReservedSlot(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t, 3)
	_, err := svc.Reserve(ctx, testKey(), "09:00", "10:00", "BOOK-1")
	require.NoError(t, err)

	_, err = svc.Block(ctx, testKey(), "09:00", "10:00", "repair", RequireBlockable("09:00", "10:00"))
	assert.ErrorIs(t, err, ErrSlotHasActiveBooking)
	assert.Equal(t, "has_active_booking", ReasonCode(err))
}

func TestService_Unblock_NotBlockedIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, _, store, _ := newTestService(t, 3)
	seeded := seedFree(t, svc, domain.BaseSlot{Start: "09:00", End: "10:00"})
	before := store.Invalidations()

	rec, err := svc.Unblock(ctx, testKey(), "09:00", "10:00")
	require.NoError(t, err)
	assert.Equal(t, seeded.Slots, rec.Slots)
	assert.Equal(t, seeded.Version, rec.Version)
	assert.Equal(t, before, store.Invalidations())
}

func TestService_BlockUnblock(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t, 3)
	seedFree(t, svc, domain.BaseSlot{Start: "09:00", End: "10:00"})

	_, err := svc.Block(ctx, testKey(), "09:00", "10:00", "maintenance")
	require.NoError(t, err)

	rec, err := svc.Unblock(ctx, testKey(), "09:00", "10:00", RequireSlotBlocked("09:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, domain.NewFreeSlot("09:00", "10:00"), rec.Slots[0])

	_, err = svc.Unblock(ctx, testKey(), "09:00", "10:00", RequireSlotBlocked("09:00", "10:00"))
	assert.ErrorIs(t, err, ErrSlotNotBlocked)
}

func TestService_BlockUnblockReservedSlot_DropsBookingRef(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t, 3)
	seedFree(t, svc, domain.BaseSlot{Start: "09:00", End: "10:00"})

	_, err := svc.Reserve(ctx, testKey(), "09:00", "10:00", "BOOK-1")
	require.NoError(t, err)
	_, err = svc.Block(ctx, testKey(), "09:00", "10:00", "repair")
	require.NoError(t, err)

	rec, err := svc.Unblock(ctx, testKey(), "09:00", "10:00")
	require.NoError(t, err)
	require.Len(t, rec.Slots, 1)
	assert.True(t, rec.Slots[0].Free)
	assert.Nil(t, rec.Slots[0].BookingRef)

	free, err := svc.GetFreeSlots(ctx, testKey())
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Nil(t, free[0].BookingRef)
}

func TestService_Block_DailySlotLimit(t *testing.T) {
	ctx := context.Background()
	svc, _, store, m := newTestService(t, 3)

	base := make([]domain.BaseSlot, domain.MaxSlotsPerDay)
	for i := range base {
		base[i] = domain.BaseSlot{Start: "09:00", End: "10:00"}
	}
	seeded := seedFree(t, svc, base...)
	before := store.Invalidations()

	_, err := svc.Block(ctx, testKey(), "10:00", "11:00", "maintenance")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotLimitReached)
	assert.Equal(t, "slot_limit_reached", ReasonCode(err))
	assert.True(t, IsConflict(err))
	assert.Equal(t, 1, m.conflicts["block:slot_limit_reached"])
	assert.Equal(t, before, store.Invalidations())

	stored, err := svc.GetRecord(ctx, testKey())
	require.NoError(t, err)
	assert.Len(t, stored.Slots, domain.MaxSlotsPerDay)
	assert.Equal(t, seeded.Version, stored.Version)
}

func TestService_InvalidInput(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t, 3)

	_, err := svc.Reserve(ctx, testKey(), "10:00", "09:00", "BOOK-1")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Block(ctx, testKey(), "9:00", "10:00", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Reserve(ctx, testKey(), "09:00", "10:00", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	badKey := domain.NewNaturalKey("E1", domain.EntityKind("garage"), testDay)
	_, err = svc.Release(ctx, badKey, "09:00", "10:00")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetFreeSlots(ctx, domain.NaturalKey{EntityKind: domain.KindOffice, Day: testDay})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ConcurrentReserve_ExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newTestService(t, 5)
	seedFree(t, svc, domain.BaseSlot{Start: "09:00", End: "10:00"})

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
		errs    []error
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ref := fmt.Sprintf("BOOK-%d", i)
			_, err := svc.Reserve(ctx, testKey(), "09:00", "10:00", ref,
				RequireRecord(), RequireRangeAvailable("09:00", "10:00"))

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners = append(winners, ref)
				return
			}
			errs = append(errs, err)
		}(i)
	}
	wg.Wait()

	require.Len(t, winners, 1)
	require.Len(t, errs, workers-1)
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrSlotAlreadyReserved)
	}

	stored, err := repo.GetByNaturalKey(ctx, testKey())
	require.NoError(t, err)
	assert.Equal(t, winners[0], ptr.Value(stored.Slots[0].BookingRef))
	assert.Equal(t, int64(2), stored.Version)
}

func TestService_ConcurrentLazyCreate(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newTestService(t, 10)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := fmt.Sprintf("%02d:00", 8+i)
			end := fmt.Sprintf("%02d:30", 8+i)
			_, err := svc.Block(ctx, testKey(), types.TimeString(start), types.TimeString(end), "")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, repo.Len())
	stored, err := repo.GetByNaturalKey(ctx, testKey())
	require.NoError(t, err)
	assert.Len(t, stored.Slots, 8)
}

func TestService_RetriesExhausted(t *testing.T) {
	svc, repo, _, m := newTestService(t, 3)
	seedFree(t, svc, domain.BaseSlot{Start: "09:00", End: "10:00"})
	repo.UpdateErr = fmt.Errorf("%w: forced", availabilityRepo.ErrVersionConflict)

	_, err := svc.Reserve(context.Background(), testKey(), "09:00", "10:00", "BOOK-1")
	assert.ErrorIs(t, err, ErrConcurrentModification)
	assert.Equal(t, 3, m.retries["reserve"])
}

func TestService_InfrastructureErrorIsInternal(t *testing.T) {
	svc, repo, _, _ := newTestService(t, 3)
	seedFree(t, svc, domain.BaseSlot{Start: "09:00", End: "10:00"})
	repo.UpdateErr = errors.New("connection refused")

	_, err := svc.Reserve(context.Background(), testKey(), "09:00", "10:00", "BOOK-1")
	assert.ErrorIs(t, err, ErrInternal)
	assert.False(t, IsConflict(err))
}

func TestService_Seed_ExistingRecordKept(t *testing.T) {
	ctx := context.Background()
	svc, _, store, _ := newTestService(t, 3)
	seedFree(t, svc, domain.BaseSlot{Start: "09:00", End: "10:00"})
	_, err := svc.Reserve(ctx, testKey(), "09:00", "10:00", "BOOK-1")
	require.NoError(t, err)
	before := store.Invalidations()

	rec, created, err := svc.Seed(ctx, testKey(), []domain.BaseSlot{{Start: "12:00", End: "13:00"}})
	require.NoError(t, err)
	assert.False(t, created)
	require.Len(t, rec.Slots, 1)
	assert.Equal(t, "BOOK-1", ptr.Value(rec.Slots[0].BookingRef))
	assert.Equal(t, before, store.Invalidations())
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, repo, store, _ := newTestService(t, 3)

	reserved, err := svc.Reserve(ctx, testKey(), "09:00", "10:00", "BOOK-1")
	require.NoError(t, err)

	err = svc.Delete(ctx, reserved.ID)
	assert.ErrorIs(t, err, ErrRecordHasBookings)
	assert.Equal(t, 1, repo.Len())

	_, err = svc.Release(ctx, testKey(), "09:00", "10:00")
	require.NoError(t, err)
	before := store.Invalidations()

	require.NoError(t, svc.Delete(ctx, reserved.ID))
	assert.Equal(t, 0, repo.Len())
	assert.Equal(t, before+1, store.Invalidations())

	_, err = svc.GetByID(ctx, reserved.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	err = svc.Delete(ctx, reserved.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestService_List_AppliesDefaults(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t, 3)
	seedFree(t, svc, domain.BaseSlot{Start: "09:00", End: "10:00"})

	records, err := svc.List(ctx, domain.AvailabilityFilter{EntityID: "E1", EntityKind: domain.KindMeetingRoom})
	require.NoError(t, err)
	assert.Len(t, records, 1)

	from := testDay.AddDate(0, 0, 2)
	to := testDay
	_, err = svc.List(ctx, domain.AvailabilityFilter{EntityID: "E1", EntityKind: domain.KindMeetingRoom, From: &from, To: &to})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.List(ctx, domain.AvailabilityFilter{EntityKind: domain.KindMeetingRoom})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
