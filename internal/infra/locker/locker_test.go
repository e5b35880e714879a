package locker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/infra/cache"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{}) {}

func newLocker(t *testing.T) (*Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(cache.NewClient(rdb), nopLogger{}), mr
}

func TestLocker_ExclusiveUntilUnlock(t *testing.T) {
	l, mr := newLocker(t)
	ctx := context.Background()

	first, err := l.TryLock(ctx, "seeder:leader", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := l.TryLock(ctx, "seeder:leader", time.Minute)
	require.NoError(t, err)
	assert.Nil(t, second)

	require.NoError(t, l.Unlock(ctx, first))
	assert.False(t, mr.Exists("seeder:leader"))

	third, err := l.TryLock(ctx, "seeder:leader", time.Minute)
	require.NoError(t, err)
	assert.NotNil(t, third)
}

func TestLocker_UnlockAfterExpiryDoesNotStealForeignLock(t *testing.T) {
	l, mr := newLocker(t)
	ctx := context.Background()

	stale, err := l.TryLock(ctx, "seeder:leader", time.Second)
	require.NoError(t, err)
	require.NotNil(t, stale)

	mr.FastForward(2 * time.Second)

	current, err := l.TryLock(ctx, "seeder:leader", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, current)

	assert.ErrorIs(t, l.Unlock(ctx, stale), ErrLockNotOwned)
	assert.ErrorIs(t, l.Extend(ctx, stale, time.Minute), ErrLockNotOwned)
	assert.True(t, mr.Exists("seeder:leader"))

	require.NoError(t, l.Extend(ctx, current, 5*time.Minute))
	assert.Equal(t, 5*time.Minute, mr.TTL("seeder:leader"))
}
