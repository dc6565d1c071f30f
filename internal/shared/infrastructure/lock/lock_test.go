package lock

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLocker()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l.clock = func() time.Time { return now }

	t.Run("second acquire is refused until release", func(t *testing.T) {
		release, ok := l.TryAcquire(ctx, "report:1", time.Minute)
		require.True(t, ok)

		_, ok = l.TryAcquire(ctx, "report:1", time.Minute)
		assert.False(t, ok)

		release(ctx)
		_, ok = l.TryAcquire(ctx, "report:1", time.Minute)
		assert.True(t, ok)
	})

	t.Run("expired hold can be taken over", func(t *testing.T) {
		stale, ok := l.TryAcquire(ctx, "report:2", time.Second)
		require.True(t, ok)

		now = now.Add(2 * time.Second)
		_, ok = l.TryAcquire(ctx, "report:2", time.Minute)
		assert.True(t, ok)

		// The stale holder must not release the new hold.
		stale(ctx)
		_, ok = l.TryAcquire(ctx, "report:2", time.Minute)
		assert.False(t, ok)
	})
}

func TestRedisLocker_FailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	release, ok := NewRedisLocker(rdb, nil).TryAcquire(context.Background(), "report:3", time.Minute)
	assert.True(t, ok)
	require.NotNil(t, release)
	release(context.Background())
}
