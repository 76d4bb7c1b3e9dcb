package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLimiter(t *testing.T) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLimiter(client), mr
}

func TestRedisLimiter_Allow(t *testing.T) {
	limiter, _ := newTestRedisLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		res, err := limiter.Allow(ctx, "login:couple@example.com", 5, 15*time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "attempt %d should be allowed", i+1)
		assert.Equal(t, 4-i, res.Remaining)
	}

	res, err := limiter.Allow(ctx, "login:couple@example.com", 5, 15*time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)

	// Other keys are independent.
	res, err = limiter.Allow(ctx, "login:other@example.com", 5, 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRedisLimiter_Reset(t *testing.T) {
	limiter, mr := newTestRedisLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.Allow(ctx, "k", 3, time.Minute)
		require.NoError(t, err)
	}
	res, err := limiter.Allow(ctx, "k", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	require.NoError(t, limiter.Reset(ctx, "k"))
	assert.False(t, mr.Exists(keyPrefix+"k"))

	res, err = limiter.Allow(ctx, "k", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRedisLimiter_BackendDown(t *testing.T) {
	limiter, mr := newTestRedisLimiter(t)
	mr.Close()

	_, err := limiter.Allow(context.Background(), "k", 1, time.Minute)
	assert.Error(t, err)
}

func TestMemoryLimiter(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter()
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	t.Run("blocks after limit", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			res, err := limiter.Allow(ctx, "a", 5, 15*time.Minute)
			require.NoError(t, err)
			assert.True(t, res.Allowed)
		}
		res, err := limiter.Allow(ctx, "a", 5, 15*time.Minute)
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, now.Add(15*time.Minute), res.ResetAt)
	})

	t.Run("window expiry starts fresh", func(t *testing.T) {
		now = now.Add(16 * time.Minute)
		res, err := limiter.Allow(ctx, "a", 5, 15*time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 4, res.Remaining)
	})

	t.Run("reset and cleanup", func(t *testing.T) {
		require.NoError(t, limiter.Reset(ctx, "a"))
		_, err := limiter.Allow(ctx, "b", 1, time.Minute)
		require.NoError(t, err)

		now = now.Add(2 * time.Minute)
		limiter.Cleanup()

		limiter.mu.Lock()
		defer limiter.mu.Unlock()
		assert.Empty(t, limiter.entries)
	})
}
