package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// slidingWindow trims the window, counts and conditionally adds an entry
// in one round trip.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local window_start = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local expiry = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
	local current = redis.call('ZCARD', key)

	if current >= limit then
		return {0, 0}
	end

	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, expiry)

	return {1, limit - current - 1}
`)

// RedisLimiter is a sliding window limiter backed by a Redis sorted set.
type RedisLimiter struct {
	client redis.UniversalClient
}

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(client redis.UniversalClient) *RedisLimiter {
	return &RedisLimiter{client: client}
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	now := time.Now()
	fullKey := keyPrefix + key

	res, err := slidingWindow.Run(ctx, l.client, []string{fullKey},
		now.Add(-window).UnixNano(),
		now.UnixNano(),
		limit,
		window.Milliseconds(),
		fmt.Sprintf("%d", now.UnixNano()),
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit check: %w", err)
	}

	allowed, _ := strconv.ParseInt(fmt.Sprint(res[0]), 10, 64)
	remaining, _ := strconv.ParseInt(fmt.Sprint(res[1]), 10, 64)
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:   allowed == 1,
		Remaining: int(remaining),
		ResetAt:   now.Add(window),
	}, nil
}

// Reset implements Limiter.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("rate limit reset: %w", err)
	}
	return nil
}

var _ Limiter = (*RedisLimiter)(nil)
