// Package ratelimit provides request limiters keyed by arbitrary strings
// (client IP, admin email).
package ratelimit

import (
	"context"
	"time"
)

// Result contains the outcome of a limit check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter counts attempts per key inside a time window.
type Limiter interface {
	// Allow records one attempt for key and reports whether it is within limit.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
	// Reset clears all recorded attempts for key.
	Reset(ctx context.Context, key string) error
}
