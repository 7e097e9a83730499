package internal

import (
	"context"

	"golang.org/x/time/rate"
)

const secondsPerMinute = 60.0

// Limiter gates outgoing requests to a steady-state ceiling. With a quota of
// N requests per minute, consecutive Acquire calls are smoothed to one every
// 60/N seconds; there is no burst credit. A zero or negative quota disables
// throttling entirely.
type Limiter struct {
	lim *rate.Limiter
}

// NewLimiter builds a limiter for the given requests-per-minute quota.
func NewLimiter(requestsPerMinute int) *Limiter {
	if requestsPerMinute <= 0 {
		return &Limiter{}
	}
	// Burst of 1 keeps the inter-request spacing at exactly the minimum
	// interval instead of allowing an initial spike.
	return &Limiter{lim: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/secondsPerMinute), 1)}
}

// Acquire blocks until the next dispatch is permitted or ctx is done. It is
// safe for concurrent use; the reservation update is the critical section
// and is handled atomically by the underlying limiter.
func (l *Limiter) Acquire(ctx context.Context) error {
	if l == nil || l.lim == nil {
		return nil
	}
	return l.lim.Wait(ctx)
}

// Enabled reports whether the limiter actually throttles.
func (l *Limiter) Enabled() bool {
	return l != nil && l.lim != nil
}
