package services

import (
	"sync"
	"time"
)

const (
	// RateWindow is the trailing duration over which submissions are counted.
	RateWindow = 60 * time.Second
	// RateCapacity is the maximum number of submissions per window, across
	// all callers. This bounds aggregate load on the inference provider.
	RateCapacity = 13
)

// RateLimiter is a process-wide sliding-window admission gate. The
// purge-check-record sequence runs under one mutex so two concurrent
// admissions can never both read a stale window and slip past capacity.
type RateLimiter struct {
	mu         sync.Mutex
	timestamps []time.Time
	window     time.Duration
	capacity   int
	now        func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		window:   RateWindow,
		capacity: RateCapacity,
		now:      time.Now,
	}
}

// Allow reports whether one more submission is admitted. Entries older than
// the window are purged first; rejected calls record nothing.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-r.window)

	kept := r.timestamps[:0]
	for _, ts := range r.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	r.timestamps = kept

	if len(r.timestamps) >= r.capacity {
		return false
	}

	r.timestamps = append(r.timestamps, now)
	return true
}
