// Package ratelimit provides a sliding-window request limiter keyed by
// caller identity, used to gate outbound calls to external services.
package ratelimit

import (
	"sync"
	"time"
)

// Decision reports whether a request may proceed, and if not, how long the
// caller should wait before retrying.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type Limiter struct {
	maxRequests int
	window      time.Duration

	mu       sync.Mutex
	requests map[string][]time.Time
	now      func() time.Time
}

func New(maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
		requests:    make(map[string][]time.Time),
		now:         time.Now,
	}
}

// Allow records a request for the key if it fits inside the window.
// Fail-closed: when the window is full the request is denied and the
// retry-after delay reported.
func (l *Limiter) Allow(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	valid := l.requests[key][:0:0]
	for _, t := range l.requests[key] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= l.maxRequests {
		l.requests[key] = valid
		retryAfter := valid[0].Add(l.window).Sub(now)
		return Decision{Allowed: false, RetryAfter: retryAfter}
	}

	valid = append(valid, now)
	l.requests[key] = valid
	return Decision{Allowed: true, Remaining: l.maxRequests - len(valid)}
}

// Reset clears the window for a key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.requests, key)
}
