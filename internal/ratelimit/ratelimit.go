package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a sliding-window rate limiter: at most maxCalls calls within
// any trailing period.
type Limiter struct {
	maxCalls int
	period   time.Duration

	mu    sync.Mutex
	calls []time.Time
	now   func() time.Time
}

// New creates a limiter allowing maxCalls per period.
func New(maxCalls int, period time.Duration) *Limiter {
	return &Limiter{
		maxCalls: maxCalls,
		period:   period,
		now:      time.Now,
	}
}

// Allow records a call if the window has room and reports whether it was
// admitted.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := l.calls[:0]
	for _, c := range l.calls {
		if now.Sub(c) < l.period {
			kept = append(kept, c)
		}
	}
	l.calls = kept

	if len(l.calls) >= l.maxCalls {
		return false
	}
	l.calls = append(l.calls, now)
	return true
}
