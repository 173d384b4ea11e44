// Package ratelimit is a per-(user, mode) sliding-window request limiter.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultLimit  = 20
	DefaultWindow = time.Minute
)

type key struct {
	user string
	mode string
}

// Limiter tracks request timestamps per user and mode within a sliding
// window. Safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[key][]time.Time
	// now is swappable for tests.
	now func() time.Time
}

func New(limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		limit:   limit,
		window:  window,
		buckets: make(map[key][]time.Time),
		now:     time.Now,
	}
}

// Allow records one request for (user, mode) if the window has room and
// reports whether it was admitted, plus the remaining quota in the window.
func (l *Limiter) Allow(user, mode string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	k := key{user: user, mode: mode}
	ts := l.buckets[k]
	cutoff := now.Add(-l.window)
	for len(ts) > 0 && ts[0].Before(cutoff) {
		ts = ts[1:]
	}
	if len(ts) >= l.limit {
		l.buckets[k] = ts
		return false, 0
	}
	ts = append(ts, now)
	l.buckets[k] = ts
	return true, l.limit - len(ts)
}

// Reset clears the bucket for (user, mode). An empty mode wipes every mode
// for the user.
func (l *Limiter) Reset(user, mode string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if mode != "" {
		delete(l.buckets, key{user: user, mode: mode})
		return
	}
	for k := range l.buckets {
		if k.user == user {
			delete(l.buckets, k)
		}
	}
}
