// Package memory implementa un rate limiter fixed-window en proceso.
// Sirve para single-instance; con varias réplicas usar el adapter de redis.
package memory

import (
	"context"
	"sync"
	"time"

	"cardulary/internal/ports/ratelimit"
)

type record struct {
	count   int
	resetAt time.Time
}

type Limiter struct {
	mu      sync.Mutex
	store   map[string]record
	now     func() time.Time
	lastGC  time.Time
	gcEvery time.Duration
}

func New() *Limiter {
	return &Limiter{
		store:   make(map[string]record),
		now:     time.Now,
		gcEvery: 5 * time.Minute,
	}
}

// NewWithClock permite inyectar el reloj (tests).
func NewWithClock(now func() time.Time) *Limiter {
	l := New()
	l.now = now
	return l
}

func (l *Limiter) Check(ctx context.Context, key string, q ratelimit.Quota) (ratelimit.Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.maybeGC(now)

	rec, ok := l.store[key]
	if !ok || now.After(rec.resetAt) {
		// ventana nueva
		rec = record{count: 1, resetAt: now.Add(q.Window)}
		l.store[key] = rec
		return ratelimit.Result{
			Allowed:   true,
			Limit:     q.MaxRequests,
			Remaining: q.MaxRequests - 1,
			ResetAt:   rec.resetAt,
		}, nil
	}

	if rec.count >= q.MaxRequests {
		return ratelimit.Result{
			Allowed:   false,
			Limit:     q.MaxRequests,
			Remaining: 0,
			ResetAt:   rec.resetAt,
		}, nil
	}

	rec.count++
	l.store[key] = rec
	return ratelimit.Result{
		Allowed:   true,
		Limit:     q.MaxRequests,
		Remaining: q.MaxRequests - rec.count,
		ResetAt:   rec.resetAt,
	}, nil
}

// maybeGC barre ventanas vencidas cada gcEvery; se llama con el lock tomado.
func (l *Limiter) maybeGC(now time.Time) {
	if now.Sub(l.lastGC) < l.gcEvery {
		return
	}
	l.lastGC = now
	for k, rec := range l.store {
		if now.After(rec.resetAt) {
			delete(l.store, k)
		}
	}
}
