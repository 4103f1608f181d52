package memory

import (
	"context"
	"testing"
	"time"

	"cardulary/internal/ports/ratelimit"
)

func TestCheck_WindowLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	l := NewWithClock(func() time.Time { return now })

	q := ratelimit.Quota{MaxRequests: 3, Window: time.Minute}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Check(ctx, "submit:1.2.3.4", q)
		if err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
		if !res.Allowed {
			t.Fatalf("check %d should be allowed", i)
		}
		if res.Remaining != q.MaxRequests-i-1 {
			t.Fatalf("check %d remaining = %d", i, res.Remaining)
		}
	}

	res, err := l.Check(ctx, "submit:1.2.3.4", q)
	if err != nil {
		t.Fatalf("check over limit: %v", err)
	}
	if res.Allowed || res.Remaining != 0 {
		t.Fatalf("expected rejection, got %+v", res)
	}
	if !res.ResetAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("resetAt = %v", res.ResetAt)
	}

	// otra key no comparte cuota
	if res, _ := l.Check(ctx, "submit:5.6.7.8", q); !res.Allowed {
		t.Fatal("separate key should have its own window")
	}

	// pasada la ventana arranca de cero
	now = now.Add(time.Minute + time.Second)
	res, _ = l.Check(ctx, "submit:1.2.3.4", q)
	if !res.Allowed || res.Remaining != 2 {
		t.Fatalf("expected fresh window, got %+v", res)
	}
}

func TestCheck_SweepsExpiredEntries(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	l := NewWithClock(func() time.Time { return now })

	q := ratelimit.Quota{MaxRequests: 1, Window: time.Second}
	for i := 0; i < 50; i++ {
		key := "k" + string(rune('a'+i%26)) + string(rune('a'+i/26))
		if _, err := l.Check(context.Background(), key, q); err != nil {
			t.Fatalf("check: %v", err)
		}
	}

	now = now.Add(10 * time.Minute) // gcEvery y todas las ventanas vencidas
	if _, err := l.Check(context.Background(), "fresh", q); err != nil {
		t.Fatalf("check: %v", err)
	}

	l.mu.Lock()
	size := len(l.store)
	l.mu.Unlock()
	if size != 1 {
		t.Fatalf("store size = %d after sweep, want 1", size)
	}
}
