package guests

import (
	"context"
	"errors"
	"testing"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID    map[string]Guest
	byToken map[string]string

	// fuerza ErrTokenTaken en los primeros N creates
	rejectCreates int
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Guest{}, byToken: map[string]string{}}
}

func (r *testRepo) Create(ctx context.Context, g Guest) error {
	if r.rejectCreates > 0 {
		r.rejectCreates--
		return ErrTokenTaken
	}
	if _, ok := r.byToken[g.Token]; ok {
		return ErrTokenTaken
	}
	r.byID[g.ID] = g
	r.byToken[g.Token] = g.ID
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Guest, error) {
	g, ok := r.byID[id]
	if !ok {
		return Guest{}, ErrNotFound
	}
	return g, nil
}

func (r *testRepo) GetByToken(ctx context.Context, token string) (Guest, error) {
	id, ok := r.byToken[token]
	if !ok {
		return Guest{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *testRepo) ListByEvent(ctx context.Context, eventID string) ([]Guest, error) {
	out := make([]Guest, 0)
	for _, g := range r.byID {
		if g.EventID == eventID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	g, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byToken, g.Token)
	return nil
}

func (r *testRepo) Mutate(ctx context.Context, id string, fn func(*Guest) error) (Guest, error) {
	g, ok := r.byID[id]
	if !ok {
		return Guest{}, ErrNotFound
	}
	if err := fn(&g); err != nil {
		return Guest{}, err
	}
	r.byID[id] = g
	return g, nil
}

// -------------------------
// Tests
// -------------------------

func TestCreate_RequiresContact(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), "ev-1", CreateInput{
		FirstName: "John", LastName: "Doe",
	})
	if !errors.Is(err, ErrNoContact) {
		t.Fatalf("expected ErrNoContact, got %v", err)
	}

	_, err = svc.Create(context.Background(), "ev-1", CreateInput{
		FirstName: "John", LastName: "Doe", Phone: "5551234567",
	})
	if err != nil {
		t.Fatalf("phone alone should be enough: %v", err)
	}
}

func TestCreate_TokensAreUniqueAndOpaque(t *testing.T) {
	svc := NewService(newTestRepo())

	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		g, err := svc.Create(context.Background(), "ev-1", CreateInput{
			FirstName: "G", LastName: "Uest", Email: "g@example.com",
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if len(g.Token) != 64 {
			t.Fatalf("token length = %d, want 64", len(g.Token))
		}
		if seen[g.Token] {
			t.Fatalf("duplicate token at %d", i)
		}
		seen[g.Token] = true
	}
}

func TestCreate_RetriesOnTokenCollision(t *testing.T) {
	repo := newTestRepo()
	repo.rejectCreates = 2
	svc := NewService(repo)

	g, err := svc.Create(context.Background(), "ev-1", CreateInput{
		FirstName: "John", LastName: "Doe", Email: "j@example.com",
	})
	if err != nil {
		t.Fatalf("create should survive 2 collisions: %v", err)
	}
	if g.Token == "" {
		t.Fatal("missing token")
	}

	repo.rejectCreates = 3
	if _, err := svc.Create(context.Background(), "ev-1", CreateInput{
		FirstName: "John", LastName: "Doe", Email: "j@example.com",
	}); !errors.Is(err, ErrTokenTaken) {
		t.Fatalf("expected ErrTokenTaken after 3 collisions, got %v", err)
	}
}

func mustCreate(t *testing.T, svc *Service) Guest {
	t.Helper()
	g, err := svc.Create(context.Background(), "ev-1", CreateInput{
		FirstName: "John", LastName: "Doe", Email: "j@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return g
}

func TestTransitions_RequestSentFromAnyState(t *testing.T) {
	svc := NewService(newTestRepo())
	g := mustCreate(t, svc)

	// not_sent -> pending
	got, err := svc.MarkRequestSent(context.Background(), g.ID, ChannelEmail)
	if err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if got.Status != StatusPending || got.RequestSentAt == nil || got.RequestMethod != ChannelEmail {
		t.Fatalf("unexpected guest after send: %+v", got)
	}

	// completed -> pending (re-send)
	if _, err := svc.MarkCompleted(context.Background(), g.ID); err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	got, err = svc.MarkRequestSent(context.Background(), g.ID, ChannelSMS)
	if err != nil {
		t.Fatalf("re-send from completed: %v", err)
	}
	if got.Status != StatusPending || got.RequestMethod != ChannelSMS {
		t.Fatalf("unexpected guest after re-send: %+v", got)
	}

	// bounced -> pending (re-send tras bounce)
	if _, err := svc.MarkBounced(context.Background(), g.ID); err != nil {
		t.Fatalf("mark bounced: %v", err)
	}
	if got, err = svc.MarkRequestSent(context.Background(), g.ID, ChannelEmail); err != nil || got.Status != StatusPending {
		t.Fatalf("re-send from bounced: status=%v err=%v", got.Status, err)
	}
}

func TestTransitions_ReminderOnlyWhilePending(t *testing.T) {
	svc := NewService(newTestRepo())
	g := mustCreate(t, svc)

	if _, err := svc.MarkReminderSent(context.Background(), g.ID, ChannelEmail); !errors.Is(err, ErrBadState) {
		t.Fatalf("reminder on not_sent should fail, got %v", err)
	}

	if _, err := svc.MarkRequestSent(context.Background(), g.ID, ChannelEmail); err != nil {
		t.Fatalf("mark sent: %v", err)
	}

	got, err := svc.MarkReminderSent(context.Background(), g.ID, ChannelEmail)
	if err != nil {
		t.Fatalf("reminder on pending: %v", err)
	}
	if got.Status != StatusPending || got.ReminderCount != 1 || got.LastReminderSentAt == nil {
		t.Fatalf("unexpected guest after reminder: %+v", got)
	}

	if _, err := svc.MarkCompleted(context.Background(), g.ID); err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	if _, err := svc.MarkReminderSent(context.Background(), g.ID, ChannelEmail); !errors.Is(err, ErrBadState) {
		t.Fatalf("reminder on completed should fail, got %v", err)
	}
}

func TestTransitions_BounceOnlyWhilePending(t *testing.T) {
	svc := NewService(newTestRepo())
	g := mustCreate(t, svc)

	if _, err := svc.MarkBounced(context.Background(), g.ID); !errors.Is(err, ErrBadState) {
		t.Fatalf("bounce on not_sent should fail, got %v", err)
	}

	if _, err := svc.MarkCompleted(context.Background(), g.ID); err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	if _, err := svc.MarkBounced(context.Background(), g.ID); !errors.Is(err, ErrBadState) {
		t.Fatalf("bounce on completed should fail, got %v", err)
	}

	if _, err := svc.MarkRequestSent(context.Background(), g.ID, ChannelEmail); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	got, err := svc.MarkBounced(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("bounce on pending: %v", err)
	}
	if got.Status != StatusBounced {
		t.Fatalf("status = %v, want bounced", got.Status)
	}
}

func TestMarkCompleted_IsIdempotent(t *testing.T) {
	svc := NewService(newTestRepo())
	g := mustCreate(t, svc)

	first, err := svc.MarkCompleted(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("first complete: %v", err)
	}
	second, err := svc.MarkCompleted(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if second.Status != StatusCompleted {
		t.Fatalf("status = %v, want completed", second.Status)
	}
	if second.SubmittedAt.Before(*first.SubmittedAt) {
		t.Fatal("submittedAt should refresh on re-submit")
	}
}

func TestCountByEvent(t *testing.T) {
	svc := NewService(newTestRepo())
	g1 := mustCreate(t, svc)
	mustCreate(t, svc)

	if _, err := svc.MarkCompleted(context.Background(), g1.ID); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	total, completed, err := svc.CountByEvent(context.Background(), "ev-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 2 || completed != 1 {
		t.Fatalf("total=%d completed=%d, want 2/1", total, completed)
	}
}
