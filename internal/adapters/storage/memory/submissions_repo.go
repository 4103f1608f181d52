package memory

import (
	"context"
	"errors"
	"strings"

	"cardulary/internal/domain/submissions"
)

type submissionsRepo struct {
	s *Store
}

func NewSubmissionsRepo(s *Store) submissions.Repository {
	return &submissionsRepo{s: s}
}

// SaveCurrent hace el flip completo bajo un solo lock: ningún lector
// puede ver cero o dos filas current para el mismo guest.
func (r *submissionsRepo) SaveCurrent(ctx context.Context, sub submissions.Submission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(sub.ID) == "" || strings.TrimSpace(sub.GuestID) == "" {
		return errors.New("submission id and guest id required")
	}

	prev := r.s.subsByGuest[sub.GuestID]
	for i := range prev {
		prev[i].IsCurrent = false
	}

	sub.IsCurrent = true
	r.s.subsByGuest[sub.GuestID] = append(prev, sub)
	return nil
}

func (r *submissionsRepo) ListByGuest(ctx context.Context, guestID string) ([]submissions.Submission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := r.s.subsByGuest[guestID]

	// Historial más reciente primero (se insertan en orden).
	out := make([]submissions.Submission, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		out = append(out, items[i])
	}
	return out, nil
}

func (r *submissionsRepo) CurrentByGuest(ctx context.Context, guestID string) (submissions.Submission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, sub := range r.s.subsByGuest[guestID] {
		if sub.IsCurrent {
			return sub, nil
		}
	}
	return submissions.Submission{}, submissions.ErrNotFound
}
