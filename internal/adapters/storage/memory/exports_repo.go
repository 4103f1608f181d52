package memory

import (
	"context"
	"errors"
	"strings"

	"cardulary/internal/domain/exports"
)

type exportsRepo struct {
	s *Store
}

func NewExportsRepo(s *Store) exports.Repository {
	return &exportsRepo{s: s}
}

func (r *exportsRepo) AppendLog(ctx context.Context, l exports.Log) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(l.ID) == "" || strings.TrimSpace(l.EventID) == "" {
		return errors.New("export log id and event id required")
	}

	r.s.logsByEvent[l.EventID] = append(r.s.logsByEvent[l.EventID], l)
	return nil
}

func (r *exportsRepo) ListLogsByEvent(ctx context.Context, eventID string) ([]exports.Log, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := r.s.logsByEvent[eventID]
	out := make([]exports.Log, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		out = append(out, items[i])
	}
	return out, nil
}
