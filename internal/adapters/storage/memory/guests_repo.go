package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"cardulary/internal/domain/guests"
)

type guestsRepo struct {
	s *Store
}

func NewGuestsRepo(s *Store) guests.Repository {
	return &guestsRepo{s: s}
}

func (r *guestsRepo) Create(ctx context.Context, g guests.Guest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(g.ID) == "" {
		return errors.New("guest id required")
	}
	if _, exists := r.s.guests[g.ID]; exists {
		return errors.New("guest already exists")
	}
	// Mismo contrato que el unique constraint de la DB.
	if _, taken := r.s.guestByToken[g.Token]; taken {
		return guests.ErrTokenTaken
	}

	r.s.nextSeq++
	r.s.guests[g.ID] = g
	r.s.guestByToken[g.Token] = g.ID
	r.s.guestSeq[g.ID] = r.s.nextSeq
	return nil
}

func (r *guestsRepo) GetByID(ctx context.Context, id string) (guests.Guest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	g, ok := r.s.guests[id]
	if !ok {
		return guests.Guest{}, guests.ErrNotFound
	}
	return g, nil
}

func (r *guestsRepo) GetByToken(ctx context.Context, token string) (guests.Guest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.guestByToken[token]
	if !ok {
		return guests.Guest{}, guests.ErrNotFound
	}
	return r.s.guests[id], nil
}

func (r *guestsRepo) ListByEvent(ctx context.Context, eventID string) ([]guests.Guest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]guests.Guest, 0)
	for _, g := range r.s.guests {
		if g.EventID == eventID {
			out = append(out, g)
		}
	}

	// Más reciente primero; seq desempata timestamps idénticos.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return r.s.guestSeq[out[i].ID] > r.s.guestSeq[out[j].ID]
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *guestsRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	g, ok := r.s.guests[id]
	if !ok {
		return guests.ErrNotFound
	}

	// Cascade: submissions y delivery events mueren con el guest.
	delete(r.s.guests, id)
	delete(r.s.guestByToken, g.Token)
	delete(r.s.guestSeq, id)
	delete(r.s.subsByGuest, id)
	delete(r.s.eventsByGuest, id)
	return nil
}

// Mutate corre fn con el lock tomado: nadie más puede tocar la fila
// (ni ninguna otra, con este store) mientras dura la transición.
func (r *guestsRepo) Mutate(ctx context.Context, id string, fn func(*guests.Guest) error) (guests.Guest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	g, ok := r.s.guests[id]
	if !ok {
		return guests.Guest{}, guests.ErrNotFound
	}

	if err := fn(&g); err != nil {
		return guests.Guest{}, err
	}

	r.s.guests[id] = g
	return g, nil
}
