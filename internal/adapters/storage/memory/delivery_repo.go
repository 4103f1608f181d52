package memory

import (
	"context"
	"errors"
	"strings"

	"cardulary/internal/domain/delivery"
)

type deliveryRepo struct {
	s *Store
}

func NewDeliveryRepo(s *Store) delivery.Repository {
	return &deliveryRepo{s: s}
}

func (r *deliveryRepo) Append(ctx context.Context, e delivery.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.GuestID) == "" {
		return errors.New("delivery event id and guest id required")
	}

	r.s.eventsByGuest[e.GuestID] = append(r.s.eventsByGuest[e.GuestID], e)
	return nil
}

func (r *deliveryRepo) ListByGuest(ctx context.Context, guestID string) ([]delivery.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := r.s.eventsByGuest[guestID]
	out := make([]delivery.Event, len(items))
	copy(out, items)
	return out, nil
}
