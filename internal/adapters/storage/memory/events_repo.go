package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"cardulary/internal/domain/events"
)

type eventsRepo struct {
	s *Store
}

func NewEventsRepo(s *Store) events.Repository {
	return &eventsRepo{s: s}
}

func (r *eventsRepo) Create(ctx context.Context, e events.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("event id required")
	}
	if _, exists := r.s.events[e.ID]; exists {
		return errors.New("event already exists")
	}
	r.s.events[e.ID] = e
	return nil
}

func (r *eventsRepo) Update(ctx context.Context, e events.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.events[e.ID]; !exists {
		return events.ErrNotFound
	}
	r.s.events[e.ID] = e
	return nil
}

func (r *eventsRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.events[id]
	if !ok {
		return events.Event{}, events.ErrNotFound
	}
	return e, nil
}

func (r *eventsRepo) ListByUser(ctx context.Context, userID string) ([]events.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]events.Event, 0)
	for _, e := range r.s.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}

	// Más reciente primero, como el dashboard.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *eventsRepo) UpsertReminderSchedule(ctx context.Context, rs events.ReminderSchedule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.events[rs.EventID]; !exists {
		return events.ErrNotFound
	}
	r.s.schedules[rs.EventID] = rs
	return nil
}

func (r *eventsRepo) GetReminderSchedule(ctx context.Context, eventID string) (events.ReminderSchedule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rs, ok := r.s.schedules[eventID]
	if !ok {
		return events.ReminderSchedule{}, events.ErrNotFound
	}
	return rs, nil
}
