package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
)

const (
	maxNameLen    = 200
	maxMessageLen = 1000
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name          string
	Category      Category
	EventDate     *time.Time
	CustomMessage string
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Event, error) {
	userID = strings.TrimSpace(userID)
	name := strings.TrimSpace(in.Name)
	msg := strings.TrimSpace(in.CustomMessage)

	if userID == "" || name == "" || len(name) > maxNameLen {
		return Event{}, ErrInvalidInput
	}
	if len(msg) > maxMessageLen {
		return Event{}, ErrInvalidInput
	}

	cat := in.Category
	if cat == "" {
		cat = CategoryNone
	}
	if !ValidCategory(cat) {
		return Event{}, ErrInvalidInput
	}

	now := s.now()
	e := Event{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          name,
		Category:      cat,
		EventDate:     in.EventDate,
		CustomMessage: msg,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// GetOwned resuelve el evento y chequea ownership en un solo paso.
// Devuelve ErrNotFound también cuando el owner no coincide: hacia
// afuera "no es tuyo" y "no existe" son indistinguibles.
func (s *Service) GetOwned(ctx context.Context, id, userID string) (Event, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if e.UserID != strings.TrimSpace(userID) {
		return Event{}, ErrNotFound
	}
	return e, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Event, error) {
	return s.repo.ListByUser(ctx, userID)
}

type UpdateInput struct {
	Name          *string
	EventDate     *time.Time
	ClearDate     bool
	CustomMessage *string
}

func (s *Service) Update(ctx context.Context, id, userID string, in UpdateInput) (Event, error) {
	e, err := s.GetOwned(ctx, id, userID)
	if err != nil {
		return Event{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" || len(name) > maxNameLen {
			return Event{}, ErrInvalidInput
		}
		e.Name = name
	}
	if in.CustomMessage != nil {
		msg := strings.TrimSpace(*in.CustomMessage)
		if len(msg) > maxMessageLen {
			return Event{}, ErrInvalidInput
		}
		e.CustomMessage = msg
	}
	if in.ClearDate {
		e.EventDate = nil
	} else if in.EventDate != nil {
		e.EventDate = in.EventDate
	}

	e.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *Service) SetReminderSchedule(ctx context.Context, eventID, userID string, intervals []int, active bool) (ReminderSchedule, error) {
	if _, err := s.GetOwned(ctx, eventID, userID); err != nil {
		return ReminderSchedule{}, err
	}

	for _, d := range intervals {
		if d <= 0 {
			return ReminderSchedule{}, ErrInvalidInput
		}
	}

	rs := ReminderSchedule{
		ID:        uuid.NewString(),
		EventID:   eventID,
		Intervals: intervals,
		Active:    active,
		CreatedAt: s.now(),
	}
	if err := s.repo.UpsertReminderSchedule(ctx, rs); err != nil {
		return ReminderSchedule{}, err
	}
	return rs, nil
}

func (s *Service) GetReminderSchedule(ctx context.Context, eventID, userID string) (ReminderSchedule, error) {
	if _, err := s.GetOwned(ctx, eventID, userID); err != nil {
		return ReminderSchedule{}, err
	}
	return s.repo.GetReminderSchedule(ctx, eventID)
}
