package guests

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoContact    = errors.New("at least one contact method (email or phone) is required")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid state")
	ErrTokenTaken   = errors.New("token already taken")
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
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

func (s *Service) Create(ctx context.Context, eventID string, in CreateInput) (Guest, error) {
	eventID = strings.TrimSpace(eventID)
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)

	if eventID == "" || first == "" || last == "" {
		return Guest{}, ErrInvalidInput
	}

	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.Phone)
	if email == "" && phone == "" {
		return Guest{}, ErrNoContact
	}

	g := Guest{
		ID:        uuid.NewString(),
		EventID:   eventID,
		FirstName: first,
		LastName:  last,
		Email:     email,
		Phone:     phone,
		Status:    StatusNotSent,
		CreatedAt: s.now(),
	}

	// Colisión de token: no se ignora, se reintenta el insert con token nuevo.
	for attempt := 0; attempt < 3; attempt++ {
		token, err := NewToken()
		if err != nil {
			return Guest{}, err
		}
		g.Token = token

		err = s.repo.Create(ctx, g)
		if err == nil {
			return g, nil
		}
		if !errors.Is(err, ErrTokenTaken) {
			return Guest{}, err
		}
	}
	return Guest{}, ErrTokenTaken
}

func (s *Service) GetByID(ctx context.Context, id string) (Guest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Guest{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// GetByToken resuelve el guest del link público. Unknown == soft-deleted:
// el caller responde el mismo not-found en ambos casos (no filtrar estado).
func (s *Service) GetByToken(ctx context.Context, token string) (Guest, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Guest{}, ErrNotFound
	}
	return s.repo.GetByToken(ctx, token)
}

func (s *Service) ListByEvent(ctx context.Context, eventID string) ([]Guest, error) {
	return s.repo.ListByEvent(ctx, eventID)
}

// CountByEvent alimenta el dashboard de eventos (total vs completados).
func (s *Service) CountByEvent(ctx context.Context, eventID string) (total, completed int, err error) {
	all, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return 0, 0, err
	}
	for _, g := range all {
		if g.Status == StatusCompleted {
			completed++
		}
	}
	return len(all), completed, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

// MarkRequestSent registra un send aceptado por el transport.
// Vale desde cualquier estado: el re-send manual del organizador
// re-entra a pending incluso desde bounced.
func (s *Service) MarkRequestSent(ctx context.Context, id string, ch Channel) (Guest, error) {
	if !ValidChannel(ch) {
		return Guest{}, ErrInvalidInput
	}
	now := s.now()
	return s.repo.Mutate(ctx, id, func(g *Guest) error {
		g.Status = StatusPending
		g.RequestSentAt = &now
		g.RequestMethod = ch
		return nil
	})
}

// MarkReminderSent: sólo guests pending; el estado no cambia.
func (s *Service) MarkReminderSent(ctx context.Context, id string, ch Channel) (Guest, error) {
	if !ValidChannel(ch) {
		return Guest{}, ErrInvalidInput
	}
	now := s.now()
	return s.repo.Mutate(ctx, id, func(g *Guest) error {
		if g.Status != StatusPending {
			return ErrBadState
		}
		g.ReminderCount++
		g.LastReminderSentAt = &now
		return nil
	})
}

// MarkCompleted: el submit gana siempre, desde cualquier estado.
// Re-submit con status completed es idempotente (refresca submittedAt).
func (s *Service) MarkCompleted(ctx context.Context, id string) (Guest, error) {
	now := s.now()
	return s.repo.Mutate(ctx, id, func(g *Guest) error {
		g.Status = StatusCompleted
		g.SubmittedAt = &now
		return nil
	})
}

// MarkBounced sólo aplica sobre pending y sólo lo dispara la señal
// externa del provider (webhook), nunca un fallo local del dispatcher.
func (s *Service) MarkBounced(ctx context.Context, id string) (Guest, error) {
	return s.repo.Mutate(ctx, id, func(g *Guest) error {
		if g.Status != StatusPending {
			return ErrBadState
		}
		g.Status = StatusBounced
		return nil
	})
}
