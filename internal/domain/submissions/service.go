package submissions

import (
	"context"
	"errors"
	"strings"
	"time"

	"cardulary/internal/domain/guests"

	"github.com/google/uuid"
)

var (
	// ErrInvalidLink cubre token desconocido Y guest borrado: respuesta
	// uniforme para no filtrar si el link existió alguna vez.
	ErrInvalidLink = errors.New("invalid submission link")

	ErrNotFound = errors.New("not found")
)

type Service struct {
	repo      Repository
	guestsSvc *guests.Service
	now       func() time.Time
}

func NewService(repo Repository, guestsSvc *guests.Service) *Service {
	return &Service{
		repo:      repo,
		guestsSvc: guestsSvc,
		now:       time.Now,
	}
}

// Submit es el flujo completo del form público:
// token -> guest, validar dirección, flip de currency + insert,
// y recién después la transición a completed.
// Re-submit con el guest ya completed es válido: last write wins
// con historial completo.
func (s *Service) Submit(ctx context.Context, token string, raw RawAddress, ip string) (Submission, error) {
	g, err := s.guestsSvc.GetByToken(ctx, token)
	if err != nil {
		return Submission{}, ErrInvalidLink
	}

	addr, verr := ValidateAddress(raw)
	if verr != nil {
		return Submission{}, verr
	}

	sub := Submission{
		ID:          uuid.NewString(),
		GuestID:     g.ID,
		Address:     addr,
		SubmittedAt: s.now(),
		IPAddress:   strings.TrimSpace(ip),
		IsCurrent:   true,
	}

	if err := s.repo.SaveCurrent(ctx, sub); err != nil {
		return Submission{}, err
	}

	if _, err := s.guestsSvc.MarkCompleted(ctx, g.ID); err != nil {
		return Submission{}, err
	}

	return sub, nil
}

// FormContext arma lo que ve el guest al abrir el link: su nombre y
// nada más que lo necesario del evento (lo resuelve el handler).
func (s *Service) GuestByToken(ctx context.Context, token string) (guests.Guest, error) {
	g, err := s.guestsSvc.GetByToken(ctx, token)
	if err != nil {
		return guests.Guest{}, ErrInvalidLink
	}
	return g, nil
}

func (s *Service) ListByGuest(ctx context.Context, guestID string) ([]Submission, error) {
	return s.repo.ListByGuest(ctx, guestID)
}

// CurrentByGuest devuelve la submission current; ErrNotFound si el
// guest todavía no envió nada.
func (s *Service) CurrentByGuest(ctx context.Context, guestID string) (Submission, error) {
	return s.repo.CurrentByGuest(ctx, guestID)
}
