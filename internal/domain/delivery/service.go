package delivery

import (
	"context"
	"errors"
	"strings"
	"time"

	"cardulary/internal/domain/guests"
	"cardulary/internal/platform/logger"
	"cardulary/internal/ports/transport"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNoValidGuests = errors.New("no valid guests found")
)

type Service struct {
	repo      Repository
	guestsSvc *guests.Service

	email transport.EmailSender
	sms   transport.SMSSender

	baseURL string
	log     logger.Logger
	now     func() time.Time
}

func NewService(
	repo Repository,
	guestsSvc *guests.Service,
	email transport.EmailSender,
	sms transport.SMSSender,
	baseURL string,
	log logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		guestsSvc: guestsSvc,
		email:     email,
		sms:       sms,
		baseURL:   strings.TrimRight(baseURL, "/"),
		log:       log,
		now:       time.Now,
	}
}

type DispatchInput struct {
	EventID       string
	EventName     string
	OrganizerName string

	GuestIDs []string
	Message  string
	Channel  guests.Channel
}

// Dispatch itera los guests seleccionados y les manda el request por
// el canal elegido. Cada guest se procesa aislado: un fallo (o panic)
// en uno no corta el batch, suma al resultado agregado y sigue.
func (s *Service) Dispatch(ctx context.Context, in DispatchInput) (BatchResult, error) {
	targets, err := s.resolveTargets(ctx, in.EventID, in.GuestIDs, nil)
	if err != nil {
		return BatchResult{}, err
	}

	res := BatchResult{Errors: []string{}}
	for _, g := range targets {
		s.sendOne(ctx, g, in, &res, false)
	}

	s.log.Info("dispatch done", map[string]any{
		"event_id": in.EventID,
		"channel":  string(in.Channel),
		"success":  res.Success,
		"failed":   res.Failed,
	})
	return res, nil
}

// DispatchReminders reusa el mismo loop pero sólo sobre guests pending:
// el estado no cambia, sube reminderCount y lastReminderSentAt.
// Con GuestIDs vacío toma todos los pending del evento.
func (s *Service) DispatchReminders(ctx context.Context, in DispatchInput) (BatchResult, error) {
	onlyPending := func(g guests.Guest) bool { return g.Status == guests.StatusPending }

	targets, err := s.resolveTargets(ctx, in.EventID, in.GuestIDs, onlyPending)
	if err != nil {
		return BatchResult{}, err
	}

	res := BatchResult{Errors: []string{}}
	for _, g := range targets {
		s.sendOne(ctx, g, in, &res, true)
	}

	s.log.Info("reminders done", map[string]any{
		"event_id": in.EventID,
		"channel":  string(in.Channel),
		"success":  res.Success,
		"failed":   res.Failed,
	})
	return res, nil
}

// resolveTargets filtra los ids pedidos contra los guests del evento,
// preservando el orden de entrada. Guests de otro evento o inexistentes
// quedan afuera en silencio; set vacío es fatal para el call completo.
func (s *Service) resolveTargets(ctx context.Context, eventID string, ids []string, keep func(guests.Guest) bool) ([]guests.Guest, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, ErrInvalidInput
	}

	all, err := s.guestsSvc.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]guests.Guest, len(all))
	for _, g := range all {
		byID[g.ID] = g
	}

	out := make([]guests.Guest, 0, len(ids))
	if len(ids) == 0 {
		// Sin selección explícita: todos los del evento (en orden de repo).
		for _, g := range all {
			if keep == nil || keep(g) {
				out = append(out, g)
			}
		}
	} else {
		for _, id := range ids {
			g, ok := byID[id]
			if !ok {
				continue
			}
			if keep != nil && !keep(g) {
				continue
			}
			out = append(out, g)
		}
	}

	if len(out) == 0 {
		return nil, ErrNoValidGuests
	}
	return out, nil
}

// sendOne procesa un guest. El recover de acá es el aislamiento del
// batch: cualquier panic se convierte en un error por-guest genérico.
func (s *Service) sendOne(ctx context.Context, g guests.Guest, in DispatchInput, res *BatchResult, reminder bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("dispatch panic", map[string]any{
				"guest_id": g.ID,
				"panic":    r,
			})
			res.Failed++
			res.Errors = append(res.Errors, g.FullName()+": Unexpected error")
		}
	}()

	submissionURL := s.baseURL + "/submit/" + g.Token
	personalized := strings.ReplaceAll(in.Message, "{firstName}", g.FirstName)

	var provider string
	var providerID string

	switch in.Channel {
	case guests.ChannelEmail:
		if g.Email == "" {
			res.Failed++
			res.Errors = append(res.Errors, g.FullName()+": No email address")
			return
		}
		out, err := s.email.SendAddressRequest(ctx, transport.EmailRequest{
			To:            g.Email,
			GuestName:     g.FullName(),
			OrganizerName: in.OrganizerName,
			EventName:     in.EventName,
			SubmissionURL: submissionURL,
			CustomMessage: personalized,
		})
		if err != nil {
			s.log.Warn("email send failed", map[string]any{"guest_id": g.ID, "err": err.Error()})
			res.Failed++
			res.Errors = append(res.Errors, g.FullName()+": Email failed")
			return
		}
		provider, providerID = "resend", out.ProviderID

	case guests.ChannelSMS:
		if g.Phone == "" {
			res.Failed++
			res.Errors = append(res.Errors, g.FullName()+": No phone number")
			return
		}
		// En SMS el link va inline: acá se sustituye el [link].
		body := strings.ReplaceAll(personalized, "[link]", submissionURL)
		out, err := s.sms.SendAddressRequest(ctx, transport.SMSRequest{
			To:   g.Phone,
			Body: body,
		})
		if err != nil {
			s.log.Warn("sms send failed", map[string]any{"guest_id": g.ID, "err": err.Error()})
			res.Failed++
			res.Errors = append(res.Errors, g.FullName()+": SMS failed")
			return
		}
		provider, providerID = "twilio", out.ProviderID

	default:
		res.Failed++
		res.Errors = append(res.Errors, g.FullName()+": Unexpected error")
		return
	}

	// Transport OK => recién ahora se toca el estado. Un fallo de acá
	// en adelante sí es inesperado.
	var err error
	if reminder {
		_, err = s.guestsSvc.MarkReminderSent(ctx, g.ID, in.Channel)
	} else {
		_, err = s.guestsSvc.MarkRequestSent(ctx, g.ID, in.Channel)
	}
	if err != nil {
		s.log.Error("status update failed after send", map[string]any{"guest_id": g.ID, "err": err.Error()})
		res.Failed++
		res.Errors = append(res.Errors, g.FullName()+": Unexpected error")
		return
	}

	meta := map[string]any{"provider": provider}
	if providerID != "" {
		meta["provider_id"] = providerID
	}
	if err := s.repo.Append(ctx, Event{
		ID:         uuid.NewString(),
		GuestID:    g.ID,
		Type:       EventSent,
		Channel:    in.Channel,
		Metadata:   meta,
		OccurredAt: s.now(),
	}); err != nil {
		// El send ya salió y el estado ya está: log y seguimos.
		s.log.Error("delivery event append failed", map[string]any{"guest_id": g.ID, "err": err.Error()})
	}

	res.Success++
}

// RecordProviderEvent registra la señal asíncrona del provider
// (webhook). bounced/failed después de un send aceptado es lo ÚNICO
// que mueve pending -> bounced.
func (s *Service) RecordProviderEvent(ctx context.Context, guestID string, t EventType, ch guests.Channel, metadata map[string]any) (Event, error) {
	guestID = strings.TrimSpace(guestID)
	if guestID == "" || !ValidEventType(t) || !guests.ValidChannel(ch) {
		return Event{}, ErrInvalidInput
	}

	g, err := s.guestsSvc.GetByID(ctx, guestID)
	if err != nil {
		return Event{}, err
	}

	e := Event{
		ID:         uuid.NewString(),
		GuestID:    g.ID,
		Type:       t,
		Channel:    ch,
		Metadata:   metadata,
		OccurredAt: s.now(),
	}
	if err := s.repo.Append(ctx, e); err != nil {
		return Event{}, err
	}

	if t == EventBounced || t == EventFailed {
		if _, err := s.guestsSvc.MarkBounced(ctx, g.ID); err != nil {
			// Guest ya completed o re-enviado: el log queda igual,
			// la transición simplemente no aplica.
			if !errors.Is(err, guests.ErrBadState) {
				return Event{}, err
			}
		}
	}

	return e, nil
}

func (s *Service) ListByGuest(ctx context.Context, guestID string) ([]Event, error) {
	return s.repo.ListByGuest(ctx, guestID)
}
