package delivery

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cardulary/internal/domain/events"
	"cardulary/internal/domain/guests"
	"cardulary/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, eventsSvc *events.Service) {
	r.Post("/events/{eventID}/send-requests", sendRequestsHandler(svc, eventsSvc, false))
	r.Post("/events/{eventID}/send-reminders", sendRequestsHandler(svc, eventsSvc, true))
	r.Get("/events/{eventID}/guests/{guestID}/delivery-events", listByGuestHandler(svc, eventsSvc))
}

// RegisterWebhookRoutes recibe la señal asíncrona del provider
// (delivered/bounced/etc). Sin auth de organizador: es server-to-server.
func RegisterWebhookRoutes(r chi.Router, svc *Service) {
	r.Post("/webhooks/delivery", providerEventHandler(svc))
}

type sendRequestsRequest struct {
	GuestIDs []string `json:"guest_ids"`
	Message  string   `json:"message"`
	Channel  string   `json:"channel"` // email | sms, default email
}

type sendRequestsResponse struct {
	Message string      `json:"message"`
	Results BatchResult `json:"results"`
}

type providerEventRequest struct {
	GuestID   string         `json:"guest_id"`
	EventType string         `json:"event_type"`
	Channel   string         `json:"channel"`
	Metadata  map[string]any `json:"metadata"`
}

type deliveryEventResponse struct {
	ID         string         `json:"id"`
	GuestID    string         `json:"guest_id"`
	EventType  string         `json:"event_type"`
	Channel    string         `json:"channel"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func sendRequestsHandler(svc *Service, eventsSvc *events.Service, reminder bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		e, err := eventsSvc.GetOwned(r.Context(), chi.URLParam(r, "eventID"), claims.UserID)
		if err != nil {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}

		var req sendRequestsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Message) == "" {
			http.Error(w, "message is required", http.StatusBadRequest)
			return
		}
		// El send inicial exige selección explícita; reminders sin
		// selección barren todos los pending del evento.
		if !reminder && len(req.GuestIDs) == 0 {
			http.Error(w, "no guests selected", http.StatusBadRequest)
			return
		}

		ch := guests.Channel(req.Channel)
		if req.Channel == "" {
			ch = guests.ChannelEmail
		}
		if !guests.ValidChannel(ch) {
			http.Error(w, "channel must be email or sms", http.StatusBadRequest)
			return
		}

		organizer := strings.TrimSpace(claims.Name)
		if organizer == "" {
			organizer = "The organizer"
		}

		in := DispatchInput{
			EventID:       e.ID,
			EventName:     e.Name,
			OrganizerName: organizer,
			GuestIDs:      req.GuestIDs,
			Message:       req.Message,
			Channel:       ch,
		}

		var res BatchResult
		if reminder {
			res, err = svc.DispatchReminders(r.Context(), in)
		} else {
			res, err = svc.Dispatch(r.Context(), in)
		}
		if err != nil {
			switch {
			case errors.Is(err, ErrNoValidGuests):
				http.Error(w, "No valid guests found", http.StatusNotFound)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, sendRequestsResponse{
			Message: fmt.Sprintf("Sent %d requests, %d failed", res.Success, res.Failed),
			Results: res,
		})
	}
}

func listByGuestHandler(svc *Service, eventsSvc *events.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		eventID := chi.URLParam(r, "eventID")
		if _, err := eventsSvc.GetOwned(r.Context(), eventID, claims.UserID); err != nil {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}

		g, err := svc.guestsSvc.GetByID(r.Context(), chi.URLParam(r, "guestID"))
		if err != nil || g.EventID != eventID {
			http.Error(w, "guest not found", http.StatusNotFound)
			return
		}

		items, err := svc.ListByGuest(r.Context(), g.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]deliveryEventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func providerEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req providerEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.RecordProviderEvent(
			r.Context(),
			req.GuestID,
			EventType(req.EventType),
			guests.Channel(req.Channel),
			req.Metadata,
		)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "invalid delivery event", http.StatusBadRequest)
			case errors.Is(err, guests.ErrNotFound):
				http.Error(w, "guest not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(e))
	}
}

func toEventResponse(e Event) deliveryEventResponse {
	return deliveryEventResponse{
		ID:         e.ID,
		GuestID:    e.GuestID,
		EventType:  string(e.Type),
		Channel:    string(e.Channel),
		Metadata:   e.Metadata,
		OccurredAt: e.OccurredAt,
	}
}

// writeJSON duplicado a propósito por módulo (ver events/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
