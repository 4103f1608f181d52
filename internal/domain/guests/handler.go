package guests

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"cardulary/internal/domain/events"
	"cardulary/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, eventsSvc *events.Service) {
	r.Route("/events/{eventID}/guests", func(gr chi.Router) {
		gr.Post("/", createGuestHandler(svc, eventsSvc))
		gr.Get("/", listGuestsHandler(svc, eventsSvc))
		gr.Delete("/{guestID}", deleteGuestHandler(svc, eventsSvc))
	})
}

type createGuestRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type guestResponse struct {
	ID        string `json:"id"`
	EventID   string `json:"event_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Token     string `json:"token"`
	Status    string `json:"status"`

	RequestSentAt      *time.Time `json:"request_sent_at,omitempty"`
	RequestMethod      string     `json:"request_method,omitempty"`
	ReminderCount      int        `json:"reminder_count"`
	LastReminderSentAt *time.Time `json:"last_reminder_sent_at,omitempty"`
	SubmittedAt        *time.Time `json:"submitted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func createGuestHandler(svc *Service, eventsSvc *events.Service) http.HandlerFunc {
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

		var req createGuestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		g, err := svc.Create(r.Context(), eventID, CreateInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, "first name and last name are required", http.StatusBadRequest)
			case ErrNoContact:
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toGuestResponse(g))
	}
}

func listGuestsHandler(svc *Service, eventsSvc *events.Service) http.HandlerFunc {
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

		items, err := svc.ListByEvent(r.Context(), eventID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]guestResponse, 0, len(items))
		for _, g := range items {
			out = append(out, toGuestResponse(g))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func deleteGuestHandler(svc *Service, eventsSvc *events.Service) http.HandlerFunc {
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

		g, err := svc.GetByID(r.Context(), chi.URLParam(r, "guestID"))
		if err != nil || g.EventID != eventID {
			http.Error(w, "guest not found", http.StatusNotFound)
			return
		}

		// Cascadea submissions + delivery events en el storage.
		if err := svc.Delete(r.Context(), g.ID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toGuestResponse(g Guest) guestResponse {
	return guestResponse{
		ID:                 g.ID,
		EventID:            g.EventID,
		FirstName:          g.FirstName,
		LastName:           g.LastName,
		Email:              g.Email,
		Phone:              g.Phone,
		Token:              g.Token,
		Status:             string(g.Status),
		RequestSentAt:      g.RequestSentAt,
		RequestMethod:      string(g.RequestMethod),
		ReminderCount:      g.ReminderCount,
		LastReminderSentAt: g.LastReminderSentAt,
		SubmittedAt:        g.SubmittedAt,
		CreatedAt:          g.CreatedAt,
	}
}

// writeJSON duplicado a propósito por módulo (ver events/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
