package submissions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"cardulary/internal/domain/events"
	"cardulary/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterPublicRoutes son las rutas del guest: sólo el token autoriza.
func RegisterPublicRoutes(r chi.Router, svc *Service, eventsSvc *events.Service) {
	r.Get("/submit/{token}", formContextHandler(svc, eventsSvc))
	r.Post("/submit", submitHandler(svc))
}

// RegisterRoutes son las rutas del organizador (historial por guest).
func RegisterRoutes(r chi.Router, svc *Service, eventsSvc *events.Service) {
	r.Get("/events/{eventID}/guests/{guestID}/submissions", listByGuestHandler(svc, eventsSvc))
}

type submitRequest struct {
	Token        string `json:"token"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZIP          string `json:"zip"`
	Country      string `json:"country"`
}

type submissionResponse struct {
	ID           string    `json:"id"`
	GuestID      string    `json:"guest_id"`
	AddressLine1 string    `json:"address_line1"`
	AddressLine2 string    `json:"address_line2,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ZIP          string    `json:"zip"`
	Country      string    `json:"country"`
	SubmittedAt  time.Time `json:"submitted_at"`
	IsCurrent    bool      `json:"is_current"`
}

type formContextResponse struct {
	GuestFirstName string `json:"guest_first_name"`
	EventName      string `json:"event_name"`
	CustomMessage  string `json:"custom_message,omitempty"`
	Completed      bool   `json:"completed"`
}

func formContextHandler(svc *Service, eventsSvc *events.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := svc.GuestByToken(r.Context(), chi.URLParam(r, "token"))
		if err != nil {
			// Respuesta uniforme: no se distingue "expirado" de
			// "nunca existió".
			http.Error(w, "invalid submission link", http.StatusNotFound)
			return
		}

		e, err := eventsSvc.GetByID(r.Context(), g.EventID)
		if err != nil {
			http.Error(w, "invalid submission link", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, formContextResponse{
			GuestFirstName: g.FirstName,
			EventName:      e.Name,
			CustomMessage:  e.CustomMessage,
			Completed:      g.SubmittedAt != nil,
		})
	}
}

func submitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sub, err := svc.Submit(r.Context(), req.Token, RawAddress{
			Line1:   req.AddressLine1,
			Line2:   req.AddressLine2,
			City:    req.City,
			State:   req.State,
			ZIP:     req.ZIP,
			Country: req.Country,
		}, middleware.ClientIP(r))
		if err != nil {
			var verr *ValidationError
			switch {
			case errors.As(err, &verr):
				http.Error(w, verr.Message, http.StatusBadRequest)
			case errors.Is(err, ErrInvalidLink):
				http.Error(w, "invalid submission link", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toSubmissionResponse(sub))
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

		out := make([]submissionResponse, 0, len(items))
		for _, sub := range items {
			out = append(out, toSubmissionResponse(sub))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toSubmissionResponse(sub Submission) submissionResponse {
	return submissionResponse{
		ID:           sub.ID,
		GuestID:      sub.GuestID,
		AddressLine1: sub.Address.Line1,
		AddressLine2: sub.Address.Line2,
		City:         sub.Address.City,
		State:        sub.Address.State,
		ZIP:          sub.Address.ZIP,
		Country:      sub.Address.Country,
		SubmittedAt:  sub.SubmittedAt,
		IsCurrent:    sub.IsCurrent,
	}
}

// writeJSON duplicado a propósito por módulo (ver events/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
