// Package external expone la API server-to-server para integraciones
// (apps del mismo dueño que consumen las direcciones recolectadas).
// Se autentica con API key fija, no con sesión de organizador.
package external

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"cardulary/internal/domain/events"
	"cardulary/internal/domain/guests"
	"cardulary/internal/domain/submissions"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(
	r chi.Router,
	apiKey string,
	eventsSvc *events.Service,
	guestsSvc *guests.Service,
	subsSvc *submissions.Service,
) {
	r.Route("/external", func(er chi.Router) {
		er.Use(requireAPIKey(apiKey))
		er.Get("/addresses", listAddressesHandler(eventsSvc, guestsSvc, subsSvc))
		er.Post("/addresses", listEventsHandler(eventsSvc, guestsSvc))
	})
}

func requireAPIKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Sin key configurada la superficie queda cerrada.
			got := r.Header.Get("X-Api-Key")
			if apiKey == "" || subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type addressEntry struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	FullName    string     `json:"fullName"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Address     addressDTO `json:"address"`
	SubmittedAt *time.Time `json:"submittedAt"`
}

type addressDTO struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZIP     string `json:"zip"`
	Country string `json:"country"`
}

// GET /external/addresses?eventId=xxx&userId=xxx
// Todas las direcciones completadas de un evento del usuario.
func listAddressesHandler(eventsSvc *events.Service, guestsSvc *guests.Service, subsSvc *submissions.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := strings.TrimSpace(r.URL.Query().Get("eventId"))
		userID := strings.TrimSpace(r.URL.Query().Get("userId"))
		if eventID == "" || userID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "eventId and userId required"})
			return
		}

		event, err := eventsSvc.GetOwned(r.Context(), eventID, userID)
		if err != nil {
			if errors.Is(err, events.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "Event not found"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch addresses"})
			return
		}

		list, err := guestsSvc.ListByEvent(r.Context(), eventID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch addresses"})
			return
		}

		addresses := make([]addressEntry, 0)
		for _, g := range list {
			if g.Status != guests.StatusCompleted {
				continue
			}
			sub, err := subsSvc.CurrentByGuest(r.Context(), g.ID)
			if err != nil {
				// completed sin current no debería pasar; lo salteamos
				continue
			}
			addresses = append(addresses, addressEntry{
				ID:        g.ID,
				FirstName: g.FirstName,
				LastName:  g.LastName,
				FullName:  g.FullName(),
				Email:     g.Email,
				Phone:     g.Phone,
				Address: addressDTO{
					Line1:   sub.Address.Line1,
					Line2:   sub.Address.Line2,
					City:    sub.Address.City,
					State:   sub.Address.State,
					ZIP:     sub.Address.ZIP,
					Country: sub.Address.Country,
				},
				SubmittedAt: g.SubmittedAt,
			})
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"event": map[string]any{
				"id":        event.ID,
				"name":      event.Name,
				"eventType": string(event.Category),
				"eventDate": event.EventDate,
			},
			"addresses": addresses,
			"total":     len(addresses),
		})
	}
}

type externalEventItem struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	EventType          string     `json:"eventType"`
	EventDate          *time.Time `json:"eventDate"`
	CreatedAt          time.Time  `json:"createdAt"`
	TotalGuests        int        `json:"totalGuests"`
	CompletedAddresses int        `json:"completedAddresses"`
}

// POST /external/addresses {"userId": "..."}
// Todos los eventos del usuario con sus contadores.
func listEventsHandler(eventsSvc *events.Service, guestsSvc *guests.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"userId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "userId required"})
			return
		}

		list, err := eventsSvc.ListByUser(r.Context(), req.UserID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch events"})
			return
		}

		out := make([]externalEventItem, 0, len(list))
		for _, e := range list {
			total, completed, err := guestsSvc.CountByEvent(r.Context(), e.ID)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch events"})
				return
			}
			out = append(out, externalEventItem{
				ID:                 e.ID,
				Name:               e.Name,
				EventType:          string(e.Category),
				EventDate:          e.EventDate,
				CreatedAt:          e.CreatedAt,
				TotalGuests:        total,
				CompletedAddresses: completed,
			})
		}

		writeJSON(w, http.StatusOK, map[string]any{"events": out})
	}
}

// writeJSON duplicado a propósito por módulo (ver events/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
