package events

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"cardulary/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// GuestCounter lo implementa guests.Service. Interfaz local para no
// crear un ciclo de imports events <-> guests.
type GuestCounter interface {
	CountByEvent(ctx context.Context, eventID string) (total, completed int, err error)
}

func RegisterRoutes(r chi.Router, svc *Service, counter GuestCounter) {
	r.Route("/events", func(er chi.Router) {
		er.Post("/", createEventHandler(svc))
		er.Get("/", listEventsHandler(svc, counter))

		er.Get("/{eventID}", getEventHandler(svc))
		er.Patch("/{eventID}", updateEventHandler(svc))

		er.Put("/{eventID}/reminder-schedule", setReminderScheduleHandler(svc))
		er.Get("/{eventID}/reminder-schedule", getReminderScheduleHandler(svc))
	})
}

type createEventRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	EventDate     string `json:"event_date"` // YYYY-MM-DD opcional
	CustomMessage string `json:"custom_message"`
}

type updateEventRequest struct {
	Name          *string `json:"name"`
	EventDate     *string `json:"event_date"` // null para limpiar
	CustomMessage *string `json:"custom_message"`
}

type eventResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	EventDate     *time.Time `json:"event_date,omitempty"`
	CustomMessage string     `json:"custom_message"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type eventListItem struct {
	eventResponse
	TotalGuests        int `json:"total_guests"`
	CompletedAddresses int `json:"completed_addresses"`
}

type reminderScheduleRequest struct {
	Intervals []int `json:"intervals"`
	Active    bool  `json:"active"`
}

type reminderScheduleResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Intervals []int     `json:"intervals"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func createEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var date *time.Time
		if strings.TrimSpace(req.EventDate) != "" {
			t, err := time.Parse("2006-01-02", req.EventDate)
			if err != nil {
				http.Error(w, "event_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			date = &t
		}

		e, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:          req.Name,
			Category:      Category(req.Category),
			EventDate:     date,
			CustomMessage: req.CustomMessage,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(e))
	}
}

func listEventsHandler(svc *Service, counter GuestCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]eventListItem, 0, len(items))
		for _, e := range items {
			total, completed, err := counter.CountByEvent(r.Context(), e.ID)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			out = append(out, eventListItem{
				eventResponse:      toEventResponse(e),
				TotalGuests:        total,
				CompletedAddresses: completed,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		e, err := svc.GetOwned(r.Context(), chi.URLParam(r, "eventID"), claims.UserID)
		if err != nil {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

func updateEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Para soportar event_date: null (= limpiar fecha) hay que
		// distinguir "campo ausente" de "campo null": map primero.
		var raw map[string]json.RawMessage
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var req updateEventRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		in := UpdateInput{
			Name:          req.Name,
			CustomMessage: req.CustomMessage,
		}

		if v, exists := raw["event_date"]; exists {
			if string(v) == "null" {
				in.ClearDate = true
			} else if req.EventDate != nil {
				t, err := time.Parse("2006-01-02", *req.EventDate)
				if err != nil {
					http.Error(w, "event_date must be YYYY-MM-DD or null", http.StatusBadRequest)
					return
				}
				in.EventDate = &t
			}
		}

		e, err := svc.Update(r.Context(), chi.URLParam(r, "eventID"), claims.UserID, in)
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "event not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

func setReminderScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req reminderScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rs, err := svc.SetReminderSchedule(r.Context(), chi.URLParam(r, "eventID"), claims.UserID, req.Intervals, req.Active)
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, "intervals must be positive day counts", http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "event not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toScheduleResponse(rs))
	}
}

func getReminderScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rs, err := svc.GetReminderSchedule(r.Context(), chi.URLParam(r, "eventID"), claims.UserID)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toScheduleResponse(rs))
	}
}

func toEventResponse(e Event) eventResponse {
	return eventResponse{
		ID:            e.ID,
		UserID:        e.UserID,
		Name:          e.Name,
		Category:      string(e.Category),
		EventDate:     e.EventDate,
		CustomMessage: e.CustomMessage,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func toScheduleResponse(rs ReminderSchedule) reminderScheduleResponse {
	return reminderScheduleResponse{
		ID:        rs.ID,
		EventID:   rs.EventID,
		Intervals: rs.Intervals,
		Active:    rs.Active,
		CreatedAt: rs.CreatedAt,
	}
}

// writeJSON se repite a propósito en los handlers de cada módulo;
// si aparece en más lugares recién ahí vale extraer un helper común.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
