package exports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cardulary/internal/domain/events"
	"cardulary/internal/domain/guests"
	"cardulary/internal/domain/submissions"
	"cardulary/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, eventsSvc *events.Service, guestsSvc *guests.Service, subsSvc *submissions.Service) {
	r.Get("/events/{eventID}/export", exportHandler(svc, eventsSvc, guestsSvc, subsSvc))
	r.Get("/events/{eventID}/exports", historyHandler(svc, eventsSvc))
}

type logResponse struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	Format       string    `json:"format"`
	StatusFilter string    `json:"status_filter"`
	ExportedAt   time.Time `json:"exported_at"`
}

func exportHandler(svc *Service, eventsSvc *events.Service, guestsSvc *guests.Service, subsSvc *submissions.Service) http.HandlerFunc {
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

		format := Format(r.URL.Query().Get("format"))
		if format == "" {
			format = FormatCSV
		}
		filter := StatusFilter(r.URL.Query().Get("status"))
		if filter == "" {
			filter = FilterAll
		}

		items, err := guestsSvc.ListByEvent(r.Context(), e.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		records := make([]Record, 0, len(items))
		for _, g := range items {
			records = append(records, buildRecord(r, g, subsSvc))
		}

		p, err := svc.Export(r.Context(), e.ID, claims.UserID, e.Name, records, format, filter)
		if err != nil {
			switch {
			case errors.Is(err, ErrUnknownFormat):
				http.Error(w, "unknown export format", http.StatusBadRequest)
			case errors.Is(err, ErrUnknownFilter):
				http.Error(w, "unknown status filter", http.StatusBadRequest)
			default:
				http.Error(w, "failed to export data", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", p.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.Filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(p.Data)
	}
}

// buildRecord junta guest + submission current; sin dirección el
// record sale con campos vacíos (los formatos propietarios lo filtran
// después, en el engine).
func buildRecord(r *http.Request, g guests.Guest, subsSvc *submissions.Service) Record {
	rec := Record{
		FirstName:   g.FirstName,
		LastName:    g.LastName,
		Email:       g.Email,
		Phone:       g.Phone,
		Status:      string(g.Status),
		SubmittedAt: g.SubmittedAt,
	}

	sub, err := subsSvc.CurrentByGuest(r.Context(), g.ID)
	if err == nil {
		rec.AddressLine1 = sub.Address.Line1
		rec.AddressLine2 = sub.Address.Line2
		rec.City = sub.Address.City
		rec.State = sub.Address.State
		rec.ZIP = sub.Address.ZIP
		rec.Country = sub.Address.Country
	}

	return rec
}

func historyHandler(svc *Service, eventsSvc *events.Service) http.HandlerFunc {
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

		items, err := svc.History(r.Context(), e.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]logResponse, 0, len(items))
		for _, l := range items {
			out = append(out, logResponse{
				ID:           l.ID,
				EventID:      l.EventID,
				Format:       string(l.Format),
				StatusFilter: string(l.StatusFilter),
				ExportedAt:   l.ExportedAt,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// writeJSON duplicado a propósito por módulo (ver events/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
