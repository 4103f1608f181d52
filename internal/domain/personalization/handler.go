// Package personalization expone el endpoint que genera el texto del
// address request con AI. Nunca devuelve 5xx por fallas del provider:
// el Personalizer ya cae al template fijo.
package personalization

import (
	"encoding/json"
	"net/http"
	"strings"

	"cardulary/internal/middleware"
	"cardulary/internal/ports/personalize"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, p personalize.Personalizer) {
	r.Post("/ai/personalize", personalizeHandler(p))
}

type personalizeRequest struct {
	EventName      string `json:"eventName"`
	EventType      string `json:"eventType"`
	GuestFirstName string `json:"guestFirstName"`
	Relationship   string `json:"relationship"`
	Tone           string `json:"tone"`
	Context        string `json:"context"`
	OrganizerName  string `json:"organizerName"`
}

func personalizeHandler(p personalize.Personalizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}

		var req personalizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		if strings.TrimSpace(req.EventName) == "" ||
			strings.TrimSpace(req.GuestFirstName) == "" ||
			strings.TrimSpace(req.OrganizerName) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
			return
		}

		msg := p.Personalize(r.Context(), personalize.Input{
			EventName:      req.EventName,
			EventType:      req.EventType,
			GuestFirstName: req.GuestFirstName,
			Relationship:   req.Relationship,
			Tone:           personalize.Tone(req.Tone),
			Context:        req.Context,
			OrganizerName:  req.OrganizerName,
		})

		writeJSON(w, http.StatusOK, map[string]string{"message": msg})
	}
}

// writeJSON duplicado a propósito por módulo (ver events/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
