package delivery

import (
	"time"

	"cardulary/internal/domain/guests"
)

// Event es una fila del audit log de entregas. Append-only: el core
// nunca lo muta ni lo borra (sólo cae en cascada con el guest).
type Event struct {
	ID      string
	GuestID string

	Type    EventType
	Channel guests.Channel

	// Payload opaco del provider (message id, callback raw, etc.).
	Metadata map[string]any

	OccurredAt time.Time
}

type EventType string

const (
	EventSent      EventType = "sent"
	EventDelivered EventType = "delivered"
	EventOpened    EventType = "opened"
	EventClicked   EventType = "clicked"
	EventBounced   EventType = "bounced"
	EventFailed    EventType = "failed"
)

func ValidEventType(t EventType) bool {
	switch t {
	case EventSent, EventDelivered, EventOpened, EventClicked, EventBounced, EventFailed:
		return true
	}
	return false
}

// BatchResult resume un dispatch multi-guest. Errors mantiene el
// orden de inserción del guestIds de entrada (asserts deterministas).
type BatchResult struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}
