package memory

import (
	"sync"

	"cardulary/internal/domain/delivery"
	"cardulary/internal/domain/events"
	"cardulary/internal/domain/exports"
	"cardulary/internal/domain/guests"
	"cardulary/internal/domain/submissions"
)

// Store es el storage in-memory completo detrás de un solo mutex.
// Un lock único cubre las dos operaciones que tienen que ser atómicas:
// el flip de currency de submissions y el cascade-delete de guests.
type Store struct {
	mu sync.RWMutex

	events    map[string]events.Event
	schedules map[string]events.ReminderSchedule // key: eventID

	guests       map[string]guests.Guest
	guestByToken map[string]string // token -> guestID
	guestSeq     map[string]int64  // orden de inserción para desempates
	nextSeq      int64

	subsByGuest   map[string][]submissions.Submission
	eventsByGuest map[string][]delivery.Event

	logsByEvent map[string][]exports.Log
}

func NewStore() *Store {
	return &Store{
		events:        make(map[string]events.Event),
		schedules:     make(map[string]events.ReminderSchedule),
		guests:        make(map[string]guests.Guest),
		guestByToken:  make(map[string]string),
		guestSeq:      make(map[string]int64),
		subsByGuest:   make(map[string][]submissions.Submission),
		eventsByGuest: make(map[string][]delivery.Event),
		logsByEvent:   make(map[string][]exports.Log),
	}
}
