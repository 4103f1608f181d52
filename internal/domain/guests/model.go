package guests

import "time"

// Guest es el invitado de UN evento (no hay identidad cross-evento).
type Guest struct {
	ID      string
	EventID string

	FirstName string
	LastName  string

	// Al menos uno de los dos tiene que existir para poder enviarle el request.
	Email string
	Phone string

	// Token es la capability del link público de submission:
	// tenerlo autoriza exactamente el flujo de ese guest, sin otra auth.
	// Único global e inmutable una vez asignado.
	Token string

	Status Status

	RequestSentAt      *time.Time
	RequestMethod      Channel // canal del último request enviado
	ReminderCount      int
	LastReminderSentAt *time.Time

	SubmittedAt *time.Time

	CreatedAt time.Time
}

func (g Guest) FullName() string {
	return g.FirstName + " " + g.LastName
}
