package events

import "time"

// Event es el evento del organizador (boda, graduación, etc.).
// El owner es inmutable; name/message/date se pueden editar.
type Event struct {
	ID     string
	UserID string

	Name          string
	Category      Category
	EventDate     *time.Time
	CustomMessage string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReminderSchedule guarda los intervalos de follow-up del evento.
// El scheduler que los ejecuta es externo (cron) y pega al endpoint
// de reminders; acá sólo persisten los datos.
type ReminderSchedule struct {
	ID      string
	EventID string

	// Días después del send inicial, p.ej. [3, 7, 14].
	Intervals []int
	Active    bool

	CreatedAt time.Time
}
