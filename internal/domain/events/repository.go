package events

import "context"

type Repository interface {
	Create(ctx context.Context, e Event) error
	Update(ctx context.Context, e Event) error
	GetByID(ctx context.Context, id string) (Event, error)
	ListByUser(ctx context.Context, userID string) ([]Event, error)

	// Una schedule por evento: upsert reemplaza la existente.
	UpsertReminderSchedule(ctx context.Context, rs ReminderSchedule) error
	GetReminderSchedule(ctx context.Context, eventID string) (ReminderSchedule, error)
}
