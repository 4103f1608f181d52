package delivery

import "context"

type Repository interface {
	Append(ctx context.Context, e Event) error

	// ListByGuest devuelve los eventos en orden cronológico.
	ListByGuest(ctx context.Context, guestID string) ([]Event, error)
}
