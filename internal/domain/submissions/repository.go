package submissions

import "context"

type Repository interface {
	// SaveCurrent apaga IsCurrent en todas las submissions previas del
	// guest e inserta sub con IsCurrent=true, en la misma transacción.
	// Ningún lector puede observar cero o dos filas current.
	SaveCurrent(ctx context.Context, sub Submission) error

	// ListByGuest devuelve el historial completo, más reciente primero.
	ListByGuest(ctx context.Context, guestID string) ([]Submission, error)

	// CurrentByGuest devuelve la submission current o ErrNotFound.
	CurrentByGuest(ctx context.Context, guestID string) (Submission, error)
}
