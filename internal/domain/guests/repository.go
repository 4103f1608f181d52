package guests

import "context"

type Repository interface {
	// Create falla con ErrTokenTaken si el token ya existe (unique constraint).
	Create(ctx context.Context, g Guest) error

	GetByID(ctx context.Context, id string) (Guest, error)
	GetByToken(ctx context.Context, token string) (Guest, error)
	ListByEvent(ctx context.Context, eventID string) ([]Guest, error)

	// Delete borra el guest; el storage cascadea submissions y delivery events.
	Delete(ctx context.Context, id string) error

	// Mutate aplica fn sobre el guest con acceso exclusivo a esa fila
	// mientras dura la transición (lock in-memory, SELECT FOR UPDATE en pg).
	// Si fn retorna error no se persiste nada.
	Mutate(ctx context.Context, id string, fn func(*Guest) error) (Guest, error)
}
