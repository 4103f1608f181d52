package exports

import "context"

type Repository interface {
	AppendLog(ctx context.Context, l Log) error

	// ListLogsByEvent devuelve el historial, más reciente primero.
	ListLogsByEvent(ctx context.Context, eventID string) ([]Log, error)
}
