package exports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Export corre el engine y deja la fila de auditoría. Si el log falla
// el export ya está armado: se devuelve igual (el log no es crítico).
func (s *Service) Export(ctx context.Context, eventID, userID, eventName string, records []Record, f Format, sf StatusFilter) (Payload, error) {
	p, err := Transform(eventName, records, f, sf, s.now())
	if err != nil {
		return Payload{}, err
	}

	_ = s.repo.AppendLog(ctx, Log{
		ID:           uuid.NewString(),
		EventID:      eventID,
		UserID:       userID,
		Format:       f,
		StatusFilter: sf,
		ExportedAt:   s.now(),
	})

	return p, nil
}

func (s *Service) History(ctx context.Context, eventID string) ([]Log, error) {
	return s.repo.ListLogsByEvent(ctx, eventID)
}
