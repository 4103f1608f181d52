package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"cardulary/internal/domain/delivery"
	"cardulary/internal/domain/guests"
)

type DeliveryRepo struct {
	db *sql.DB
}

func NewDeliveryRepo(db *sql.DB) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

func (r *DeliveryRepo) Append(ctx context.Context, e delivery.Event) error {
	meta, err := json.Marshal(e.Metadata)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO delivery_events (id, guest_id, type, channel, metadata, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		e.ID,
		e.GuestID,
		string(e.Type),
		string(e.Channel),
		meta,
		e.OccurredAt,
	)
	return err
}

func (r *DeliveryRepo) ListByGuest(ctx context.Context, guestID string) ([]delivery.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, guest_id, type, channel, metadata, occurred_at
		FROM delivery_events
		WHERE guest_id = $1
		ORDER BY occurred_at ASC
	`, guestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]delivery.Event, 0)
	for rows.Next() {
		var e delivery.Event
		var typ, channel string
		var meta []byte
		if err := rows.Scan(&e.ID, &e.GuestID, &typ, &channel, &meta, &e.OccurredAt); err != nil {
			return nil, err
		}
		e.Type = delivery.EventType(typ)
		e.Channel = guests.Channel(channel)
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &e.Metadata); err != nil {
				return nil, err
			}
		}
		out = append(out, e)
	}

	return out, rows.Err()
}
