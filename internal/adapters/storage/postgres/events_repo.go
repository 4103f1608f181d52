package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"cardulary/internal/domain/events"
)

type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

func (r *EventsRepo) Create(ctx context.Context, e events.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (
			id, user_id,
			name, category, event_date, custom_message,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		e.ID,
		e.UserID,
		e.Name,
		string(e.Category),
		toNullTime(e.EventDate),
		e.CustomMessage,
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

func (r *EventsRepo) Update(ctx context.Context, e events.Event) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET
			name = $2,
			category = $3,
			event_date = $4,
			custom_message = $5,
			updated_at = $6
		WHERE id = $1
	`,
		e.ID,
		e.Name,
		string(e.Category),
		toNullTime(e.EventDate),
		e.CustomMessage,
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return events.Event{}, events.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, user_id,
			name, category, event_date, custom_message,
			created_at, updated_at
		FROM events
		WHERE id = $1
	`, id)

	e, err := scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return events.Event{}, events.ErrNotFound
		}
		return events.Event{}, err
	}
	return e, nil
}

func (r *EventsRepo) ListByUser(ctx context.Context, userID string) ([]events.Event, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, user_id,
			name, category, event_date, custom_message,
			created_at, updated_at
		FROM events
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

func (r *EventsRepo) UpsertReminderSchedule(ctx context.Context, rs events.ReminderSchedule) error {
	intervals, err := json.Marshal(rs.Intervals)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO reminder_schedules (id, event_id, intervals, active, created_at)
		SELECT $1, $2, $3, $4, $5
		WHERE EXISTS (SELECT 1 FROM events WHERE id = $2)
		ON CONFLICT (event_id) DO UPDATE
		SET intervals = EXCLUDED.intervals,
		    active = EXCLUDED.active
	`,
		rs.ID,
		rs.EventID,
		intervals,
		rs.Active,
		rs.CreatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventsRepo) GetReminderSchedule(ctx context.Context, eventID string) (events.ReminderSchedule, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, event_id, intervals, active, created_at
		FROM reminder_schedules
		WHERE event_id = $1
	`, eventID)

	var rs events.ReminderSchedule
	var intervals []byte
	if err := row.Scan(&rs.ID, &rs.EventID, &intervals, &rs.Active, &rs.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return events.ReminderSchedule{}, events.ErrNotFound
		}
		return events.ReminderSchedule{}, err
	}
	if err := json.Unmarshal(intervals, &rs.Intervals); err != nil {
		return events.ReminderSchedule{}, err
	}

	return rs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (events.Event, error) {
	var e events.Event
	var cat string
	var date sql.NullTime
	if err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Name,
		&cat,
		&date,
		&e.CustomMessage,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return events.Event{}, err
	}
	e.Category = events.Category(cat)
	e.EventDate = fromNullTime(date)
	return e, nil
}
