package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"cardulary/internal/domain/guests"
)

type GuestsRepo struct {
	db *sql.DB
}

func NewGuestsRepo(db *sql.DB) *GuestsRepo {
	return &GuestsRepo{db: db}
}

const guestColumns = `
	id, event_id,
	first_name, last_name, email, phone,
	token, status,
	request_sent_at, request_method,
	reminder_count, last_reminder_sent_at,
	submitted_at, created_at
`

func (r *GuestsRepo) Create(ctx context.Context, g guests.Guest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO guests (`+guestColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		g.ID,
		g.EventID,
		g.FirstName,
		g.LastName,
		g.Email,
		g.Phone,
		g.Token,
		string(g.Status),
		toNullTime(g.RequestSentAt),
		string(g.RequestMethod),
		g.ReminderCount,
		toNullTime(g.LastReminderSentAt),
		toNullTime(g.SubmittedAt),
		g.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation (el índice único del token)
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return guests.ErrTokenTaken
		}
		return err
	}
	return nil
}

func (r *GuestsRepo) GetByID(ctx context.Context, id string) (guests.Guest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return guests.Guest{}, guests.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+guestColumns+`
		FROM guests
		WHERE id = $1
	`, id)

	return scanGuest(row)
}

func (r *GuestsRepo) GetByToken(ctx context.Context, token string) (guests.Guest, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return guests.Guest{}, guests.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+guestColumns+`
		FROM guests
		WHERE token = $1
	`, token)

	return scanGuest(row)
}

func (r *GuestsRepo) ListByEvent(ctx context.Context, eventID string) ([]guests.Guest, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+guestColumns+`
		FROM guests
		WHERE event_id = $1
		ORDER BY created_at DESC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]guests.Guest, 0)
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}

	return out, rows.Err()
}

func (r *GuestsRepo) Delete(ctx context.Context, id string) error {
	// submissions y delivery events caen por ON DELETE CASCADE
	res, err := r.db.ExecContext(ctx, `DELETE FROM guests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return guests.ErrNotFound
	}
	return nil
}

// Mutate serializa la transición con SELECT FOR UPDATE: dos transiciones
// concurrentes sobre el mismo guest se ejecutan una después de la otra.
func (r *GuestsRepo) Mutate(ctx context.Context, id string, fn func(*guests.Guest) error) (guests.Guest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return guests.Guest{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+guestColumns+`
		FROM guests
		WHERE id = $1
		FOR UPDATE
	`, id)

	g, err := scanGuest(row)
	if err != nil {
		return guests.Guest{}, err
	}

	if err := fn(&g); err != nil {
		return guests.Guest{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE guests
		SET
			status = $2,
			request_sent_at = $3,
			request_method = $4,
			reminder_count = $5,
			last_reminder_sent_at = $6,
			submitted_at = $7
		WHERE id = $1
	`,
		g.ID,
		string(g.Status),
		toNullTime(g.RequestSentAt),
		string(g.RequestMethod),
		g.ReminderCount,
		toNullTime(g.LastReminderSentAt),
		toNullTime(g.SubmittedAt),
	)
	if err != nil {
		return guests.Guest{}, err
	}

	if err := tx.Commit(); err != nil {
		return guests.Guest{}, err
	}
	return g, nil
}

func scanGuest(row rowScanner) (guests.Guest, error) {
	var g guests.Guest
	var status, method string
	var sentAt, remindAt, subAt sql.NullTime
	if err := row.Scan(
		&g.ID,
		&g.EventID,
		&g.FirstName,
		&g.LastName,
		&g.Email,
		&g.Phone,
		&g.Token,
		&status,
		&sentAt,
		&method,
		&g.ReminderCount,
		&remindAt,
		&subAt,
		&g.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return guests.Guest{}, guests.ErrNotFound
		}
		return guests.Guest{}, err
	}
	g.Status = guests.Status(status)
	g.RequestMethod = guests.Channel(method)
	g.RequestSentAt = fromNullTime(sentAt)
	g.LastReminderSentAt = fromNullTime(remindAt)
	g.SubmittedAt = fromNullTime(subAt)
	return g, nil
}
