package postgres

import (
	"context"
	"database/sql"

	"cardulary/internal/domain/exports"
)

type ExportsRepo struct {
	db *sql.DB
}

func NewExportsRepo(db *sql.DB) *ExportsRepo {
	return &ExportsRepo{db: db}
}

func (r *ExportsRepo) AppendLog(ctx context.Context, l exports.Log) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO exports (id, event_id, user_id, format, status_filter, exported_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		l.ID,
		l.EventID,
		l.UserID,
		string(l.Format),
		string(l.StatusFilter),
		l.ExportedAt,
	)
	return err
}

func (r *ExportsRepo) ListLogsByEvent(ctx context.Context, eventID string) ([]exports.Log, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, user_id, format, status_filter, exported_at
		FROM exports
		WHERE event_id = $1
		ORDER BY exported_at DESC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]exports.Log, 0)
	for rows.Next() {
		var l exports.Log
		var format, filter string
		if err := rows.Scan(&l.ID, &l.EventID, &l.UserID, &format, &filter, &l.ExportedAt); err != nil {
			return nil, err
		}
		l.Format = exports.Format(format)
		l.StatusFilter = exports.StatusFilter(filter)
		out = append(out, l)
	}

	return out, rows.Err()
}
