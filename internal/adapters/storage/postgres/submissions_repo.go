package postgres

import (
	"context"
	"database/sql"

	"cardulary/internal/domain/submissions"
)

type SubmissionsRepo struct {
	db *sql.DB
}

func NewSubmissionsRepo(db *sql.DB) *SubmissionsRepo {
	return &SubmissionsRepo{db: db}
}

const submissionColumns = `
	id, guest_id,
	address_line1, address_line2, city, state, zip_code, country,
	submitted_at, ip_address, is_current
`

// SaveCurrent apaga el flag previo e inserta la fila nueva en la misma
// transacción: el invariante "una sola current" se sostiene bajo
// submits concurrentes.
func (r *SubmissionsRepo) SaveCurrent(ctx context.Context, sub submissions.Submission) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE address_submissions
		SET is_current = FALSE
		WHERE guest_id = $1 AND is_current = TRUE
	`, sub.GuestID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO address_submissions (`+submissionColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,TRUE)
	`,
		sub.ID,
		sub.GuestID,
		sub.Address.Line1,
		sub.Address.Line2,
		sub.Address.City,
		sub.Address.State,
		sub.Address.ZIP,
		sub.Address.Country,
		sub.SubmittedAt,
		sub.IPAddress,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SubmissionsRepo) ListByGuest(ctx context.Context, guestID string) ([]submissions.Submission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+submissionColumns+`
		FROM address_submissions
		WHERE guest_id = $1
		ORDER BY submitted_at DESC
	`, guestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]submissions.Submission, 0)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

func (r *SubmissionsRepo) CurrentByGuest(ctx context.Context, guestID string) (submissions.Submission, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+submissionColumns+`
		FROM address_submissions
		WHERE guest_id = $1 AND is_current = TRUE
	`, guestID)

	s, err := scanSubmission(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return submissions.Submission{}, submissions.ErrNotFound
		}
		return submissions.Submission{}, err
	}
	return s, nil
}

func scanSubmission(row rowScanner) (submissions.Submission, error) {
	var s submissions.Submission
	if err := row.Scan(
		&s.ID,
		&s.GuestID,
		&s.Address.Line1,
		&s.Address.Line2,
		&s.Address.City,
		&s.Address.State,
		&s.Address.ZIP,
		&s.Address.Country,
		&s.SubmittedAt,
		&s.IPAddress,
		&s.IsCurrent,
	); err != nil {
		return submissions.Submission{}, err
	}
	return s, nil
}
