package repository

import (
	"context"
	"database/sql"
	"time"

	"live-session-gateway/internal/accesslog/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an access attempt repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends one attempt row. The attempt must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Attempt) error {
	const q = `
		INSERT INTO access_attempts
			(id, user_id, session_id, ip_address, device_fingerprint, user_agent, status, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, q,
		a.ID,
		nullable(a.UserID),
		nullable(a.SessionID),
		nullable(a.IPAddress),
		nullable(a.DeviceFingerprint),
		nullable(a.UserAgent),
		string(a.Status),
		nullable(a.Reason),
		a.CreatedAt,
	)
	return err
}

// CountDeniedSince returns the number of denied attempts for the user within
// the trailing window starting at since.
func (r *PostgresRepository) CountDeniedSince(ctx context.Context, userID string, since time.Time) (int, error) {
	const q = `
		SELECT COUNT(*) FROM access_attempts
		WHERE user_id = $1 AND status = 'denied' AND created_at >= $2`

	var n int
	if err := r.db.QueryRowContext(ctx, q, userID, since).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
