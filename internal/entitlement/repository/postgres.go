package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"live-session-gateway/internal/entitlement/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an entitlement facts repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetTier returns the user's stored subscription tier, or "" if the user has no
// subscription row. It returns an error only for database failures.
func (r *PostgresRepository) GetTier(ctx context.Context, userID string) (string, error) {
	const q = `SELECT tier FROM user_subscriptions WHERE user_id = $1`
	var tier string
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&tier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return tier, nil
}

// HasCompletedPayment reports whether a completed payment exists for the
// (user, session) pair.
func (r *PostgresRepository) HasCompletedPayment(ctx context.Context, userID, sessionID string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM session_payments
			WHERE user_id = $1 AND session_id = $2 AND status = 'completed'
		)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, userID, sessionID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// GetActiveEnrollment returns the user's enrollment for the course that is
// active at now (unexpired or never-expiring), or nil when none exists.
func (r *PostgresRepository) GetActiveEnrollment(ctx context.Context, userID, courseID string, now time.Time) (*domain.Enrollment, error) {
	const q = `
		SELECT id, user_id, course_id, expires_at, created_at
		FROM course_enrollments
		WHERE user_id = $1 AND course_id = $2
		  AND (expires_at IS NULL OR expires_at > $3)
		ORDER BY created_at DESC
		LIMIT 1`

	var (
		e         domain.Enrollment
		expiresAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, userID, courseID, now).Scan(
		&e.ID, &e.UserID, &e.CourseID, &expiresAt, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if expiresAt.Valid {
		e.ExpiresAt = &expiresAt.Time
	}
	return &e, nil
}

type PostgresPolicyRepository struct {
	db *sql.DB
}

// NewPostgresPolicyRepository returns a policy repository backed by the given db.
func NewPostgresPolicyRepository(db *sql.DB) *PostgresPolicyRepository {
	return &PostgresPolicyRepository{db: db}
}

// GetEnabledPolicies returns all enabled entitlement policies, oldest first.
func (r *PostgresPolicyRepository) GetEnabledPolicies(ctx context.Context) ([]*domain.Policy, error) {
	const q = `
		SELECT id, name, rules, enabled, created_at, updated_at
		FROM entitlement_policies
		WHERE enabled
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Policy
	for rows.Next() {
		var p domain.Policy
		if err := rows.Scan(&p.ID, &p.Name, &p.Rules, &p.Enabled, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
