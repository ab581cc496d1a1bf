package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"live-session-gateway/internal/grant/domain"
	"live-session-gateway/internal/security"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a grant ledger repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Record inserts a fresh unused ledger row. A unique violation on token_hash
// maps to ErrDuplicateToken.
func (r *PostgresRepository) Record(ctx context.Context, g *domain.Grant) error {
	const q = `
		INSERT INTO access_grants
			(token_hash, user_id, session_id, device_fingerprint, enrollment_ref, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	enrollmentRef := sql.NullString{String: g.EnrollmentRef, Valid: g.EnrollmentRef != ""}
	_, err := r.db.ExecContext(ctx, q,
		g.TokenHash, g.UserID, g.SessionID, g.DeviceFingerprint, enrollmentRef, g.ExpiresAt, g.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateToken
		}
		return err
	}
	return nil
}

// ConsumeIfUnused is a single conditional UPDATE inside a transaction: the row
// is consumed only when it exists, is unused, and is unexpired. The bound
// fingerprint comes back via RETURNING and is compared in constant time here;
// on mismatch the transaction rolls back so the row stays unused for the
// legitimate device. When the UPDATE consumes nothing, a SELECT in the same
// transaction classifies the failure: existence, then used, then expired.
func (r *PostgresRepository) ConsumeIfUnused(ctx context.Context, tokenHash, presentedFingerprint string, now time.Time) (domain.ConsumeResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ConsumeResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	const consume = `
		UPDATE access_grants
		SET used_at = $2
		WHERE token_hash = $1 AND used_at IS NULL AND expires_at > $2
		RETURNING user_id, session_id, device_fingerprint`

	var userID, sessionID, boundFingerprint string
	err = tx.QueryRowContext(ctx, consume, tokenHash, now).Scan(&userID, &sessionID, &boundFingerprint)
	switch {
	case err == nil:
		if !security.FingerprintEqual(presentedFingerprint, boundFingerprint) {
			// Roll back the consumption: a wrong-device attempt must not burn
			// the token for the device it was issued to.
			if err := tx.Rollback(); err != nil {
				return domain.ConsumeResult{}, err
			}
			return domain.ConsumeResult{State: domain.ConsumeDeviceMismatch}, nil
		}
		if err := tx.Commit(); err != nil {
			return domain.ConsumeResult{}, err
		}
		return domain.ConsumeResult{State: domain.ConsumeValid, UserID: userID, SessionID: sessionID}, nil

	case errors.Is(err, sql.ErrNoRows):
		return r.classify(ctx, tx, tokenHash, now)

	default:
		return domain.ConsumeResult{}, err
	}
}

// classify reports why the conditional UPDATE consumed nothing.
func (r *PostgresRepository) classify(ctx context.Context, tx *sql.Tx, tokenHash string, now time.Time) (domain.ConsumeResult, error) {
	const q = `SELECT used_at, expires_at FROM access_grants WHERE token_hash = $1`

	var (
		usedAt    sql.NullTime
		expiresAt time.Time
	)
	err := tx.QueryRowContext(ctx, q, tokenHash).Scan(&usedAt, &expiresAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.ConsumeResult{State: domain.ConsumeNotFound}, nil
	case err != nil:
		return domain.ConsumeResult{}, err
	case usedAt.Valid:
		return domain.ConsumeResult{State: domain.ConsumeAlreadyUsed}, nil
	case !expiresAt.After(now):
		return domain.ConsumeResult{State: domain.ConsumeExpired}, nil
	default:
		// The row was consumable by the time this statement ran; a concurrent
		// redeemer must have settled between the two statements. Report used.
		return domain.ConsumeResult{State: domain.ConsumeAlreadyUsed}, nil
	}
}
