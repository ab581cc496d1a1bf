package repository

import (
	"context"
	"database/sql"
	"errors"

	"live-session-gateway/internal/livesession/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a live session repository that reads from the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the session for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	const q = `
		SELECT id, title, scheduled_start, scheduled_end, is_free, price, currency,
		       meeting_url, course_id, status, created_at
		FROM live_sessions
		WHERE id = $1`

	var (
		s          domain.Session
		meetingURL sql.NullString
		courseID   sql.NullString
		status     string
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.Title, &s.ScheduledStart, &s.ScheduledEnd, &s.IsFree, &s.Price,
		&s.Currency, &meetingURL, &courseID, &status, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.MeetingURL = meetingURL.String
	s.CourseID = courseID.String
	s.Status = domain.Status(status)
	return &s, nil
}
