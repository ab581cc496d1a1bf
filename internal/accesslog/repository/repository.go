package repository

import (
	"context"
	"time"

	"live-session-gateway/internal/accesslog/domain"
)

// Repository defines persistence for the append-only access attempt log.
type Repository interface {
	// Create appends one attempt row.
	Create(ctx context.Context, a *domain.Attempt) error
	// CountDeniedSince returns the number of denied attempts for the user with
	// created_at >= since.
	CountDeniedSince(ctx context.Context, userID string, since time.Time) (int, error)
}
