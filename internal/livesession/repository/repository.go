package repository

import (
	"context"

	"live-session-gateway/internal/livesession/domain"
)

// Repository defines read-only access to live sessions. Session CRUD belongs
// to the admin surface, not this service.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Session, error)
}
