package repository

import (
	"context"
	"time"

	"live-session-gateway/internal/entitlement/domain"
)

// Repository defines read access to entitlement facts. All facts are owned by
// external collaborators (billing, enrollment); this service only reads them.
type Repository interface {
	// GetTier returns the user's subscription tier as stored, or "" when the
	// user has no subscription row.
	GetTier(ctx context.Context, userID string) (string, error)
	// HasCompletedPayment reports whether a completed session-scoped payment
	// exists for the (user, session) pair.
	HasCompletedPayment(ctx context.Context, userID, sessionID string) (bool, error)
	// GetActiveEnrollment returns the user's enrollment for the course that is
	// active at now, or nil when none exists.
	GetActiveEnrollment(ctx context.Context, userID, courseID string, now time.Time) (*domain.Enrollment, error)
}

// PolicyRepository defines read access to operator-supplied entitlement policies.
type PolicyRepository interface {
	// GetEnabledPolicies returns all enabled policies, oldest first.
	GetEnabledPolicies(ctx context.Context) ([]*domain.Policy, error)
}
