package domain

import (
	"strings"
	"time"
)

// Tier is a user's subscription tier. Comparisons are always done on the
// canonical lower-case form; see NormalizeTier.
type Tier string

const (
	TierFree          Tier = "free"
	TierPro           Tier = "pro"
	TierInstitutional Tier = "institutional"
	TierAdmin         Tier = "admin"
)

// NormalizeTier canonicalizes a stored tier string for comparison. Tier
// comparison is case-insensitive; unknown values normalize to free.
func NormalizeTier(s string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierPro:
		return TierPro
	case TierInstitutional:
		return TierInstitutional
	case TierAdmin:
		return TierAdmin
	default:
		return TierFree
	}
}

// BlanketAccess reports whether the tier grants access to paid sessions
// without a session-specific payment or enrollment.
func (t Tier) BlanketAccess() bool {
	return t == TierPro || t == TierInstitutional || t == TierAdmin
}

// Enrollment is an active course enrollment fact. ExpiresAt is nil for
// enrollments that never expire.
type Enrollment struct {
	ID        string
	UserID    string
	CourseID  string
	ExpiresAt *time.Time
	CreatedAt time.Time
}

// ActiveAt reports whether the enrollment is active at the given instant.
func (e *Enrollment) ActiveAt(now time.Time) bool {
	return e.ExpiresAt == nil || e.ExpiresAt.After(now)
}

// Policy is an operator-supplied Rego policy overriding the built-in
// entitlement rules. Only enabled policies with non-empty rules are evaluated.
type Policy struct {
	ID        string
	Name      string
	Rules     string
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Decision is the outcome of entitlement resolution for a (user, session) pair.
type Decision struct {
	Entitled bool
	// Reason is set on denial; currently always "enrollment_missing".
	Reason string
	// Price and Currency are carried on denial so the caller can offer a
	// one-time purchase.
	Price    int64
	Currency string
	// EnrollmentRef is the id of the active enrollment, when one exists, for
	// embedding in the issued token's claims.
	EnrollmentRef string
}
