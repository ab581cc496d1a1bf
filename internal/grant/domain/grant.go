package domain

import "time"

// Grant is one row in the single-use token ledger. TokenHash is the keyed
// digest of the issued token string; the raw token is never stored.
type Grant struct {
	TokenHash         string
	UserID            string
	SessionID         string
	DeviceFingerprint string
	EnrollmentRef     string
	// ExpiresAt is the authoritative expiry, independent of the signed claim's
	// own expiry.
	ExpiresAt time.Time
	// UsedAt is nil until the grant is consumed. It transitions nil -> non-nil
	// at most once, ever.
	UsedAt    *time.Time
	CreatedAt time.Time
}

// ConsumeState classifies the outcome of a consume attempt.
type ConsumeState string

const (
	// ConsumeValid: the grant existed, was unused, unexpired, and the
	// fingerprint matched; it is now marked used.
	ConsumeValid ConsumeState = "valid"
	// ConsumeNotFound: no ledger row for the hash.
	ConsumeNotFound ConsumeState = "not_found"
	// ConsumeAlreadyUsed: the grant was already consumed.
	ConsumeAlreadyUsed ConsumeState = "already_used"
	// ConsumeExpired: the grant was unused but past its ledger expiry.
	ConsumeExpired ConsumeState = "expired"
	// ConsumeDeviceMismatch: the fingerprint differs from the one bound at
	// issuance. The grant stays unused; the bound device can still redeem it.
	ConsumeDeviceMismatch ConsumeState = "device_mismatch"
)

// ConsumeResult is the outcome of ConsumeIfUnused. UserID and SessionID are
// set only when State is ConsumeValid.
type ConsumeResult struct {
	State     ConsumeState
	UserID    string
	SessionID string
}
