package domain

import "time"

// AttemptStatus is the outcome class of an access attempt.
type AttemptStatus string

const (
	StatusSuccess AttemptStatus = "success"
	StatusDenied  AttemptStatus = "denied"
)

// Attempt is one append-only access attempt record. Rows are never mutated or
// deleted; the table is a pure audit trail.
type Attempt struct {
	ID                string
	UserID            string
	SessionID         string
	IPAddress         string
	DeviceFingerprint string
	UserAgent         string
	Status            AttemptStatus
	Reason            string
	CreatedAt         time.Time
}
