package domain

import "time"

// Status is the lifecycle state of a live session. It is managed by the admin
// surface; this service only reads it.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusEnded     Status = "ended"
	StatusCancelled Status = "cancelled"
)

// Session represents a scheduled live video session.
type Session struct {
	ID             string
	Title          string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	IsFree         bool
	// Price is the one-time purchase price in the currency's minor unit.
	Price      int64
	Currency   string
	MeetingURL string
	CourseID   string
	Status     Status
	CreatedAt  time.Time
}

// Joinable reports whether the session's status permits issuing access at all.
// Cancelled and ended sessions are never joinable regardless of schedule.
func (s *Session) Joinable() bool {
	return s.Status == StatusScheduled || s.Status == StatusLive
}
