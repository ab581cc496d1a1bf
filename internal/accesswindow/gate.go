// Package accesswindow decides whether "now" falls inside a session's
// permitted join interval.
package accesswindow

import (
	"time"

	"live-session-gateway/internal/livesession/domain"
)

// Gate evaluates the join window [scheduledStart-Lead, scheduledEnd+Grace].
// Both bounds are inclusive. Lead and Grace are configuration, not business
// law; the defaults are 30m and 0.
type Gate struct {
	Lead  time.Duration
	Grace time.Duration
}

// NewGate returns a Gate with the given pre-open lead time and post-end grace.
func NewGate(lead, grace time.Duration) *Gate {
	return &Gate{Lead: lead, Grace: grace}
}

// Opens returns the instant the join window opens.
func (g *Gate) Opens(s *domain.Session) time.Time {
	return s.ScheduledStart.Add(-g.Lead)
}

// Closes returns the instant the join window closes.
func (g *Gate) Closes(s *domain.Session) time.Time {
	return s.ScheduledEnd.Add(g.Grace)
}

// IsOpen reports whether now falls inside the session's join window.
func (g *Gate) IsOpen(s *domain.Session, now time.Time) bool {
	return !now.Before(g.Opens(s)) && !now.After(g.Closes(s))
}

// RemainingUntilClose returns how long the window stays open from now.
// Zero or negative means the window is closed.
func (g *Gate) RemainingUntilClose(s *domain.Session, now time.Time) time.Duration {
	return g.Closes(s).Sub(now)
}
