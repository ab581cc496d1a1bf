package accesswindow

import (
	"testing"
	"time"

	"live-session-gateway/internal/livesession/domain"
)

func testSession(start time.Time) *domain.Session {
	return &domain.Session{
		ID:             "s1",
		ScheduledStart: start,
		ScheduledEnd:   start.Add(60 * time.Minute),
	}
}

func TestGate_Boundaries(t *testing.T) {
	start := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	s := testSession(start)
	g := NewGate(30*time.Minute, 0)

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"31m before start", start.Add(-31 * time.Minute), false},
		{"exactly 30m before start", start.Add(-30 * time.Minute), true},
		{"at start", start, true},
		{"mid-session", start.Add(30 * time.Minute), true},
		{"exactly at end", start.Add(60 * time.Minute), true},
		{"1s after end", start.Add(60*time.Minute + time.Second), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.IsOpen(s, tc.now); got != tc.want {
				t.Errorf("IsOpen(%s) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestGate_Grace(t *testing.T) {
	start := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	s := testSession(start)
	g := NewGate(30*time.Minute, 5*time.Minute)

	if !g.IsOpen(s, start.Add(64*time.Minute)) {
		t.Error("window with 5m grace should still be open 4m after end")
	}
	if g.IsOpen(s, start.Add(66*time.Minute)) {
		t.Error("window should be closed past the grace period")
	}
}

func TestGate_RemainingUntilClose(t *testing.T) {
	start := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	s := testSession(start)
	g := NewGate(30*time.Minute, 0)

	if got := g.RemainingUntilClose(s, start); got != 60*time.Minute {
		t.Errorf("RemainingUntilClose at start = %v, want 60m", got)
	}
	if got := g.RemainingUntilClose(s, start.Add(2*time.Hour)); got >= 0 {
		t.Errorf("RemainingUntilClose after close = %v, want negative", got)
	}
}
