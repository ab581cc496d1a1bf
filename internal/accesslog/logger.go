// Package accesslog appends one audit row for every access attempt and derives
// a simple abuse signal from denied attempts.
package accesslog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"live-session-gateway/internal/accesslog/domain"
	logrepo "live-session-gateway/internal/accesslog/repository"
	"live-session-gateway/internal/telemetry"
)

// Logger appends access attempts. Append is best-effort: a failed write never
// blocks or fails the access decision itself; failures are logged and emitted
// to telemetry.
type Logger struct {
	repo    logrepo.Repository
	emitter telemetry.EventEmitter

	abuseWindow    time.Duration
	abuseThreshold int
}

// NewLogger returns a Logger that persists to repo and mirrors attempts to the
// telemetry emitter. emitter may be nil. abuseWindow and abuseThreshold tune
// IsSuspicious; zero values fall back to 60m and 10.
func NewLogger(repo logrepo.Repository, emitter telemetry.EventEmitter, abuseWindow time.Duration, abuseThreshold int) *Logger {
	if abuseWindow <= 0 {
		abuseWindow = 60 * time.Minute
	}
	if abuseThreshold <= 0 {
		abuseThreshold = 10
	}
	return &Logger{repo: repo, emitter: emitter, abuseWindow: abuseWindow, abuseThreshold: abuseThreshold}
}

// Append writes one attempt row and emits a telemetry event. Best-effort:
// errors are logged, never returned. IP and user agent are filled from the
// client info on ctx when present.
func (l *Logger) Append(ctx context.Context, a domain.Attempt) {
	if info, ok := ClientInfoFrom(ctx); ok {
		if a.IPAddress == "" {
			a.IPAddress = info.IPAddress
		}
		if a.UserAgent == "" {
			a.UserAgent = info.UserAgent
		}
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	if l.repo != nil {
		if err := l.repo.Create(ctx, &a); err != nil {
			log.Error().Err(err).
				Str("user_id", a.UserID).
				Str("session_id", a.SessionID).
				Str("status", string(a.Status)).
				Msg("accesslog: failed to append attempt")
		}
	}

	telemetry.EmitAsync(l.emitter, ctx, &telemetry.AccessEvent{
		UserID:    a.UserID,
		SessionID: a.SessionID,
		Status:    string(a.Status),
		Reason:    a.Reason,
		IPAddress: a.IPAddress,
		Source:    "server",
		CreatedAt: a.CreatedAt,
	})
}

// IsSuspicious reports whether the user's denied attempts within the trailing
// abuse window exceed the threshold. Advisory only: enforcement is the
// caller's policy decision.
func (l *Logger) IsSuspicious(ctx context.Context, userID string) (bool, error) {
	if l.repo == nil || userID == "" {
		return false, nil
	}
	since := time.Now().UTC().Add(-l.abuseWindow)
	n, err := l.repo.CountDeniedSince(ctx, userID, since)
	if err != nil {
		return false, err
	}
	return n > l.abuseThreshold, nil
}
