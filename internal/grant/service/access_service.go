// Package service orchestrates token issuance and redemption: entitlement and
// window checks at issue time, single-use consumption at redeem time, one
// attempt-log row per call.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	logdomain "live-session-gateway/internal/accesslog/domain"
	"live-session-gateway/internal/accesswindow"
	entdomain "live-session-gateway/internal/entitlement/domain"
	grantdomain "live-session-gateway/internal/grant/domain"
	sessiondomain "live-session-gateway/internal/livesession/domain"
	"live-session-gateway/internal/security"
)

// Stable denial reasons surfaced to clients. Clients key remedies off these,
// so they must not change.
const (
	ReasonEnrollmentMissing  = "enrollment_missing"
	ReasonExpired            = "expired"
	ReasonUsed               = "used"
	ReasonWrongDevice        = "wrong_device"
	ReasonOutsideWindow      = "outside_window"
	ReasonUnauthorized       = "unauthorized"
	ReasonInvalidToken       = "invalid_token"
	ReasonConfigurationError = "configuration_error"

	// reasonError marks infrastructure faults in the attempt log only; it is
	// never surfaced to clients.
	reasonError = "error"
)

// ErrNoMeetingURL is returned when a redemption is otherwise valid but the
// session has no meeting URL configured. This is an operator fault, not a
// denial; callers should not retry.
var ErrNoMeetingURL = errors.New("session has no meeting URL configured")

// Denial is a first-class refusal outcome. Price and Currency are set only for
// enrollment_missing so the caller can offer a one-time purchase.
type Denial struct {
	Reason   string
	Message  string
	Price    int64
	Currency string
}

// IssueOutcome is the result of IssueAccess: either a token or a denial.
type IssueOutcome struct {
	Token     string
	ExpiresAt time.Time
	Denied    *Denial
}

// RedeemOutcome is the result of RedeemAccess: either the meeting URL or a denial.
type RedeemOutcome struct {
	MeetingURL string
	Title      string
	Denied     *Denial
}

// SessionRepo is the minimal live session repository needed by the access service.
type SessionRepo interface {
	GetByID(ctx context.Context, id string) (*sessiondomain.Session, error)
}

// GrantRepo is the minimal grant ledger needed by the access service.
type GrantRepo interface {
	Record(ctx context.Context, g *grantdomain.Grant) error
	ConsumeIfUnused(ctx context.Context, tokenHash, presentedFingerprint string, now time.Time) (grantdomain.ConsumeResult, error)
}

// Entitlements decides whether a user may obtain access to a session.
type Entitlements interface {
	Resolve(ctx context.Context, userID string, session *sessiondomain.Session, now time.Time) (entdomain.Decision, error)
}

// AttemptLogger appends one attempt row. Best-effort; never returns an error.
type AttemptLogger interface {
	Append(ctx context.Context, a logdomain.Attempt)
}

// AccessService implements the token lifecycle state machine.
type AccessService struct {
	sessions     SessionRepo
	grants       GrantRepo
	entitlements Entitlements
	gate         *accesswindow.Gate
	codec        *security.Codec
	hasher       *security.TokenHasher
	attempts     AttemptLogger
	defaultTTL   time.Duration

	now func() time.Time
}

// NewAccessService returns an AccessService with the given dependencies.
func NewAccessService(
	sessions SessionRepo,
	grants GrantRepo,
	entitlements Entitlements,
	gate *accesswindow.Gate,
	codec *security.Codec,
	hasher *security.TokenHasher,
	attempts AttemptLogger,
	defaultTTL time.Duration,
) *AccessService {
	if defaultTTL <= 0 {
		defaultTTL = 90 * time.Minute
	}
	return &AccessService{
		sessions:     sessions,
		grants:       grants,
		entitlements: entitlements,
		gate:         gate,
		codec:        codec,
		hasher:       hasher,
		attempts:     attempts,
		defaultTTL:   defaultTTL,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// IssueAccess resolves entitlement and the join window for (userID, sessionID)
// and, when both pass, mints a single-use token bound to deviceFingerprint.
// The token's TTL is the default TTL clamped to the remaining window time.
// Exactly one attempt-log row is appended regardless of outcome.
func (s *AccessService) IssueAccess(ctx context.Context, userID, sessionID, deviceFingerprint string) (*IssueOutcome, error) {
	now := s.now()
	userID = strings.TrimSpace(userID)
	sessionID = strings.TrimSpace(sessionID)
	deviceFingerprint = strings.TrimSpace(deviceFingerprint)

	if userID == "" || sessionID == "" || deviceFingerprint == "" {
		s.logAttempt(ctx, userID, sessionID, deviceFingerprint, logdomain.StatusDenied, ReasonUnauthorized)
		return issueDenied(&Denial{Reason: ReasonUnauthorized, Message: denialMessage(ReasonUnauthorized)}), nil
	}

	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		s.logAttempt(ctx, userID, sessionID, deviceFingerprint, logdomain.StatusDenied, reasonError)
		return nil, err
	}
	if sess == nil {
		s.logAttempt(ctx, userID, sessionID, deviceFingerprint, logdomain.StatusDenied, ReasonUnauthorized)
		return issueDenied(&Denial{Reason: ReasonUnauthorized, Message: "unknown session"}), nil
	}
	if !sess.Joinable() {
		s.logAttempt(ctx, userID, sessionID, deviceFingerprint, logdomain.StatusDenied, ReasonOutsideWindow)
		return issueDenied(&Denial{Reason: ReasonOutsideWindow, Message: denialMessage(ReasonOutsideWindow)}), nil
	}

	decision, err := s.entitlements.Resolve(ctx, userID, sess, now)
	if err != nil {
		s.logAttempt(ctx, userID, sessionID, deviceFingerprint, logdomain.StatusDenied, reasonError)
		return nil, err
	}
	if !decision.Entitled {
		s.logAttempt(ctx, userID, sessionID, deviceFingerprint, logdomain.StatusDenied, decision.Reason)
		return issueDenied(&Denial{
			Reason:   decision.Reason,
			Message:  denialMessage(decision.Reason),
			Price:    decision.Price,
			Currency: decision.Currency,
		}), nil
	}

	if !s.gate.IsOpen(sess, now) {
		s.logAttempt(ctx, userID, sessionID, deviceFingerprint, logdomain.StatusDenied, ReasonOutsideWindow)
		return issueDenied(&Denial{Reason: ReasonOutsideWindow, Message: denialMessage(ReasonOutsideWindow)}), nil
	}

	ttl := s.defaultTTL
	if remaining := s.gate.RemainingUntilClose(sess, now); remaining < ttl {
		ttl = remaining
	}

	token, err := s.codec.Encode(userID, sessionID, deviceFingerprint, decision.EnrollmentRef, ttl)
	if err != nil {
		s.logAttempt(ctx, userID, sessionID, deviceFingerprint, logdomain.StatusDenied, reasonError)
		return nil, err
	}
	expiresAt := now.Add(ttl)
	err = s.grants.Record(ctx, &grantdomain.Grant{
		TokenHash:         s.hasher.Hash(token),
		UserID:            userID,
		SessionID:         sessionID,
		DeviceFingerprint: deviceFingerprint,
		EnrollmentRef:     decision.EnrollmentRef,
		ExpiresAt:         expiresAt,
		CreatedAt:         now,
	})
	if err != nil {
		s.logAttempt(ctx, userID, sessionID, deviceFingerprint, logdomain.StatusDenied, reasonError)
		return nil, err
	}

	s.logAttempt(ctx, userID, sessionID, deviceFingerprint, logdomain.StatusSuccess, "")
	return &IssueOutcome{Token: token, ExpiresAt: expiresAt}, nil
}

// RedeemAccess validates and consumes a presented token and returns the
// session's meeting URL. Consumption is atomic in the ledger; a wrong-device
// attempt leaves the token unused for the bound device. Exactly one
// attempt-log row is appended regardless of outcome.
func (s *AccessService) RedeemAccess(ctx context.Context, token, presentedFingerprint string) (*RedeemOutcome, error) {
	now := s.now()
	token = strings.TrimSpace(token)
	presentedFingerprint = strings.TrimSpace(presentedFingerprint)

	if token == "" || presentedFingerprint == "" {
		s.logAttempt(ctx, "", "", presentedFingerprint, logdomain.StatusDenied, ReasonInvalidToken)
		return redeemDenied(ReasonInvalidToken), nil
	}

	claims, err := s.codec.Decode(token)
	if err != nil {
		// Tampered, malformed, and claim-expired tokens are indistinguishable
		// to the client on purpose.
		s.logAttempt(ctx, "", "", presentedFingerprint, logdomain.StatusDenied, ReasonInvalidToken)
		return redeemDenied(ReasonInvalidToken), nil
	}

	res, err := s.grants.ConsumeIfUnused(ctx, s.hasher.Hash(token), presentedFingerprint, now)
	if err != nil {
		s.logAttempt(ctx, claims.UserID, claims.SessionID, presentedFingerprint, logdomain.StatusDenied, reasonError)
		return nil, err
	}

	switch res.State {
	case grantdomain.ConsumeNotFound:
		s.logAttempt(ctx, claims.UserID, claims.SessionID, presentedFingerprint, logdomain.StatusDenied, ReasonInvalidToken)
		return redeemDenied(ReasonInvalidToken), nil
	case grantdomain.ConsumeAlreadyUsed:
		s.logAttempt(ctx, claims.UserID, claims.SessionID, presentedFingerprint, logdomain.StatusDenied, ReasonUsed)
		return redeemDenied(ReasonUsed), nil
	case grantdomain.ConsumeExpired:
		s.logAttempt(ctx, claims.UserID, claims.SessionID, presentedFingerprint, logdomain.StatusDenied, ReasonExpired)
		return redeemDenied(ReasonExpired), nil
	case grantdomain.ConsumeDeviceMismatch:
		s.logAttempt(ctx, claims.UserID, claims.SessionID, presentedFingerprint, logdomain.StatusDenied, ReasonWrongDevice)
		return redeemDenied(ReasonWrongDevice), nil
	}

	sess, err := s.sessions.GetByID(ctx, res.SessionID)
	if err != nil {
		s.logAttempt(ctx, res.UserID, res.SessionID, presentedFingerprint, logdomain.StatusDenied, reasonError)
		return nil, err
	}
	if sess == nil || sess.MeetingURL == "" {
		s.logAttempt(ctx, res.UserID, res.SessionID, presentedFingerprint, logdomain.StatusDenied, ReasonConfigurationError)
		return nil, ErrNoMeetingURL
	}

	s.logAttempt(ctx, res.UserID, res.SessionID, presentedFingerprint, logdomain.StatusSuccess, "")
	return &RedeemOutcome{MeetingURL: sess.MeetingURL, Title: sess.Title}, nil
}

func (s *AccessService) logAttempt(ctx context.Context, userID, sessionID, fingerprint string, status logdomain.AttemptStatus, reason string) {
	if s.attempts == nil {
		return
	}
	s.attempts.Append(ctx, logdomain.Attempt{
		UserID:            userID,
		SessionID:         sessionID,
		DeviceFingerprint: fingerprint,
		Status:            status,
		Reason:            reason,
	})
}

func issueDenied(d *Denial) *IssueOutcome {
	return &IssueOutcome{Denied: d}
}

func redeemDenied(reason string) *RedeemOutcome {
	return &RedeemOutcome{Denied: &Denial{Reason: reason, Message: denialMessage(reason)}}
}

// denialMessage maps a stable reason code to its human-readable message.
func denialMessage(reason string) string {
	switch reason {
	case ReasonEnrollmentMissing:
		return "purchase access or enroll in the course to join this session"
	case ReasonOutsideWindow:
		return "the session is not open for joining right now"
	case ReasonUsed:
		return "this access token has already been used"
	case ReasonExpired:
		return "this access token has expired"
	case ReasonWrongDevice:
		return "join from the device that requested access"
	case ReasonInvalidToken:
		return "the access token is not valid"
	case ReasonUnauthorized:
		return "user, session, and device fingerprint are required"
	default:
		return ""
	}
}
