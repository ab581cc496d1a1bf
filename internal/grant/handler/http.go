// Package handler exposes the access token lifecycle over HTTP/JSON.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"live-session-gateway/internal/device"
	"live-session-gateway/internal/grant/service"
)

// AccessService is the slice of the grant service the handler needs.
type AccessService interface {
	IssueAccess(ctx context.Context, userID, sessionID, deviceFingerprint string) (*service.IssueOutcome, error)
	RedeemAccess(ctx context.Context, token, presentedFingerprint string) (*service.RedeemOutcome, error)
}

// AbuseReporter surfaces the denied-attempt heuristic.
type AbuseReporter interface {
	IsSuspicious(ctx context.Context, userID string) (bool, error)
}

// AccessHandler serves the access token endpoints.
type AccessHandler struct {
	svc   AccessService
	abuse AbuseReporter
}

// NewAccessHandler returns an AccessHandler backed by the given service.
func NewAccessHandler(svc AccessService, abuse AbuseReporter) *AccessHandler {
	return &AccessHandler{svc: svc, abuse: abuse}
}

// Register mounts the access routes on the router.
func (h *AccessHandler) Register(r *mux.Router) {
	r.HandleFunc("/v1/access/tokens", h.IssueToken).Methods(http.MethodPost)
	r.HandleFunc("/v1/access/redeem", h.Redeem).Methods(http.MethodPost)
	r.HandleFunc("/v1/access/abuse/{user_id}", h.AbuseStatus).Methods(http.MethodGet)
}

// deviceSignals are raw client signals used to derive a fingerprint when the
// client does not compute one itself.
type deviceSignals struct {
	UserAgent string `json:"user_agent"`
	Screen    string `json:"screen"`
	Timezone  string `json:"timezone"`
}

func (s *deviceSignals) empty() bool {
	return s == nil || (s.UserAgent == "" && s.Screen == "" && s.Timezone == "")
}

type issueTokenRequest struct {
	UserID            string         `json:"user_id"`
	SessionID         string         `json:"session_id"`
	DeviceFingerprint string         `json:"device_fingerprint"`
	Signals           *deviceSignals `json:"signals,omitempty"`
}

type issueTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type redeemRequest struct {
	Token             string         `json:"token"`
	DeviceFingerprint string         `json:"device_fingerprint"`
	Signals           *deviceSignals `json:"signals,omitempty"`
}

type redeemResponse struct {
	MeetingURL string `json:"meeting_url"`
	Title      string `json:"title,omitempty"`
}

type abuseResponse struct {
	UserID     string `json:"user_id"`
	Suspicious bool   `json:"suspicious"`
}

type errorBody struct {
	Reason   string `json:"reason"`
	Message  string `json:"message"`
	Price    int64  `json:"price,omitempty"`
	Currency string `json:"currency,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// IssueToken handles POST /v1/access/tokens.
func (h *AccessHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Reason: "bad_request", Message: "invalid JSON body"})
		return
	}
	fp := resolveFingerprint(req.DeviceFingerprint, req.Signals)

	out, err := h.svc.IssueAccess(r.Context(), req.UserID, req.SessionID, fp)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if out.Denied != nil {
		writeDenial(w, out.Denied)
		return
	}
	writeJSON(w, http.StatusOK, issueTokenResponse{
		Token:     out.Token,
		ExpiresAt: out.ExpiresAt.Format(time.RFC3339),
	})
}

// Redeem handles POST /v1/access/redeem.
func (h *AccessHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Reason: "bad_request", Message: "invalid JSON body"})
		return
	}
	fp := resolveFingerprint(req.DeviceFingerprint, req.Signals)

	out, err := h.svc.RedeemAccess(r.Context(), req.Token, fp)
	if err != nil {
		if errors.Is(err, service.ErrNoMeetingURL) {
			writeError(w, http.StatusInternalServerError, errorBody{
				Reason:  service.ReasonConfigurationError,
				Message: "the session is not configured for joining; contact support",
			})
			return
		}
		writeInternalError(w, r, err)
		return
	}
	if out.Denied != nil {
		writeDenial(w, out.Denied)
		return
	}
	writeJSON(w, http.StatusOK, redeemResponse{MeetingURL: out.MeetingURL, Title: out.Title})
}

// AbuseStatus handles GET /v1/access/abuse/{user_id}.
func (h *AccessHandler) AbuseStatus(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	if userID == "" {
		writeError(w, http.StatusBadRequest, errorBody{Reason: "bad_request", Message: "user_id is required"})
		return
	}
	suspicious, err := h.abuse.IsSuspicious(r.Context(), userID)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, abuseResponse{UserID: userID, Suspicious: suspicious})
}

// resolveFingerprint prefers a client-computed fingerprint and falls back to
// deriving one from raw signals.
func resolveFingerprint(fp string, signals *deviceSignals) string {
	if fp != "" {
		return fp
	}
	if signals.empty() {
		return ""
	}
	return device.FingerprintFromSignals(signals.UserAgent, signals.Screen, signals.Timezone)
}

// writeDenial maps a denial reason to its HTTP status. enrollment_missing is
// 402 so clients can branch straight into a purchase flow; every other denial
// is 403.
func writeDenial(w http.ResponseWriter, d *service.Denial) {
	status := http.StatusForbidden
	if d.Reason == service.ReasonEnrollmentMissing {
		status = http.StatusPaymentRequired
	}
	writeError(w, status, errorBody{
		Reason:   d.Reason,
		Message:  d.Message,
		Price:    d.Price,
		Currency: d.Currency,
	})
}

func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).Str("path", r.URL.Path).Msg("access: request failed")
	writeError(w, http.StatusInternalServerError, errorBody{
		Reason:  "internal_error",
		Message: "something went wrong; try again",
	})
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	writeJSON(w, status, errorResponse{Error: body})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("access: failed to encode response")
	}
}
