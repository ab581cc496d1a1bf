// Package health serves the liveness/readiness endpoint.
package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// PolicyChecker verifies the entitlement policy engine can compile and
// evaluate its policy set.
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler reports service health: database reachability and policy engine
// sanity.
type Handler struct {
	db     *sql.DB
	policy PolicyChecker
}

// NewHandler returns a health Handler. Either dependency may be nil; nil
// dependencies are reported as "disabled" rather than failing the check.
func NewHandler(db *sql.DB, policy PolicyChecker) *Handler {
	return &Handler{db: db, policy: policy}
}

// Register mounts the health route on the router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Healthz handles GET /healthz. Returns 200 when all enabled checks pass and
// 503 otherwise.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			log.Warn().Err(err).Msg("health: database ping failed")
			checks["database"] = "unreachable"
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "disabled"
	}

	if h.policy != nil {
		if err := h.policy.HealthCheck(ctx); err != nil {
			log.Warn().Err(err).Msg("health: policy engine check failed")
			checks["policy_engine"] = "failing"
			healthy = false
		} else {
			checks["policy_engine"] = "ok"
		}
	} else {
		checks["policy_engine"] = "disabled"
	}

	status := http.StatusOK
	body := healthResponse{Status: "ok", Checks: checks}
	if !healthy {
		status = http.StatusServiceUnavailable
		body.Status = "degraded"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("health: failed to encode response")
	}
}
