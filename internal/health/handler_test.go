package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

type stubPolicy struct{ err error }

func (s *stubPolicy) HealthCheck(context.Context) error { return s.err }

func TestHealthzAllDisabled(t *testing.T) {
	r := mux.NewRouter()
	NewHandler(nil, nil).Register(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Checks["database"] != "disabled" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestHealthzPolicyFailure(t *testing.T) {
	r := mux.NewRouter()
	NewHandler(nil, &stubPolicy{err: errors.New("compile failed")}).Register(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "degraded" || resp.Checks["policy_engine"] != "failing" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}
