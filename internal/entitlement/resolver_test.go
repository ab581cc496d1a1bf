package entitlement

import (
	"context"
	"sync"
	"testing"
	"time"

	"live-session-gateway/internal/entitlement/domain"
	"live-session-gateway/internal/entitlement/engine"
	sessiondomain "live-session-gateway/internal/livesession/domain"
)

type memFactsRepo struct {
	mu          sync.Mutex
	tiers       map[string]string
	payments    map[string]bool // userID + "/" + sessionID
	enrollments map[string]*domain.Enrollment
}

func newMemFactsRepo() *memFactsRepo {
	return &memFactsRepo{
		tiers:       map[string]string{},
		payments:    map[string]bool{},
		enrollments: map[string]*domain.Enrollment{},
	}
}

func (r *memFactsRepo) GetTier(ctx context.Context, userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tiers[userID], nil
}

func (r *memFactsRepo) HasCompletedPayment(ctx context.Context, userID, sessionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payments[userID+"/"+sessionID], nil
}

func (r *memFactsRepo) GetActiveEnrollment(ctx context.Context, userID, courseID string, now time.Time) (*domain.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.enrollments[userID+"/"+courseID]
	if e == nil || !e.ActiveAt(now) {
		return nil, nil
	}
	return e, nil
}

func paidSession() *sessiondomain.Session {
	return &sessiondomain.Session{
		ID:       "s1",
		Price:    10000,
		Currency: "TZS",
		CourseID: "c1",
		Status:   sessiondomain.StatusScheduled,
	}
}

func newResolver(repo *memFactsRepo) *Resolver {
	return NewResolver(repo, engine.NewOPAEvaluator(nil))
}

func TestResolve_FreeSession(t *testing.T) {
	r := newResolver(newMemFactsRepo())
	d, err := r.Resolve(context.Background(), "u1", &sessiondomain.Session{ID: "s1", IsFree: true}, time.Now())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !d.Entitled {
		t.Error("free session should entitle unconditionally")
	}
}

func TestResolve_TierAccess(t *testing.T) {
	for _, tier := range []string{"pro", "institutional", "admin", "PRO", "Admin"} {
		repo := newMemFactsRepo()
		repo.tiers["u1"] = tier
		d, err := newResolver(repo).Resolve(context.Background(), "u1", paidSession(), time.Now())
		if err != nil {
			t.Fatalf("Resolve(%s): %v", tier, err)
		}
		if !d.Entitled {
			t.Errorf("tier %q should entitle", tier)
		}
	}
}

func TestResolve_Payment(t *testing.T) {
	repo := newMemFactsRepo()
	repo.tiers["u1"] = "free"
	repo.payments["u1/s1"] = true
	d, err := newResolver(repo).Resolve(context.Background(), "u1", paidSession(), time.Now())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !d.Entitled {
		t.Error("completed payment should entitle")
	}
}

func TestResolve_Enrollment(t *testing.T) {
	repo := newMemFactsRepo()
	repo.enrollments["u1/c1"] = &domain.Enrollment{ID: "e1", UserID: "u1", CourseID: "c1"}
	d, err := newResolver(repo).Resolve(context.Background(), "u1", paidSession(), time.Now())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !d.Entitled {
		t.Error("active enrollment should entitle")
	}
	if d.EnrollmentRef != "e1" {
		t.Errorf("EnrollmentRef = %q, want e1", d.EnrollmentRef)
	}
}

func TestResolve_ExpiredEnrollment(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	repo := newMemFactsRepo()
	repo.enrollments["u1/c1"] = &domain.Enrollment{ID: "e1", UserID: "u1", CourseID: "c1", ExpiresAt: &past}
	d, err := newResolver(repo).Resolve(context.Background(), "u1", paidSession(), time.Now())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if d.Entitled {
		t.Error("expired enrollment should not entitle")
	}
}

func TestResolve_DeniedCarriesPrice(t *testing.T) {
	d, err := newResolver(newMemFactsRepo()).Resolve(context.Background(), "u1", paidSession(), time.Now())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if d.Entitled {
		t.Fatal("should be denied")
	}
	if d.Reason != ReasonEnrollmentMissing {
		t.Errorf("Reason = %q, want %q", d.Reason, ReasonEnrollmentMissing)
	}
	if d.Price != 10000 || d.Currency != "TZS" {
		t.Errorf("Price/Currency = %d/%q, want 10000/TZS", d.Price, d.Currency)
	}
}
