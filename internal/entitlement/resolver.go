// Package entitlement decides whether a user may obtain access to a live
// session: by subscription tier, by session-scoped payment, or by course
// enrollment. Facts are re-evaluated on every issuance call; entitlement can
// change between a page load and the join attempt.
package entitlement

import (
	"context"
	"time"

	"live-session-gateway/internal/entitlement/domain"
	"live-session-gateway/internal/entitlement/engine"
	entrepo "live-session-gateway/internal/entitlement/repository"
	sessiondomain "live-session-gateway/internal/livesession/domain"
)

// ReasonEnrollmentMissing is the stable denial reason for a user with no
// qualifying subscription, payment, or enrollment.
const ReasonEnrollmentMissing = "enrollment_missing"

// Resolver gathers entitlement facts and evaluates them through the policy engine.
type Resolver struct {
	facts  entrepo.Repository
	engine engine.Evaluator
}

// NewResolver returns a Resolver over the given fact repository and policy engine.
func NewResolver(facts entrepo.Repository, eng engine.Evaluator) *Resolver {
	return &Resolver{facts: facts, engine: eng}
}

// Resolve decides entitlement for the (user, session) pair at now.
// A denied decision carries the session's price and currency so the caller can
// offer a one-time purchase. Errors are infrastructure faults only; a plain
// "not entitled" is a decision, not an error.
func (r *Resolver) Resolve(ctx context.Context, userID string, session *sessiondomain.Session, now time.Time) (domain.Decision, error) {
	tier, err := r.facts.GetTier(ctx, userID)
	if err != nil {
		return domain.Decision{}, err
	}

	hasPayment := false
	if !session.IsFree {
		hasPayment, err = r.facts.HasCompletedPayment(ctx, userID, session.ID)
		if err != nil {
			return domain.Decision{}, err
		}
	}

	var enrollment *domain.Enrollment
	if session.CourseID != "" {
		enrollment, err = r.facts.GetActiveEnrollment(ctx, userID, session.CourseID, now)
		if err != nil {
			return domain.Decision{}, err
		}
	}

	res, err := r.engine.EvaluateAccess(ctx, engine.AccessInput{
		SessionID:           session.ID,
		IsFree:              session.IsFree,
		Price:               session.Price,
		Currency:            session.Currency,
		Tier:                tier,
		HasPayment:          hasPayment,
		HasActiveEnrollment: enrollment != nil,
	})
	if err != nil {
		return domain.Decision{}, err
	}

	if !res.Allowed {
		return domain.Decision{
			Reason:   ReasonEnrollmentMissing,
			Price:    session.Price,
			Currency: session.Currency,
		}, nil
	}

	d := domain.Decision{Entitled: true}
	if enrollment != nil {
		d.EnrollmentRef = enrollment.ID
	}
	return d, nil
}
