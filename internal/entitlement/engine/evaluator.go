package engine

import "context"

// AccessInput is the fact set the entitlement policy is evaluated against.
// Facts are gathered fresh on every issuance call; nothing here is cached.
type AccessInput struct {
	SessionID           string
	IsFree              bool
	Price               int64
	Currency            string
	Tier                string
	HasPayment          bool
	HasActiveEnrollment bool
}

// AccessResult holds the result of entitlement policy evaluation.
type AccessResult struct {
	Allowed bool
}

// Evaluator evaluates entitlement policies using OPA or other engines.
type Evaluator interface {
	// EvaluateAccess decides whether the input facts entitle the user to the
	// session. Evaluation failures fall back to the built-in rules; an error is
	// returned only when even the fallback cannot run.
	EvaluateAccess(ctx context.Context, input AccessInput) (AccessResult, error)
}
