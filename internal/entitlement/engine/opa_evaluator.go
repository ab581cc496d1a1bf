package engine

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/rs/zerolog/log"

	"live-session-gateway/internal/entitlement/domain"
	entrepo "live-session-gateway/internal/entitlement/repository"
)

const allowQuery = "data.lsg.entitlement.allow"

// Default Rego policy implementing the built-in entitlement rules: free
// sessions are open to everyone; pro/institutional/admin tiers have blanket
// access; otherwise a completed session payment or an active course enrollment
// is required.
const defaultRegoPolicy = `package lsg.entitlement

default allow = false

allow if {
	input.session.is_free
}

allow if {
	input.user.tier == "pro"
}

allow if {
	input.user.tier == "institutional"
}

allow if {
	input.user.tier == "admin"
}

allow if {
	input.payment.completed
}

allow if {
	input.enrollment.active
}
`

// OPAEvaluator evaluates entitlement policies using OPA Rego. Operators may
// store override policies in the policy repository; when none are enabled the
// embedded default policy is used.
type OPAEvaluator struct {
	policyRepo entrepo.PolicyRepository
}

// NewOPAEvaluator returns an OPA-based entitlement evaluator. policyRepo may be
// nil; then only the default policy is evaluated.
func NewOPAEvaluator(policyRepo entrepo.PolicyRepository) *OPAEvaluator {
	return &OPAEvaluator{policyRepo: policyRepo}
}

// HealthCheck verifies that the in-process OPA Rego engine can compile and
// evaluate the default policy. Does not touch the policy repo or database.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	modules := map[string]string{"policy_0.rego": defaultRegoPolicy}
	compiler, err := ast.CompileModules(modules)
	if err != nil {
		return fmt.Errorf("compile default policy: %w", err)
	}
	q := rego.New(
		rego.Query(allowQuery),
		rego.Compiler(compiler),
		rego.Input(buildInput(AccessInput{IsFree: true})),
	)
	rs, err := q.Eval(ctx)
	if err != nil {
		return fmt.Errorf("eval default policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return fmt.Errorf("policy query returned no result")
	}
	return nil
}

// EvaluateAccess evaluates the entitlement decision for the input facts.
// Compilation or evaluation failures fall back to the built-in rules.
func (e *OPAEvaluator) EvaluateAccess(ctx context.Context, input AccessInput) (AccessResult, error) {
	var policies []string
	if e.policyRepo != nil {
		enabled, err := e.policyRepo.GetEnabledPolicies(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("entitlement: failed to load policies")
		} else {
			for _, p := range enabled {
				if p.Enabled && p.Rules != "" {
					policies = append(policies, p.Rules)
				}
			}
		}
	}
	if len(policies) == 0 {
		policies = []string{defaultRegoPolicy}
	}

	allowed, err := evaluatePolicies(ctx, policies, buildInput(input))
	if err != nil {
		log.Warn().Err(err).Msg("entitlement: policy evaluation failed, using built-in rules")
		return AccessResult{Allowed: builtinAllow(input)}, nil
	}
	return AccessResult{Allowed: allowed}, nil
}

func buildInput(in AccessInput) map[string]interface{} {
	return map[string]interface{}{
		"session": map[string]interface{}{
			"id":       in.SessionID,
			"is_free":  in.IsFree,
			"price":    in.Price,
			"currency": in.Currency,
		},
		"user": map[string]interface{}{
			"tier": string(domain.NormalizeTier(in.Tier)),
		},
		"payment": map[string]interface{}{
			"completed": in.HasPayment,
		},
		"enrollment": map[string]interface{}{
			"active": in.HasActiveEnrollment,
		},
	}
}

func evaluatePolicies(ctx context.Context, policies []string, input map[string]interface{}) (bool, error) {
	modules := make(map[string]string)
	for i, policy := range policies {
		modules[fmt.Sprintf("policy_%d.rego", i)] = policy
	}
	compiler, err := ast.CompileModules(modules)
	if err != nil {
		return false, fmt.Errorf("compile policies: %w", err)
	}

	q := rego.New(
		rego.Query(allowQuery),
		rego.Compiler(compiler),
		rego.Input(input),
	)
	rs, err := q.Eval(ctx)
	if err != nil {
		return false, fmt.Errorf("eval policies: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, fmt.Errorf("policy query returned no result")
	}
	allowed, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("policy allow is not a boolean")
	}
	return allowed, nil
}

// builtinAllow mirrors the default policy in Go. Used when Rego evaluation
// fails so a broken override policy cannot take issuance down.
func builtinAllow(in AccessInput) bool {
	if in.IsFree {
		return true
	}
	if domain.NormalizeTier(in.Tier).BlanketAccess() {
		return true
	}
	return in.HasPayment || in.HasActiveEnrollment
}
