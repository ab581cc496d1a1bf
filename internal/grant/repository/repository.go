package repository

import (
	"context"
	"errors"
	"time"

	"live-session-gateway/internal/grant/domain"
)

// ErrDuplicateToken is returned by Record when a ledger row already exists for
// the token hash. With a keyed 256-bit digest this is cryptographically
// near-impossible; treat it as fatal and log-worthy.
var ErrDuplicateToken = errors.New("duplicate token hash")

// Repository is the durable single-use ledger keyed by token hash.
type Repository interface {
	// Record inserts a fresh unused ledger row.
	Record(ctx context.Context, g *domain.Grant) error
	// ConsumeIfUnused atomically marks the grant used if and only if it exists,
	// is unused, is unexpired, and the presented fingerprint matches the bound
	// one. Two concurrent callers racing on the same hash yield exactly one
	// ConsumeValid; the rest see ConsumeAlreadyUsed. A fingerprint mismatch
	// leaves the row unused.
	ConsumeIfUnused(ctx context.Context, tokenHash, presentedFingerprint string, now time.Time) (domain.ConsumeResult, error)
}
