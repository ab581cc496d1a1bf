package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// TokenHasher produces the irreversible digest under which issued tokens are
// stored in the ledger. The raw token is never persisted.
type TokenHasher struct {
	key []byte
}

// NewTokenHasher returns a TokenHasher keyed with the key set's hashing key.
func NewTokenHasher(keys *KeySet) *TokenHasher {
	return &TokenHasher{key: keys.HashingKey}
}

// Hash returns a hex-encoded HMAC-SHA256 of the token string.
func (h *TokenHasher) Hash(token string) string {
	m := hmac.New(sha256.New, h.key)
	m.Write([]byte(token))
	return hex.EncodeToString(m.Sum(nil))
}

// FingerprintEqual performs constant-time comparison of two device
// fingerprints. Fingerprints are a heuristic (user agent + screen + timezone),
// not a cryptographic identity proof; the constant-time compare only avoids
// leaking match position through timing.
func FingerprintEqual(presented, bound string) bool {
	return subtle.ConstantTimeCompare([]byte(presented), []byte(bound)) == 1
}
