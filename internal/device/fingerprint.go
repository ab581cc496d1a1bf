// Package device derives a stable device fingerprint from client-reported
// signals. The fingerprint is a heuristic identity, not a proof; spoofing it
// requires knowing the original signals.
package device

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// FingerprintFromSignals hashes the user agent, screen resolution, and
// timezone into a stable hex digest. Signals are lowercased and trimmed so
// cosmetic differences do not produce a new device identity.
func FingerprintFromSignals(userAgent, screen, timezone string) string {
	h := sha256.New()
	for _, s := range []string{userAgent, screen, timezone} {
		h.Write([]byte(strings.ToLower(strings.TrimSpace(s))))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
