package device

import "testing"

func TestFingerprintStability(t *testing.T) {
	a := FingerprintFromSignals("Mozilla/5.0", "1920x1080", "Africa/Dar_es_Salaam")
	b := FingerprintFromSignals(" mozilla/5.0 ", "1920X1080", "africa/dar_es_salaam")
	if a != b {
		t.Fatal("cosmetic signal differences should not change the fingerprint")
	}
}

func TestFingerprintDistinguishesSignals(t *testing.T) {
	a := FingerprintFromSignals("Mozilla/5.0", "1920x1080", "UTC")
	b := FingerprintFromSignals("Mozilla/5.0", "1366x768", "UTC")
	if a == b {
		t.Fatal("different screens should produce different fingerprints")
	}
}

func TestFingerprintFieldBoundaries(t *testing.T) {
	// A separator between signals prevents "ab"+"c" colliding with "a"+"bc".
	a := FingerprintFromSignals("ab", "c", "")
	b := FingerprintFromSignals("a", "bc", "")
	if a == b {
		t.Fatal("signal concatenation must be boundary-safe")
	}
}
