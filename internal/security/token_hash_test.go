package security

import (
	"strings"
	"testing"
)

func TestTokenHasher_Hash(t *testing.T) {
	keys, err := DeriveKeys(strings.Repeat("k", 32))
	if err != nil {
		t.Fatalf("DeriveKeys: %v", err)
	}
	h := NewTokenHasher(keys)

	a := h.Hash("token-a")
	if a == "" || a == "token-a" {
		t.Fatalf("Hash returned %q", a)
	}
	if a != h.Hash("token-a") {
		t.Error("Hash must be deterministic")
	}
	if a == h.Hash("token-b") {
		t.Error("different tokens must hash differently")
	}

	otherKeys, err := DeriveKeys(strings.Repeat("x", 32))
	if err != nil {
		t.Fatalf("DeriveKeys: %v", err)
	}
	if a == NewTokenHasher(otherKeys).Hash("token-a") {
		t.Error("hash must depend on the derived key")
	}
}

func TestFingerprintEqual(t *testing.T) {
	if !FingerprintEqual("fp-1", "fp-1") {
		t.Error("equal fingerprints should match")
	}
	if FingerprintEqual("fp-1", "fp-2") {
		t.Error("different fingerprints should not match")
	}
	if FingerprintEqual("fp-1", "") {
		t.Error("empty bound fingerprint should not match")
	}
}
