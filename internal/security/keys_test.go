package security

import (
	"bytes"
	"strings"
	"testing"
)

func TestDeriveKeys(t *testing.T) {
	secret := strings.Repeat("s", 32)
	keys, err := DeriveKeys(secret)
	if err != nil {
		t.Fatalf("DeriveKeys: %v", err)
	}
	if len(keys.SigningKey) != 32 || len(keys.HashingKey) != 32 {
		t.Fatalf("derived key lengths = %d/%d, want 32/32", len(keys.SigningKey), len(keys.HashingKey))
	}
	if bytes.Equal(keys.SigningKey, keys.HashingKey) {
		t.Error("signing and hashing keys must be independent")
	}

	again, err := DeriveKeys(secret)
	if err != nil {
		t.Fatalf("DeriveKeys (second): %v", err)
	}
	if !bytes.Equal(keys.SigningKey, again.SigningKey) {
		t.Error("derivation must be deterministic for the same secret")
	}
}

func TestDeriveKeys_WeakSecret(t *testing.T) {
	if _, err := DeriveKeys("short"); err != ErrWeakSecret {
		t.Fatalf("DeriveKeys(short) err = %v, want ErrWeakSecret", err)
	}
}
