package security

import (
	"strings"
	"testing"
	"time"
)

func testCodec(t *testing.T) *Codec {
	t.Helper()
	keys, err := DeriveKeys(strings.Repeat("k", 32))
	if err != nil {
		t.Fatalf("DeriveKeys: %v", err)
	}
	return NewCodec(keys, "lsg-test")
}

func TestCodec_RoundTrip(t *testing.T) {
	c := testCodec(t)
	token, err := c.Encode("user-1", "session-1", "fp-abc", "enr-9", time.Minute)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	claims, err := c.Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if claims.UserID != "user-1" || claims.SessionID != "session-1" {
		t.Errorf("claims = %s/%s, want user-1/session-1", claims.UserID, claims.SessionID)
	}
	if claims.DeviceFingerprint != "fp-abc" {
		t.Errorf("DeviceFingerprint = %q, want fp-abc", claims.DeviceFingerprint)
	}
	if claims.EnrollmentRef != "enr-9" {
		t.Errorf("EnrollmentRef = %q, want enr-9", claims.EnrollmentRef)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > time.Minute {
		t.Error("embedded expiry should be at most now+ttl")
	}
}

func TestCodec_Expired(t *testing.T) {
	c := testCodec(t)
	token, err := c.Encode("user-1", "session-1", "fp", "", -time.Minute)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := c.Decode(token); err != ErrClaimsExpired {
		t.Fatalf("Decode(expired) err = %v, want ErrClaimsExpired", err)
	}
}

func TestCodec_Tampered(t *testing.T) {
	c := testCodec(t)
	token, err := c.Encode("user-1", "session-1", "fp", "", time.Minute)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// Flip a character in the signature segment.
	i := strings.LastIndex(token, ".") + 1
	tampered := token[:i] + flip(token[i:])
	if _, err := c.Decode(tampered); err != ErrInvalidSignature {
		t.Fatalf("Decode(tampered) err = %v, want ErrInvalidSignature", err)
	}
}

func TestCodec_WrongKey(t *testing.T) {
	c := testCodec(t)
	keys, err := DeriveKeys(strings.Repeat("x", 32))
	if err != nil {
		t.Fatalf("DeriveKeys: %v", err)
	}
	other := NewCodec(keys, "lsg-test")
	token, err := c.Encode("user-1", "session-1", "fp", "", time.Minute)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := other.Decode(token); err != ErrInvalidSignature {
		t.Fatalf("Decode(wrong key) err = %v, want ErrInvalidSignature", err)
	}
}

func TestCodec_Malformed(t *testing.T) {
	c := testCodec(t)
	for _, bad := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		if _, err := c.Decode(bad); err != ErrMalformed {
			t.Errorf("Decode(%q) err = %v, want ErrMalformed", bad, err)
		}
	}
}

func flip(s string) string {
	b := []byte(s)
	if b[0] == 'A' {
		b[0] = 'B'
	} else {
		b[0] = 'A'
	}
	return string(b)
}
