package security

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const derivedKeyLen = 32

// ErrWeakSecret is returned when the configured secret is too short to derive keys from.
var ErrWeakSecret = errors.New("access token secret must be at least 32 bytes")

// KeySet holds the keys derived from the server-held secret: one for signing
// issued tokens and an independent one for hashing tokens in the ledger, so a
// ledger leak never exposes signing material.
type KeySet struct {
	SigningKey []byte
	HashingKey []byte
}

// DeriveKeys expands the master secret into the signing and hashing keys using
// HKDF-SHA256 with distinct info strings.
func DeriveKeys(secret string) (*KeySet, error) {
	if len(secret) < derivedKeyLen {
		return nil, ErrWeakSecret
	}
	signing, err := expand(secret, "lsg/token-signing/v1")
	if err != nil {
		return nil, err
	}
	hashing, err := expand(secret, "lsg/ledger-hashing/v1")
	if err != nil {
		return nil, err
	}
	return &KeySet{SigningKey: signing, HashingKey: hashing}, nil
}

func expand(secret, info string) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	key := make([]byte, derivedKeyLen)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}
