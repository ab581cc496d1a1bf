package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Decode errors. The service maps all three to the invalid_token denial; they
// stay distinct for logging.
var (
	// ErrMalformed is returned when a presented token is not decodable at all.
	ErrMalformed = errors.New("malformed token")
	// ErrInvalidSignature is returned when the signature does not verify.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrClaimsExpired is returned when the embedded expiry has passed.
	ErrClaimsExpired = errors.New("token claims expired")
)

// GrantClaims is the signed claim set embedded in an access token.
type GrantClaims struct {
	jwt.RegisteredClaims
	UserID            string `json:"user_id"`
	SessionID         string `json:"session_id"`
	DeviceFingerprint string `json:"device_fp"`
	EnrollmentRef     string `json:"enrollment_ref,omitempty"`
}

// Codec encodes and decodes signed, expiring access tokens using HS256.
// It is stateless: single-use and device binding are ledger concerns layered on
// top, because signed claims alone are replayable.
type Codec struct {
	signingKey []byte
	issuer     string
}

// NewCodec returns a Codec that signs with the key set's signing key.
func NewCodec(keys *KeySet, issuer string) *Codec {
	return &Codec{signingKey: keys.SigningKey, issuer: issuer}
}

// Encode signs the claim set with an embedded expiry of now + ttl and returns
// the opaque token string.
func (c *Codec) Encode(userID, sessionID, deviceFingerprint, enrollmentRef string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := GrantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:            userID,
		SessionID:         sessionID,
		DeviceFingerprint: deviceFingerprint,
		EnrollmentRef:     enrollmentRef,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.signingKey)
}

// Decode verifies the signature and embedded expiry and returns the claims.
// Returns ErrInvalidSignature, ErrClaimsExpired, or ErrMalformed.
func (c *Codec) Decode(tokenString string) (*GrantClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &GrantClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return c.signingKey, nil
	}, jwt.WithIssuer(c.issuer))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrClaimsExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformed
		}
	}
	claims, ok := token.Claims.(*GrantClaims)
	if !ok || !token.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}
