package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the session token lifetime when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

var (
	ErrMalformed        = errors.New("token is malformed")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token has expired")
)

// Claims is the identity assertion carried inside a token. It is
// created at issuance and read-only afterwards; authenticity is
// enforced by the HMAC signature, not by convention.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 session tokens. All operations are
// pure CPU work with no I/O; the clock is injectable for tests.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token embedding the identity plus issued-at and
// expiry. The same identity issued at different times yields
// different tokens.
func (c *Codec) Issue(id string, email string, name string) (string, error) {
	now := c.now()
	claims := Claims{
		UserID: id,
		Email:  email,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks structural shape, signature and expiration, in that
// order, short-circuiting on the first failure. Side-effect-free.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	if !IsStructurallyValid(tokenString) {
		return nil, ErrMalformed
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	default:
		return nil, fmt.Errorf("verify token: %w", err)
	}
}

// DecodeUnverified parses the payload WITHOUT checking the signature.
// The result is forgeable and must never be used for authorization
// decisions; it exists only for best-effort inspection (expiry, id)
// where the caller tolerates invalid signatures.
func (c *Codec) DecodeUnverified(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrMalformed
	}
	return claims, nil
}

// IsExpired reports temporal validity only. It fails open to
// "expired" on any decode error or missing expiry rather than
// returning an error.
func (c *Codec) IsExpired(tokenString string) bool {
	claims, err := c.DecodeUnverified(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Before(c.now())
}

// ExtractIdentifier reads the subject id from the unverified payload.
// Returns "" on any decode failure. Same trust caveat as
// DecodeUnverified: suitable for rate-limit keys, never for access.
func (c *Codec) ExtractIdentifier(tokenString string) string {
	claims, err := c.DecodeUnverified(tokenString)
	if err != nil {
		return ""
	}
	return claims.UserID
}

// IsStructurallyValid reports whether the string has the compact JWT
// shape: exactly three non-empty dot-separated segments. It says
// nothing about the signature or expiry.
func IsStructurallyValid(tokenString string) bool {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
	}
	return true
}
