// Package auth provides session-token issuance/verification, password
// hashing, and the request-level auth gate.
//
// Sessions are stateless: the signed token carries the user identity and an
// expiry, so no session record is stored server-side. The flip side is that
// there is no revocation list — a leaked token stays valid until it expires,
// which is why the lifetime is kept to one hour.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Validate for any token that fails
// verification: bad signature, wrong secret, malformed payload, wrong
// issuer, or past expiry. Callers only need the one sentinel — every
// failure maps to the same 401.
var ErrInvalidToken = errors.New("auth: invalid token")

// tokenTTL is the fixed session lifetime.
const tokenTTL = time.Hour

const issuer = "devconnect"

// TokenService signs and verifies session tokens with a shared HMAC secret.
// It is the only component that inspects signatures; everything else treats
// tokens as opaque strings.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService. A missing or short secret is a
// deployment mistake, not a runtime condition, so it fails construction.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the token payload. The user identity travels in the standard
// "sub" claim; everything else is the registered expiry/issued-at set.
type claims struct {
	jwt.RegisteredClaims
}

// Generate issues a session token for userID with the fixed one-hour TTL.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, tokenTTL)
}

// GenerateWithDuration issues a token with a custom lifetime. Used by tests
// to mint already-expired tokens; production code goes through Generate.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns the userID it
// carries.
//
// jwt.WithValidMethods pins the algorithm to HS256 so a token claiming
// alg "none" (or an RSA variant) is rejected before the signature check —
// the classic algorithm-confusion attack.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	if c.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return c.Subject, nil
}
