package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims for a session access token. The token identifies
// a server-side session record; the user snapshot itself lives in the session
// store, not in the token.
type Claims struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// TokenSigner signs and validates session access tokens.
type TokenSigner struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewTokenSigner creates a signer with the given secret and token lifetime.
func NewTokenSigner(secret string, expiry time.Duration) *TokenSigner {
	return &TokenSigner{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

// WithClock replaces the signer's clock, for tests.
func (s *TokenSigner) WithClock(now func() time.Time) *TokenSigner {
	s.now = now
	return s
}

// Sign creates a signed session token.
func (s *TokenSigner) Sign(sessionID, userID, role string) (string, error) {
	now := s.now().UTC()
	claims := &Claims{
		SessionID: sessionID,
		UserID:    userID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			Issuer:    "runconnect",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a session token, returning its claims.
func (s *TokenSigner) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid session token claims")
	}
	return claims, nil
}
