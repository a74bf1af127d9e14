// Package verification manages single-use email verification tokens.
//
// Tokens prove control of an email address during account activation. A token
// is valid for consumption iff it has not been used and has not outlived its
// TTL; consumption succeeds exactly once. The store must be durable and
// shared across processes: the verification link is opened in a different
// browser context than the one that triggered signup, so process-local state
// cannot work. The Redis implementation is the production store; the memory
// implementation serves tests and single-node development.
package verification

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// TokenTTL is how long a verification token stays redeemable.
const TokenTTL = 24 * time.Hour

// tokenBytes gives 256 bits of entropy, enough that collision handling is
// unnecessary.
const tokenBytes = 32

// Identity is the subject a token was issued for.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Store issues and redeems verification tokens.
type Store interface {
	// Generate creates a token for the given subject with the standard TTL
	// and returns the opaque token string.
	Generate(ctx context.Context, userID, email string) (string, error)

	// Consume redeems a token, marking it used. It returns the associated
	// identity on the first call and fails on every later call: with a
	// token-already-used error if the token was redeemed, or an
	// invalid-or-expired error if it is unknown or past its TTL.
	Consume(ctx context.Context, token string) (*Identity, error)
}

// newToken returns a fresh high-entropy token string.
func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
