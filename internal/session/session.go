// Package session holds the server-side login session: the current user
// snapshot and the backend bearer token, stored together and cleared
// together. The manager is an explicitly constructed object with injected
// dependencies rather than package-level state, so tests can run it against
// a memory store and a fixed clock.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/runconnect/runconnect/internal/domain"
	apperrors "github.com/runconnect/runconnect/pkg/errors"
)

// Record is the persisted session snapshot. BackendToken is the bearer token
// issued by the external backend; it never reaches the browser.
type Record struct {
	User         *domain.User `json:"user"`
	BackendToken string       `json:"backend_token"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Store persists session records.
type Store interface {
	Save(ctx context.Context, id string, rec *Record, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
}

// Manager creates, reads, and destroys login sessions.
type Manager struct {
	store  Store
	signer *TokenSigner
	ttl    time.Duration
	logger *slog.Logger
}

// NewManager creates a session manager.
func NewManager(store Store, signer *TokenSigner, ttl time.Duration, logger *slog.Logger) *Manager {
	return &Manager{store: store, signer: signer, ttl: ttl, logger: logger}
}

// Establish creates a session for a verified user and returns the signed
// access token the client will present on subsequent requests. Concurrent
// establishes are independent sessions; the store is last-write-wins per
// session ID.
func (m *Manager) Establish(ctx context.Context, user *domain.User, backendToken string) (string, error) {
	id := uuid.New().String()
	rec := &Record{
		User:         user,
		BackendToken: backendToken,
		CreatedAt:    time.Now().UTC(),
	}

	if err := m.store.Save(ctx, id, rec, m.ttl); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	token, err := m.signer.Sign(id, user.ID, user.Role)
	if err != nil {
		// Roll back the orphaned record; it would never be referenced.
		_ = m.store.Delete(ctx, id)
		return "", err
	}

	m.logger.InfoContext(ctx, "session established",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role),
	)
	return token, nil
}

// Current returns the session record for the given session ID. A missing or
// corrupt record reads as anonymous, surfaced as an unauthorized error.
func (m *Manager) Current(ctx context.Context, sessionID string) (*Record, error) {
	rec, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Unauthorized("no active session")
	}
	return rec, nil
}

// SetUser replaces the user snapshot in an existing session, leaving the
// backend token untouched. Used after profile edits; no backend round-trip.
func (m *Manager) SetUser(ctx context.Context, sessionID string, user *domain.User) error {
	rec, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return apperrors.Unauthorized("no active session")
	}
	rec.User = user
	if err := m.store.Save(ctx, sessionID, rec, m.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Destroy removes the session: user snapshot and backend token go together,
// so a logged-out session can never leak a live backend credential.
func (m *Manager) Destroy(ctx context.Context, sessionID string) error {
	if err := m.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.logger.InfoContext(ctx, "session destroyed", slog.String("session_id", sessionID))
	return nil
}

// Signer exposes the token signer for the auth middleware's validator hook.
func (m *Manager) Signer() *TokenSigner {
	return m.signer
}
