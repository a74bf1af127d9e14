package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/runconnect/runconnect/internal/domain"
	"github.com/runconnect/runconnect/internal/email"
	"github.com/runconnect/runconnect/internal/event"
	"github.com/runconnect/runconnect/internal/session"
	"github.com/runconnect/runconnect/internal/verification"
	"github.com/runconnect/runconnect/internal/xano"
	apperrors "github.com/runconnect/runconnect/pkg/errors"
)

// minPasswordLength is the minimum password length required at signup.
const minPasswordLength = 8

// AuthService implements the account lifecycle: signup, email verification,
// login, and logout. Accounts start inactive and only a consumed verification
// token activates them; login never yields a session for an inactive account.
type AuthService struct {
	backend  xano.Backend
	tokens   verification.Store
	sessions *session.Manager
	sender   email.Sender
	producer *event.Producer

	// frontendBaseURL is where verification links point; the token is a query
	// parameter consumed by the verify endpoint.
	frontendBaseURL string

	logger *slog.Logger
}

// NewAuthService creates an auth service.
func NewAuthService(
	backend xano.Backend,
	tokens verification.Store,
	sessions *session.Manager,
	sender email.Sender,
	producer *event.Producer,
	frontendBaseURL string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		backend:         backend,
		tokens:          tokens,
		sessions:        sessions,
		sender:          sender,
		producer:        producer,
		frontendBaseURL: frontendBaseURL,
		logger:          logger,
	}
}

// SignupInput holds the parameters for creating a new account.
type SignupInput struct {
	Email    string
	Password string
	Name     string
	Role     string

	// Business accounts only.
	Phone            string
	BusinessName     string
	BusinessLocation string
	Latitude         *float64
	Longitude        *float64
}

// SignupResult reports the outcome of a signup. No session is created:
// the account stays unusable until the verification link is opened.
type SignupResult struct {
	Email                string `json:"email"`
	RequiresVerification bool   `json:"requires_verification"`
}

// LoginResult is a successful authentication: the user snapshot and the
// access token the client presents on subsequent requests.
type LoginResult struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

// Signup creates an inactive account on the backend, issues a verification
// token, and emails the verification link. The steps run sequentially and the
// first failure aborts: an account without a deliverable verification email
// is worse than a retried signup.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*SignupResult, error) {
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if !domain.IsValidRole(input.Role) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("role must be one of %v", domain.ValidRoles()))
	}
	if input.Role == domain.RoleBusiness && input.BusinessName == "" {
		return nil, apperrors.InvalidInput("business name is required for business accounts")
	}

	req := xano.SignupRequest{
		Email:            input.Email,
		Password:         input.Password,
		Name:             input.Name,
		Role:             input.Role,
		Phone:            input.Phone,
		BusinessName:     input.BusinessName,
		BusinessLocation: input.BusinessLocation,
		IsActive:         false,
	}
	// When coordinates are known the backend stores the location as a
	// geometry point rather than free text.
	if input.Latitude != nil && input.Longitude != nil {
		req.BusinessLocation = xano.GeoPoint{Lat: *input.Latitude, Lng: *input.Longitude}.String()
	}

	resp, err := s.backend.Signup(ctx, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, apperrors.EmailAlreadyExists(input.Email)
		}
		return nil, fmt.Errorf("backend signup: %w", err)
	}

	user, err := s.resolveUser(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("resolve signed-up user: %w", err)
	}

	token, err := s.tokens.Generate(ctx, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}

	if err := s.sender.SendVerification(ctx, user.Email, s.verificationLink(token)); err != nil {
		return nil, fmt.Errorf("send verification email: %w", err)
	}

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user signed up, verification pending",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role),
	)

	return &SignupResult{Email: user.Email, RequiresVerification: true}, nil
}

// Login authenticates against the backend. An inactive account is rejected
// before any session exists: the backend credential obtained during the
// attempt is discarded, and the error carries the email so the client can
// offer to resend the verification link.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (*LoginResult, error) {
	if emailAddr == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if password == "" {
		return nil, apperrors.InvalidInput("password is required")
	}

	resp, err := s.backend.Login(ctx, emailAddr, password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, apperrors.ErrForbidden) {
			return nil, apperrors.InvalidCredentials()
		}
		return nil, fmt.Errorf("backend login: %w", err)
	}

	user, err := s.resolveUser(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("resolve logged-in user: %w", err)
	}

	if !user.IsActive {
		s.logger.InfoContext(ctx, "login blocked, email not verified",
			slog.String("user_id", user.ID),
		)
		return nil, apperrors.EmailNotVerified(user.Email)
	}

	accessToken, err := s.sessions.Establish(ctx, user, resp.AuthToken)
	if err != nil {
		return nil, fmt.Errorf("establish session: %w", err)
	}

	return &LoginResult{User: user, AccessToken: accessToken}, nil
}

// VerifyEmail consumes a verification token and activates the account.
// Consumption is single-use, so a replayed link fails cleanly after the
// first success.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, apperrors.TokenInvalidOrExpired()
	}

	identity, err := s.tokens.Consume(ctx, token)
	if err != nil {
		return nil, err
	}

	id, err := strconv.ParseInt(identity.UserID, 10, 64)
	if err != nil {
		return nil, apperrors.TokenInvalidOrExpired()
	}

	rec, err := s.backend.UpdateUser(ctx, id, map[string]any{"is_active": true}, "")
	if err != nil {
		return nil, fmt.Errorf("activate user: %w", err)
	}
	user := xano.UserFromRecord(rec)

	if err := s.producer.PublishUserVerified(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.verified event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "email verified",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// ResendVerification issues a fresh token for an unverified account and
// emails a new link. Earlier tokens stay valid until their own expiry.
func (s *AuthService) ResendVerification(ctx context.Context, emailAddr string) error {
	if emailAddr == "" {
		return apperrors.InvalidInput("email is required")
	}

	rec, err := s.backend.GetUserByEmail(ctx, emailAddr, "")
	if err != nil {
		return err
	}
	if rec.IsActive {
		return apperrors.InvalidInput("email is already verified")
	}

	user := xano.UserFromRecord(rec)
	token, err := s.tokens.Generate(ctx, user.ID, user.Email)
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}

	if err := s.sender.SendVerification(ctx, user.Email, s.verificationLink(token)); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}

	s.logger.InfoContext(ctx, "verification email resent",
		slog.String("user_id", user.ID),
	)
	return nil
}

// Logout destroys the session, dropping the user snapshot and the backend
// token together.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Destroy(ctx, sessionID)
}

// CurrentUser returns the user snapshot for an active session.
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (*domain.User, error) {
	rec, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return rec.User, nil
}

// resolveUser turns an auth response into a domain user, fetching the profile
// when the backend returned only a token.
func (s *AuthService) resolveUser(ctx context.Context, resp *xano.AuthResponse) (*domain.User, error) {
	rec := resp.User
	if rec == nil {
		var err error
		rec, err = s.backend.Me(ctx, resp.AuthToken)
		if err != nil {
			return nil, err
		}
	}
	return xano.UserFromRecord(rec), nil
}

func (s *AuthService) verificationLink(token string) string {
	return s.frontendBaseURL + "/verify-email?token=" + url.QueryEscape(token)
}
