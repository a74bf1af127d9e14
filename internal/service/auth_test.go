package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/runconnect/runconnect/internal/domain"
	"github.com/runconnect/runconnect/internal/verification"
	"github.com/runconnect/runconnect/internal/xano"
	apperrors "github.com/runconnect/runconnect/pkg/errors"
)

const testFrontendURL = "https://app.runconnect.test"

func newAuthService(backend *mockBackend, sender *mockSender, tokens verification.Store) *AuthService {
	return NewAuthService(
		backend,
		tokens,
		newTestSessions(),
		sender,
		newTestEventProducer(),
		testFrontendURL,
		testLogger(),
	)
}

func runnerRecord(active bool) *xano.UserRecord {
	return &xano.UserRecord{
		ID:       42,
		Email:    "runner@example.com",
		Name:     "Kim",
		Role:     domain.RoleRunner,
		IsActive: active,
	}
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()
	backend := new(mockBackend)
	sender := new(mockSender)
	tokens := verification.NewMemoryStore()
	svc := newAuthService(backend, sender, tokens)

	backend.On("Signup", mock.Anything, mock.MatchedBy(func(req xano.SignupRequest) bool {
		return req.Email == "runner@example.com" && !req.IsActive
	})).Return(&xano.AuthResponse{AuthToken: "xano-token", User: runnerRecord(false)}, nil)

	var sentLink string
	sender.On("SendVerification", mock.Anything, "runner@example.com", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { sentLink = args.String(2) }).
		Return(nil)

	result, err := svc.Signup(ctx, SignupInput{
		Email:    "runner@example.com",
		Password: "password123",
		Name:     "Kim",
		Role:     domain.RoleRunner,
	})
	require.NoError(t, err)
	assert.True(t, result.RequiresVerification)
	assert.Equal(t, "runner@example.com", result.Email)

	// The emailed link carries a consumable token.
	require.True(t, strings.HasPrefix(sentLink, testFrontendURL+"/verify-email?token="))
	token := strings.TrimPrefix(sentLink, testFrontendURL+"/verify-email?token=")
	identity, err := tokens.Consume(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "42", identity.UserID)

	backend.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc := newAuthService(new(mockBackend), new(mockSender), verification.NewMemoryStore())

	tests := []struct {
		name  string
		input SignupInput
	}{
		{"missing email", SignupInput{Password: "password123", Name: "Kim", Role: domain.RoleRunner}},
		{"short password", SignupInput{Email: "a@b.c", Password: "short", Name: "Kim", Role: domain.RoleRunner}},
		{"missing name", SignupInput{Email: "a@b.c", Password: "password123", Role: domain.RoleRunner}},
		{"bad role", SignupInput{Email: "a@b.c", Password: "password123", Name: "Kim", Role: "admin"}},
		{"business without name", SignupInput{Email: "a@b.c", Password: "password123", Name: "Kim", Role: domain.RoleBusiness}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestAuthService_Signup_EmailConflict(t *testing.T) {
	backend := new(mockBackend)
	svc := newAuthService(backend, new(mockSender), verification.NewMemoryStore())

	backend.On("Signup", mock.Anything, mock.Anything).
		Return(nil, apperrors.Conflict("email already in use"))

	_, err := svc.Signup(context.Background(), SignupInput{
		Email:    "runner@example.com",
		Password: "password123",
		Name:     "Kim",
		Role:     domain.RoleRunner,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "EMAIL_ALREADY_EXISTS", appErr.Code)
}

func TestAuthService_Signup_EmailSendFailureAborts(t *testing.T) {
	backend := new(mockBackend)
	sender := new(mockSender)
	svc := newAuthService(backend, sender, verification.NewMemoryStore())

	backend.On("Signup", mock.Anything, mock.Anything).
		Return(&xano.AuthResponse{AuthToken: "xano-token", User: runnerRecord(false)}, nil)
	sender.On("SendVerification", mock.Anything, mock.Anything, mock.Anything).
		Return(assert.AnError)

	_, err := svc.Signup(context.Background(), SignupInput{
		Email:    "runner@example.com",
		Password: "password123",
		Name:     "Kim",
		Role:     domain.RoleRunner,
	})
	assert.Error(t, err)
}

func TestAuthService_Signup_BusinessLocationAsPoint(t *testing.T) {
	backend := new(mockBackend)
	sender := new(mockSender)
	svc := newAuthService(backend, sender, verification.NewMemoryStore())

	backend.On("Signup", mock.Anything, mock.MatchedBy(func(req xano.SignupRequest) bool {
		return req.BusinessLocation == "POINT(4.9 52.37)"
	})).Return(&xano.AuthResponse{AuthToken: "t", User: &xano.UserRecord{
		ID: 7, Email: "host@example.com", Role: domain.RoleBusiness, BusinessName: "Canal Runners",
	}}, nil)
	sender.On("SendVerification", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	lat, lng := 52.37, 4.9
	_, err := svc.Signup(context.Background(), SignupInput{
		Email:            "host@example.com",
		Password:         "password123",
		Name:             "Anna",
		Role:             domain.RoleBusiness,
		BusinessName:     "Canal Runners",
		BusinessLocation: "Amsterdam",
		Latitude:         &lat,
		Longitude:        &lng,
	})
	require.NoError(t, err)
	backend.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	backend := new(mockBackend)
	svc := newAuthService(backend, new(mockSender), verification.NewMemoryStore())

	backend.On("Login", mock.Anything, "runner@example.com", "password123").
		Return(&xano.AuthResponse{AuthToken: "xano-token", User: runnerRecord(true)}, nil)

	result, err := svc.Login(context.Background(), "runner@example.com", "password123")
	require.NoError(t, err)
	require.NotNil(t, result.User)
	assert.Equal(t, "42", result.User.ID)
	require.NotEmpty(t, result.AccessToken)

	// The access token resolves to a live session holding the user snapshot.
	claims, err := svc.sessions.Signer().Validate(result.AccessToken)
	require.NoError(t, err)
	user, err := svc.CurrentUser(context.Background(), claims.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "runner@example.com", user.Email)
}

func TestAuthService_Login_TokenOnlyResponse(t *testing.T) {
	backend := new(mockBackend)
	svc := newAuthService(backend, new(mockSender), verification.NewMemoryStore())

	// Older backend shape: bare token, user fetched separately.
	backend.On("Login", mock.Anything, "runner@example.com", "password123").
		Return(&xano.AuthResponse{AuthToken: "xano-token"}, nil)
	backend.On("Me", mock.Anything, "xano-token").
		Return(runnerRecord(true), nil)

	result, err := svc.Login(context.Background(), "runner@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Kim", result.User.Name)
	backend.AssertExpectations(t)
}

func TestAuthService_Login_UnverifiedEmailGetsNoSession(t *testing.T) {
	backend := new(mockBackend)
	svc := newAuthService(backend, new(mockSender), verification.NewMemoryStore())

	backend.On("Login", mock.Anything, "runner@example.com", "password123").
		Return(&xano.AuthResponse{AuthToken: "xano-token", User: runnerRecord(false)}, nil)

	result, err := svc.Login(context.Background(), "runner@example.com", "password123")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrEmailNotVerified)

	// The error carries the email so the client can offer a resend.
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "EMAIL_NOT_VERIFIED", appErr.Code)
	assert.Equal(t, "runner@example.com", appErr.Email)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	backend := new(mockBackend)
	svc := newAuthService(backend, new(mockSender), verification.NewMemoryStore())

	backend.On("Login", mock.Anything, "runner@example.com", "wrong").
		Return(nil, apperrors.Unauthorized("invalid credentials"))

	_, err := svc.Login(context.Background(), "runner@example.com", "wrong")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_CREDENTIALS", appErr.Code)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	ctx := context.Background()
	backend := new(mockBackend)
	tokens := verification.NewMemoryStore()
	svc := newAuthService(backend, new(mockSender), tokens)

	token, err := tokens.Generate(ctx, "42", "runner@example.com")
	require.NoError(t, err)

	backend.On("UpdateUser", mock.Anything, int64(42), map[string]any{"is_active": true}, "").
		Return(runnerRecord(true), nil)

	user, err := svc.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.True(t, user.IsActive)

	// The link is single-use.
	_, err = svc.VerifyEmail(ctx, token)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTokenUsed)

	backend.AssertExpectations(t)
}

func TestAuthService_VerifyEmail_UnknownToken(t *testing.T) {
	svc := newAuthService(new(mockBackend), new(mockSender), verification.NewMemoryStore())

	_, err := svc.VerifyEmail(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = svc.VerifyEmail(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestAuthService_ResendVerification(t *testing.T) {
	backend := new(mockBackend)
	sender := new(mockSender)
	tokens := verification.NewMemoryStore()
	svc := newAuthService(backend, sender, tokens)

	backend.On("GetUserByEmail", mock.Anything, "runner@example.com", "").
		Return(runnerRecord(false), nil)
	sender.On("SendVerification", mock.Anything, "runner@example.com", mock.AnythingOfType("string")).
		Return(nil)

	require.NoError(t, svc.ResendVerification(context.Background(), "runner@example.com"))
	backend.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestAuthService_ResendVerification_AlreadyVerified(t *testing.T) {
	backend := new(mockBackend)
	svc := newAuthService(backend, new(mockSender), verification.NewMemoryStore())

	backend.On("GetUserByEmail", mock.Anything, "runner@example.com", "").
		Return(runnerRecord(true), nil)

	err := svc.ResendVerification(context.Background(), "runner@example.com")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAuthService_Logout(t *testing.T) {
	backend := new(mockBackend)
	svc := newAuthService(backend, new(mockSender), verification.NewMemoryStore())

	backend.On("Login", mock.Anything, "runner@example.com", "password123").
		Return(&xano.AuthResponse{AuthToken: "xano-token", User: runnerRecord(true)}, nil)

	result, err := svc.Login(context.Background(), "runner@example.com", "password123")
	require.NoError(t, err)

	claims, err := svc.sessions.Signer().Validate(result.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims.SessionID))

	_, err = svc.CurrentUser(context.Background(), claims.SessionID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
