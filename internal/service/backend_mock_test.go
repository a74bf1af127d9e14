package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/runconnect/runconnect/internal/domain"
	"github.com/runconnect/runconnect/internal/event"
	"github.com/runconnect/runconnect/internal/geocode"
	"github.com/runconnect/runconnect/internal/session"
	"github.com/runconnect/runconnect/internal/xano"
	pkgkafka "github.com/runconnect/runconnect/pkg/kafka"
)

// --- Mock Backend ---

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) Login(ctx context.Context, email, password string) (*xano.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*xano.AuthResponse), args.Error(1)
}

func (m *mockBackend) Signup(ctx context.Context, req xano.SignupRequest) (*xano.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*xano.AuthResponse), args.Error(1)
}

func (m *mockBackend) Me(ctx context.Context, token string) (*xano.UserRecord, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*xano.UserRecord), args.Error(1)
}

func (m *mockBackend) GetUser(ctx context.Context, id int64, token string) (*xano.UserRecord, error) {
	args := m.Called(ctx, id, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*xano.UserRecord), args.Error(1)
}

func (m *mockBackend) GetUserByEmail(ctx context.Context, email, token string) (*xano.UserRecord, error) {
	args := m.Called(ctx, email, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*xano.UserRecord), args.Error(1)
}

func (m *mockBackend) UpdateUser(ctx context.Context, id int64, patch map[string]any, token string) (*xano.UserRecord, error) {
	args := m.Called(ctx, id, patch, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*xano.UserRecord), args.Error(1)
}

func (m *mockBackend) ListEvents(ctx context.Context, token string) ([]xano.EventRecord, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]xano.EventRecord), args.Error(1)
}

func (m *mockBackend) ListBusinessEvents(ctx context.Context, businessID int64, token string) ([]xano.EventRecord, error) {
	args := m.Called(ctx, businessID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]xano.EventRecord), args.Error(1)
}

func (m *mockBackend) GetEvent(ctx context.Context, id int64, token string) (*xano.EventRecord, error) {
	args := m.Called(ctx, id, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*xano.EventRecord), args.Error(1)
}

func (m *mockBackend) CreateEvent(ctx context.Context, rec *xano.EventRecord, token string) (*xano.EventRecord, error) {
	args := m.Called(ctx, rec, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*xano.EventRecord), args.Error(1)
}

func (m *mockBackend) UpdateEvent(ctx context.Context, id int64, patch any, token string) (*xano.EventRecord, error) {
	args := m.Called(ctx, id, patch, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*xano.EventRecord), args.Error(1)
}

func (m *mockBackend) DeleteEvent(ctx context.Context, id int64, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *mockBackend) ListEventRegistrations(ctx context.Context, eventID int64, token string) ([]xano.RegistrationRecord, error) {
	args := m.Called(ctx, eventID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]xano.RegistrationRecord), args.Error(1)
}

func (m *mockBackend) ListUserRegistrations(ctx context.Context, runnerID int64, token string) ([]xano.RegistrationRecord, error) {
	args := m.Called(ctx, runnerID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]xano.RegistrationRecord), args.Error(1)
}

func (m *mockBackend) CreateRegistration(ctx context.Context, eventID, runnerID int64, token string) (*xano.RegistrationRecord, error) {
	args := m.Called(ctx, eventID, runnerID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*xano.RegistrationRecord), args.Error(1)
}

func (m *mockBackend) DeleteRegistration(ctx context.Context, id int64, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *mockBackend) ListBusinessPosts(ctx context.Context, businessID int64, token string) ([]xano.PostRecord, error) {
	args := m.Called(ctx, businessID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]xano.PostRecord), args.Error(1)
}

func (m *mockBackend) CreateBusinessPost(ctx context.Context, rec *xano.PostRecord, token string) (*xano.PostRecord, error) {
	args := m.Called(ctx, rec, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*xano.PostRecord), args.Error(1)
}

func (m *mockBackend) UpdateBusinessPost(ctx context.Context, id int64, patch any, token string) (*xano.PostRecord, error) {
	args := m.Called(ctx, id, patch, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*xano.PostRecord), args.Error(1)
}

func (m *mockBackend) DeleteBusinessPost(ctx context.Context, id int64, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

// --- Mock email sender ---

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendVerification(ctx context.Context, recipient, verificationLink string) error {
	args := m.Called(ctx, recipient, verificationLink)
	return args.Error(0)
}

// --- Mock geocoder ---

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (*geocode.Result, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geocode.Result), args.Error(1)
}

// --- Mock uploader ---

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) UploadEventImage(ctx context.Context, eventID, filename, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, eventID, filename, contentType, data)
	return args.String(0), args.Error(1)
}

// --- Shared test fixtures ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestSessions() *session.Manager {
	signer := session.NewTokenSigner("test-secret-at-least-32-chars-long!!", time.Hour)
	return session.NewManager(session.NewMemoryStore(), signer, time.Hour, testLogger())
}

func newTestEventProducer() *event.Producer {
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, testLogger()))
}

// establish creates a live session and returns its ID.
func establish(t *testing.T, sessions *session.Manager, user *domain.User) string {
	t.Helper()
	token, err := sessions.Establish(context.Background(), user, "backend-token")
	if err != nil {
		t.Fatalf("establish session: %v", err)
	}
	claims, err := sessions.Signer().Validate(token)
	if err != nil {
		t.Fatalf("validate session token: %v", err)
	}
	return claims.SessionID
}
