package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/runconnect/runconnect/internal/domain"
	"github.com/runconnect/runconnect/internal/session"
	"github.com/runconnect/runconnect/internal/xano"
	apperrors "github.com/runconnect/runconnect/pkg/errors"
)

func newRegistrationService(backend *mockBackend, sessions *session.Manager) *RegistrationService {
	return NewRegistrationService(backend, sessions, newTestEventProducer(), testLogger())
}

func TestRegistrationService_Register(t *testing.T) {
	backend := new(mockBackend)
	sessions := newTestSessions()
	svc := newRegistrationService(backend, sessions)

	sessionID := establish(t, sessions, runnerUser())

	max := 10
	rec := sampleEventRecord(17, 4)
	rec.MaxParticipants = &max

	backend.On("GetEvent", mock.Anything, int64(17), "backend-token").Return(rec, nil)
	backend.On("ListEventRegistrations", mock.Anything, int64(17), "backend-token").
		Return([]xano.RegistrationRecord{{ID: 1, EventsID: 17, RunnerID: 99}}, nil)
	backend.On("CreateRegistration", mock.Anything, int64(17), int64(42), "backend-token").
		Return(&xano.RegistrationRecord{ID: 2, EventsID: 17, RunnerID: 42}, nil)

	reg, err := svc.Register(context.Background(), sessionID, "17")
	require.NoError(t, err)
	assert.Equal(t, "2", reg.ID)
	assert.Equal(t, "17", reg.RunID)
	// Display data comes from the session snapshot, not the sparse echo.
	assert.Equal(t, "Kim", reg.UserName)
	assert.Equal(t, "runner@example.com", reg.UserEmail)
	assert.InDelta(t, 6.2, reg.UserPace, 1e-9)

	backend.AssertExpectations(t)
}

func TestRegistrationService_Register_Duplicate(t *testing.T) {
	backend := new(mockBackend)
	sessions := newTestSessions()
	svc := newRegistrationService(backend, sessions)

	sessionID := establish(t, sessions, runnerUser())

	backend.On("GetEvent", mock.Anything, int64(17), "backend-token").
		Return(sampleEventRecord(17, 4), nil)
	backend.On("ListEventRegistrations", mock.Anything, int64(17), "backend-token").
		Return([]xano.RegistrationRecord{{ID: 1, EventsID: 17, RunnerID: 42}}, nil)

	_, err := svc.Register(context.Background(), sessionID, "17")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRegistrationService_Register_EventFull(t *testing.T) {
	backend := new(mockBackend)
	sessions := newTestSessions()
	svc := newRegistrationService(backend, sessions)

	sessionID := establish(t, sessions, runnerUser())

	max := 2
	rec := sampleEventRecord(17, 4)
	rec.MaxParticipants = &max

	backend.On("GetEvent", mock.Anything, int64(17), "backend-token").Return(rec, nil)
	backend.On("ListEventRegistrations", mock.Anything, int64(17), "backend-token").
		Return([]xano.RegistrationRecord{
			{ID: 1, EventsID: 17, RunnerID: 98},
			{ID: 2, EventsID: 17, RunnerID: 99},
		}, nil)

	_, err := svc.Register(context.Background(), sessionID, "17")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRegistrationService_Register_CancelledSpotsReopen(t *testing.T) {
	backend := new(mockBackend)
	sessions := newTestSessions()
	svc := newRegistrationService(backend, sessions)

	sessionID := establish(t, sessions, runnerUser())

	max := 2
	rec := sampleEventRecord(17, 4)
	rec.MaxParticipants = &max

	backend.On("GetEvent", mock.Anything, int64(17), "backend-token").Return(rec, nil)
	backend.On("ListEventRegistrations", mock.Anything, int64(17), "backend-token").
		Return([]xano.RegistrationRecord{
			{ID: 1, EventsID: 17, RunnerID: 98},
			{ID: 2, EventsID: 17, RunnerID: 99, Status: domain.RegistrationCancelled},
		}, nil)
	backend.On("CreateRegistration", mock.Anything, int64(17), int64(42), "backend-token").
		Return(&xano.RegistrationRecord{ID: 3, EventsID: 17, RunnerID: 42}, nil)

	_, err := svc.Register(context.Background(), sessionID, "17")
	require.NoError(t, err)
}

func TestRegistrationService_Register_UnlimitedNeverFills(t *testing.T) {
	backend := new(mockBackend)
	sessions := newTestSessions()
	svc := newRegistrationService(backend, sessions)

	sessionID := establish(t, sessions, runnerUser())

	regs := make([]xano.RegistrationRecord, 500)
	for i := range regs {
		regs[i] = xano.RegistrationRecord{ID: int64(i + 1), EventsID: 17, RunnerID: int64(1000 + i)}
	}

	backend.On("GetEvent", mock.Anything, int64(17), "backend-token").
		Return(sampleEventRecord(17, 4), nil) // no MaxParticipants
	backend.On("ListEventRegistrations", mock.Anything, int64(17), "backend-token").
		Return(regs, nil)
	backend.On("CreateRegistration", mock.Anything, int64(17), int64(42), "backend-token").
		Return(&xano.RegistrationRecord{ID: 999, EventsID: 17, RunnerID: 42}, nil)

	_, err := svc.Register(context.Background(), sessionID, "17")
	require.NoError(t, err)
}

func TestRegistrationService_Register_BusinessForbidden(t *testing.T) {
	sessions := newTestSessions()
	svc := newRegistrationService(new(mockBackend), sessions)

	sessionID := establish(t, sessions, businessUser())

	_, err := svc.Register(context.Background(), sessionID, "17")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestRegistrationService_Cancel(t *testing.T) {
	backend := new(mockBackend)
	sessions := newTestSessions()
	svc := newRegistrationService(backend, sessions)

	sessionID := establish(t, sessions, runnerUser())

	backend.On("ListUserRegistrations", mock.Anything, int64(42), "backend-token").
		Return([]xano.RegistrationRecord{
			{ID: 5, EventsID: 16, RunnerID: 42},
			{ID: 6, EventsID: 17, RunnerID: 42},
		}, nil)
	backend.On("DeleteRegistration", mock.Anything, int64(6), "backend-token").
		Return(nil)

	require.NoError(t, svc.Cancel(context.Background(), sessionID, "17"))
	backend.AssertExpectations(t)
}

func TestRegistrationService_Cancel_NotRegistered(t *testing.T) {
	backend := new(mockBackend)
	sessions := newTestSessions()
	svc := newRegistrationService(backend, sessions)

	sessionID := establish(t, sessions, runnerUser())

	backend.On("ListUserRegistrations", mock.Anything, int64(42), "backend-token").
		Return([]xano.RegistrationRecord{}, nil)

	err := svc.Cancel(context.Background(), sessionID, "17")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRegistrationService_ListForEvent_OwnershipEnforced(t *testing.T) {
	backend := new(mockBackend)
	sessions := newTestSessions()
	svc := newRegistrationService(backend, sessions)

	sessionID := establish(t, sessions, businessUser())

	backend.On("GetEvent", mock.Anything, int64(17), "backend-token").
		Return(sampleEventRecord(17, 9), nil)

	_, err := svc.ListForEvent(context.Background(), sessionID, "17")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestRegistrationService_ListMine(t *testing.T) {
	backend := new(mockBackend)
	sessions := newTestSessions()
	svc := newRegistrationService(backend, sessions)

	sessionID := establish(t, sessions, runnerUser())

	backend.On("ListUserRegistrations", mock.Anything, int64(42), "backend-token").
		Return([]xano.RegistrationRecord{
			{ID: 5, EventsID: 16, RunnerID: 42},
			{ID: 6, EventsID: 17, RunnerID: 42},
		}, nil)

	regs, err := svc.ListMine(context.Background(), sessionID)
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, "16", regs[0].RunID)
	assert.Equal(t, "17", regs[1].RunID)
}

func TestRegistrationService_NoSession(t *testing.T) {
	svc := newRegistrationService(new(mockBackend), newTestSessions())

	_, err := svc.Register(context.Background(), "missing-session", "17")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
