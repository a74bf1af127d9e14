package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/runconnect/runconnect/internal/xano"
	apperrors "github.com/runconnect/runconnect/pkg/errors"
)

func TestPostService_ListByBusiness(t *testing.T) {
	backend := new(mockBackend)
	svc := NewPostService(backend, newTestSessions(), testLogger())

	backend.On("ListBusinessPosts", mock.Anything, int64(4), "").
		Return([]xano.PostRecord{
			{ID: 1, BusinessID: 4, Title: "Winter training plan", Content: "..."},
			{ID: 2, BusinessID: 4, Title: "New route", Content: "..."},
		}, nil)

	posts, err := svc.ListByBusiness(context.Background(), "4")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Winter training plan", posts[0].Title)
}

func TestPostService_ListByBusiness_DegradesToEmpty(t *testing.T) {
	backend := new(mockBackend)
	svc := NewPostService(backend, newTestSessions(), testLogger())

	backend.On("ListBusinessPosts", mock.Anything, int64(4), "").
		Return(nil, assert.AnError)

	posts, err := svc.ListByBusiness(context.Background(), "4")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostService_Create(t *testing.T) {
	backend := new(mockBackend)
	sessions := newTestSessions()
	svc := NewPostService(backend, sessions, testLogger())

	sessionID := establish(t, sessions, businessUser())

	backend.On("CreateBusinessPost", mock.Anything, mock.MatchedBy(func(rec *xano.PostRecord) bool {
		return rec.BusinessID == 4 && rec.BusinessName == "Canal Runners"
	}), "backend-token").Return(&xano.PostRecord{
		ID: 9, BusinessID: 4, Title: "Hello", Content: "First post",
	}, nil)

	post, err := svc.Create(context.Background(), sessionID, PostInput{Title: "Hello", Content: "First post"})
	require.NoError(t, err)
	assert.Equal(t, "9", post.ID)
	backend.AssertExpectations(t)
}

func TestPostService_Create_RunnerForbidden(t *testing.T) {
	sessions := newTestSessions()
	svc := NewPostService(new(mockBackend), sessions, testLogger())

	sessionID := establish(t, sessions, runnerUser())

	_, err := svc.Create(context.Background(), sessionID, PostInput{Title: "Hello", Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestPostService_Create_Validation(t *testing.T) {
	sessions := newTestSessions()
	svc := NewPostService(new(mockBackend), sessions, testLogger())
	sessionID := establish(t, sessions, businessUser())

	_, err := svc.Create(context.Background(), sessionID, PostInput{Content: "no title"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Create(context.Background(), sessionID, PostInput{Title: "no content"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestPostService_Update_OwnershipEnforced(t *testing.T) {
	backend := new(mockBackend)
	sessions := newTestSessions()
	svc := NewPostService(backend, sessions, testLogger())

	sessionID := establish(t, sessions, businessUser())

	// The author's feed does not contain post 99.
	backend.On("ListBusinessPosts", mock.Anything, int64(4), "backend-token").
		Return([]xano.PostRecord{{ID: 1, BusinessID: 4}}, nil)

	_, err := svc.Update(context.Background(), sessionID, "99", PostInput{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostService_Delete(t *testing.T) {
	backend := new(mockBackend)
	sessions := newTestSessions()
	svc := NewPostService(backend, sessions, testLogger())

	sessionID := establish(t, sessions, businessUser())

	backend.On("ListBusinessPosts", mock.Anything, int64(4), "backend-token").
		Return([]xano.PostRecord{{ID: 9, BusinessID: 4}}, nil)
	backend.On("DeleteBusinessPost", mock.Anything, int64(9), "backend-token").
		Return(nil)

	require.NoError(t, svc.Delete(context.Background(), sessionID, "9"))
	backend.AssertExpectations(t)
}
