package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runconnect/runconnect/internal/domain"
	"github.com/runconnect/runconnect/internal/session"
	"github.com/runconnect/runconnect/internal/xano"
	apperrors "github.com/runconnect/runconnect/pkg/errors"
)

// UserService implements profile reads and edits. After an edit the session
// snapshot is refreshed in place so the next request sees the new profile
// without a backend round-trip.
type UserService struct {
	backend  xano.Backend
	sessions *session.Manager
	logger   *slog.Logger
}

// NewUserService creates a user service.
func NewUserService(backend xano.Backend, sessions *session.Manager, logger *slog.Logger) *UserService {
	return &UserService{backend: backend, sessions: sessions, logger: logger}
}

// ProfileInput holds the editable profile fields. Nil pointers leave the
// current value untouched.
type ProfileInput struct {
	Name *string

	// Runner profile.
	Pace            *float64
	ExperienceLevel *string
	Goals           *string

	// Business profile.
	BusinessName        *string
	BusinessLocation    *string
	BusinessPhone       *string
	BusinessDescription *string
	BusinessLatitude    *float64
	BusinessLongitude   *float64
	Website             *string
	Instagram           *string
	Facebook            *string
	Twitter             *string
	LinkedIn            *string
}

// GetPublicProfile returns another user's profile, as shown on host pages.
func (s *UserService) GetPublicProfile(ctx context.Context, userID string) (*domain.User, error) {
	id, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}
	rec, err := s.backend.GetUser(ctx, id, "")
	if err != nil {
		return nil, err
	}
	return xano.UserFromRecord(rec), nil
}

// UpdateProfile patches the session user's profile and refreshes the session
// snapshot.
func (s *UserService) UpdateProfile(ctx context.Context, sessionID string, input ProfileInput) (*domain.User, error) {
	rec, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	id, err := parseID(rec.User.ID, "user")
	if err != nil {
		return nil, err
	}

	patch := buildProfilePatch(rec.User, input)
	if len(patch) == 0 {
		return nil, apperrors.InvalidInput("no fields to update")
	}

	updated, err := s.backend.UpdateUser(ctx, id, patch, rec.BackendToken)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	user := xano.UserFromRecord(updated)

	if err := s.sessions.SetUser(ctx, sessionID, user); err != nil {
		s.logger.WarnContext(ctx, "failed to refresh session after profile update",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "profile updated", slog.String("user_id", user.ID))
	return user, nil
}

// buildProfilePatch maps the set fields into the backend's column names,
// restricted to the columns the user's role owns.
func buildProfilePatch(u *domain.User, input ProfileInput) map[string]any {
	patch := map[string]any{}
	if input.Name != nil {
		patch["name"] = *input.Name
	}

	if u.IsBusiness() {
		setStr := func(col string, v *string) {
			if v != nil {
				patch[col] = *v
			}
		}
		setStr("business_name", input.BusinessName)
		setStr("business_location", input.BusinessLocation)
		setStr("business_phone", input.BusinessPhone)
		setStr("business_description", input.BusinessDescription)
		setStr("website", input.Website)
		setStr("instagram", input.Instagram)
		setStr("facebook", input.Facebook)
		setStr("twitter", input.Twitter)
		setStr("linkedin", input.LinkedIn)
		if input.BusinessLatitude != nil {
			patch["business_latitude"] = *input.BusinessLatitude
		}
		if input.BusinessLongitude != nil {
			patch["business_longitude"] = *input.BusinessLongitude
		}
		return patch
	}

	if input.Pace != nil {
		patch["pace"] = *input.Pace
	}
	if input.ExperienceLevel != nil {
		patch["experience_level"] = *input.ExperienceLevel
	}
	if input.Goals != nil {
		patch["goals"] = *input.Goals
	}
	return patch
}
