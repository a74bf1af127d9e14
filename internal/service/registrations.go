package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/runconnect/runconnect/internal/domain"
	"github.com/runconnect/runconnect/internal/event"
	"github.com/runconnect/runconnect/internal/session"
	"github.com/runconnect/runconnect/internal/xano"
	apperrors "github.com/runconnect/runconnect/pkg/errors"
)

// RegistrationService implements runner sign-ups for events.
type RegistrationService struct {
	backend  xano.Backend
	sessions *session.Manager
	producer *event.Producer
	logger   *slog.Logger
}

// NewRegistrationService creates a registration service.
func NewRegistrationService(
	backend xano.Backend,
	sessions *session.Manager,
	producer *event.Producer,
	logger *slog.Logger,
) *RegistrationService {
	return &RegistrationService{
		backend:  backend,
		sessions: sessions,
		producer: producer,
		logger:   logger,
	}
}

// Register signs the session's runner up for an event. Duplicate sign-ups
// and sign-ups for a full event are rejected; unlimited events never fill.
func (s *RegistrationService) Register(ctx context.Context, sessionID, eventID string) (*domain.RunRegistration, error) {
	rec, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if rec.User.IsBusiness() {
		return nil, apperrors.Forbidden("business accounts cannot register for events")
	}
	runnerID, err := parseID(rec.User.ID, "user")
	if err != nil {
		return nil, err
	}
	evID, err := parseID(eventID, "event")
	if err != nil {
		return nil, err
	}

	evRec, err := s.backend.GetEvent(ctx, evID, rec.BackendToken)
	if err != nil {
		return nil, err
	}

	regs, err := s.backend.ListEventRegistrations(ctx, evID, rec.BackendToken)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	confirmed := 0
	for i := range regs {
		if regs[i].Status != "" && regs[i].Status != domain.RegistrationConfirmed {
			continue
		}
		if regs[i].RunnerID == runnerID {
			return nil, apperrors.Conflict("already registered for this event")
		}
		confirmed++
	}
	if evRec.MaxParticipants != nil && confirmed >= *evRec.MaxParticipants {
		return nil, apperrors.Conflict("event is full")
	}

	created, err := s.backend.CreateRegistration(ctx, evID, runnerID, rec.BackendToken)
	if err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}
	reg := xano.RegistrationFromRecord(created)
	// The backend echo omits the nested user object on create.
	reg.UserName = rec.User.Name
	reg.UserEmail = rec.User.Email
	if rec.User.RunnerDetails != nil {
		reg.UserPace = rec.User.RunnerDetails.Pace
	}

	if err := s.producer.PublishRegistrationCreated(ctx, reg); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish registration.created event",
			slog.String("registration_id", reg.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "runner registered",
		slog.String("event_id", eventID),
		slog.String("user_id", rec.User.ID),
	)
	return reg, nil
}

// Cancel withdraws the session's runner from an event.
func (s *RegistrationService) Cancel(ctx context.Context, sessionID, eventID string) error {
	rec, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return err
	}
	runnerID, err := parseID(rec.User.ID, "user")
	if err != nil {
		return err
	}
	evID, err := parseID(eventID, "event")
	if err != nil {
		return err
	}

	regs, err := s.backend.ListUserRegistrations(ctx, runnerID, rec.BackendToken)
	if err != nil {
		return fmt.Errorf("list registrations: %w", err)
	}

	var target *xano.RegistrationRecord
	for i := range regs {
		if regs[i].EventsID == evID {
			target = &regs[i]
			break
		}
	}
	if target == nil {
		return apperrors.NotFound("registration", eventID)
	}

	if err := s.backend.DeleteRegistration(ctx, target.ID, rec.BackendToken); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}

	reg := xano.RegistrationFromRecord(target)
	if err := s.producer.PublishRegistrationCancelled(ctx, reg); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish registration.cancelled event",
			slog.String("registration_id", reg.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "registration cancelled",
		slog.String("event_id", eventID),
		slog.String("user_id", rec.User.ID),
	)
	return nil
}

// ListForEvent returns an event's roster. Only the hosting business may view
// it.
func (s *RegistrationService) ListForEvent(ctx context.Context, sessionID, eventID string) ([]*domain.RunRegistration, error) {
	rec, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	evID, err := parseID(eventID, "event")
	if err != nil {
		return nil, err
	}

	evRec, err := s.backend.GetEvent(ctx, evID, rec.BackendToken)
	if err != nil {
		return nil, err
	}
	if strconv.FormatInt(evRec.BusinessID, 10) != rec.User.ID {
		return nil, apperrors.Forbidden("event belongs to another host")
	}

	regs, err := s.backend.ListEventRegistrations(ctx, evID, rec.BackendToken)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return toRegistrations(regs), nil
}

// ListMine returns the session runner's registrations.
func (s *RegistrationService) ListMine(ctx context.Context, sessionID string) ([]*domain.RunRegistration, error) {
	rec, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	runnerID, err := parseID(rec.User.ID, "user")
	if err != nil {
		return nil, err
	}

	regs, err := s.backend.ListUserRegistrations(ctx, runnerID, rec.BackendToken)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return toRegistrations(regs), nil
}

func toRegistrations(recs []xano.RegistrationRecord) []*domain.RunRegistration {
	out := make([]*domain.RunRegistration, 0, len(recs))
	for i := range recs {
		out = append(out, xano.RegistrationFromRecord(&recs[i]))
	}
	return out
}
