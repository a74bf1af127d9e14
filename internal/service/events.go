package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/runconnect/runconnect/internal/domain"
	"github.com/runconnect/runconnect/internal/event"
	"github.com/runconnect/runconnect/internal/geocode"
	"github.com/runconnect/runconnect/internal/session"
	"github.com/runconnect/runconnect/internal/storage"
	"github.com/runconnect/runconnect/internal/xano"
	apperrors "github.com/runconnect/runconnect/pkg/errors"
)

// EventService implements event hosting, discovery, and registration.
// Participant counts are always recomputed from live registrations; the
// stored record's count is never trusted.
type EventService struct {
	backend  xano.Backend
	sessions *session.Manager
	geocoder geocode.Geocoder
	uploader storage.Uploader
	producer *event.Producer
	logger   *slog.Logger
}

// NewEventService creates an event service.
func NewEventService(
	backend xano.Backend,
	sessions *session.Manager,
	geocoder geocode.Geocoder,
	uploader storage.Uploader,
	producer *event.Producer,
	logger *slog.Logger,
) *EventService {
	return &EventService{
		backend:  backend,
		sessions: sessions,
		geocoder: geocoder,
		uploader: uploader,
		producer: producer,
		logger:   logger,
	}
}

// ImageUpload is an optional event image attached at creation time.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// EventInput holds the host-supplied fields for creating or updating an
// event. Date is YYYY-MM-DD, Time is HH:MM, pace is minutes per kilometer.
type EventInput struct {
	Title             string
	Description       string
	Date              string
	Time              string
	Location          string
	Address           string
	Distance          float64
	Pace              float64
	MaxParticipants   *int
	Tags              []string
	WhatsAppGroupLink string
	Latitude          *float64
	Longitude         *float64

	Image *ImageUpload
}

// Create publishes a new event hosted by the session's business. Geocoding
// of the address and the image upload are both best-effort: a created event
// without coordinates or a cover image is still a valid event.
func (s *EventService) Create(ctx context.Context, sessionID string, input EventInput) (*domain.RunEvent, error) {
	rec, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	host := rec.User
	if !host.IsBusiness() {
		return nil, apperrors.Forbidden("only business accounts can host events")
	}
	hostID, err := strconv.ParseInt(host.ID, 10, 64)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("malformed host id %q", host.ID))
	}

	if input.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if input.Date == "" || input.Time == "" {
		return nil, apperrors.InvalidInput("date and time are required")
	}
	if input.Distance <= 0 {
		return nil, apperrors.InvalidInput("distance must be positive")
	}
	if input.Pace <= 0 {
		return nil, apperrors.InvalidInput("pace must be positive")
	}
	if input.MaxParticipants != nil && *input.MaxParticipants < 1 {
		return nil, apperrors.InvalidInput("max participants must be at least 1")
	}

	ev := &domain.RunEvent{
		Title:             input.Title,
		Description:       input.Description,
		Date:              input.Date,
		Time:              input.Time,
		Location:          input.Location,
		Address:           input.Address,
		Distance:          input.Distance,
		Pace:              input.Pace,
		MaxParticipants:   input.MaxParticipants,
		Tags:              input.Tags,
		WhatsAppGroupLink: input.WhatsAppGroupLink,
		Latitude:          input.Latitude,
		Longitude:         input.Longitude,
		HostName:          hostBusinessName(host),
	}

	// Resolve coordinates from the address when the host did not pin them.
	if ev.Latitude == nil && input.Address != "" {
		if res, err := s.geocoder.Geocode(ctx, input.Address); err != nil {
			s.logger.WarnContext(ctx, "geocoding failed, creating event without coordinates",
				slog.String("address", input.Address),
				slog.String("error", err.Error()),
			)
		} else if res != nil {
			ev.Latitude = &res.Lat
			ev.Longitude = &res.Lng
		}
	}

	payload, err := xano.EventToRecord(ev, hostID, hostBusinessName(host))
	if err != nil {
		return nil, apperrors.InvalidInput("invalid event date or time")
	}

	created, err := s.backend.CreateEvent(ctx, payload, rec.BackendToken)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	result := xano.EventFromRecord(created)

	if input.Image != nil {
		// Best-effort: the event exists with or without a cover image.
		if url, err := s.uploadImage(ctx, rec.BackendToken, created.ID, input.Image); err != nil {
			s.logger.ErrorContext(ctx, "event image upload failed",
				slog.String("event_id", result.ID),
				slog.String("error", err.Error()),
			)
		} else {
			result.ImageURL = url
		}
	}

	if err := s.producer.PublishEventCreated(ctx, result); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish event.created event",
			slog.String("event_id", result.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "event created",
		slog.String("event_id", result.ID),
		slog.String("host_id", host.ID),
	)
	return result, nil
}

// AttachImage replaces an event's cover image. Only the hosting business may
// call it.
func (s *EventService) AttachImage(ctx context.Context, sessionID, id string, img *ImageUpload) (string, error) {
	rec, eventID, _, err := s.ownedEvent(ctx, sessionID, id)
	if err != nil {
		return "", err
	}
	return s.uploadImage(ctx, rec.BackendToken, eventID, img)
}

// uploadImage stores the event image and patches the record with the public
// URL.
func (s *EventService) uploadImage(ctx context.Context, token string, eventID int64, img *ImageUpload) (string, error) {
	id := strconv.FormatInt(eventID, 10)
	url, err := s.uploader.UploadEventImage(ctx, id, img.Filename, img.ContentType, img.Data)
	if err != nil {
		return "", fmt.Errorf("upload event image: %w", err)
	}
	if _, err := s.backend.UpdateEvent(ctx, eventID, map[string]any{"event_image": url}, token); err != nil {
		return "", fmt.Errorf("attach image url: %w", err)
	}
	return url, nil
}

// Get returns one event with its live participant count.
func (s *EventService) Get(ctx context.Context, id string) (*domain.RunEvent, error) {
	eventID, err := parseID(id, "event")
	if err != nil {
		return nil, err
	}

	rec, err := s.backend.GetEvent(ctx, eventID, "")
	if err != nil {
		return nil, err
	}
	ev := xano.EventFromRecord(rec)
	ev.CurrentParticipants = s.countParticipants(ctx, eventID)
	return ev, nil
}

// List returns all upcoming events with live participant counts.
func (s *EventService) List(ctx context.Context) ([]*domain.RunEvent, error) {
	recs, err := s.backend.ListEvents(ctx, "")
	if err != nil {
		return nil, err
	}
	return s.toEvents(ctx, recs), nil
}

// ListByHost returns the events hosted by one business.
func (s *EventService) ListByHost(ctx context.Context, hostID string) ([]*domain.RunEvent, error) {
	businessID, err := parseID(hostID, "business")
	if err != nil {
		return nil, err
	}
	recs, err := s.backend.ListBusinessEvents(ctx, businessID, "")
	if err != nil {
		return nil, err
	}
	return s.toEvents(ctx, recs), nil
}

// Update edits an event owned by the session's business.
func (s *EventService) Update(ctx context.Context, sessionID, id string, input EventInput) (*domain.RunEvent, error) {
	rec, eventID, existing, err := s.ownedEvent(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}

	ev := &domain.RunEvent{
		Title:             input.Title,
		Description:       input.Description,
		Date:              input.Date,
		Time:              input.Time,
		Location:          input.Location,
		Address:           input.Address,
		Distance:          input.Distance,
		Pace:              input.Pace,
		MaxParticipants:   input.MaxParticipants,
		Tags:              input.Tags,
		WhatsAppGroupLink: input.WhatsAppGroupLink,
		Latitude:          input.Latitude,
		Longitude:         input.Longitude,
		HostName:          existing.BusinessName,
	}

	payload, err := xano.EventToRecord(ev, existing.BusinessID, existing.BusinessName)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid event date or time")
	}

	updated, err := s.backend.UpdateEvent(ctx, eventID, payload, rec.BackendToken)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	result := xano.EventFromRecord(updated)
	result.CurrentParticipants = s.countParticipants(ctx, eventID)
	return result, nil
}

// Delete removes an event owned by the session's business.
func (s *EventService) Delete(ctx context.Context, sessionID, id string) error {
	rec, eventID, _, err := s.ownedEvent(ctx, sessionID, id)
	if err != nil {
		return err
	}
	if err := s.backend.DeleteEvent(ctx, eventID, rec.BackendToken); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.logger.InfoContext(ctx, "event deleted", slog.String("event_id", id))
	return nil
}

// ownedEvent loads the event and verifies the session user hosts it.
func (s *EventService) ownedEvent(ctx context.Context, sessionID, id string) (*session.Record, int64, *xano.EventRecord, error) {
	rec, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return nil, 0, nil, err
	}
	eventID, err := parseID(id, "event")
	if err != nil {
		return nil, 0, nil, err
	}

	existing, err := s.backend.GetEvent(ctx, eventID, rec.BackendToken)
	if err != nil {
		return nil, 0, nil, err
	}
	if strconv.FormatInt(existing.BusinessID, 10) != rec.User.ID {
		return nil, 0, nil, apperrors.Forbidden("event belongs to another host")
	}
	return rec, eventID, existing, nil
}

func (s *EventService) toEvents(ctx context.Context, recs []xano.EventRecord) []*domain.RunEvent {
	events := make([]*domain.RunEvent, 0, len(recs))
	for i := range recs {
		ev := xano.EventFromRecord(&recs[i])
		ev.CurrentParticipants = s.countParticipants(ctx, recs[i].ID)
		events = append(events, ev)
	}
	return events
}

// countParticipants counts confirmed registrations. A count of zero on a
// listing error keeps browsing usable when the registration table is down.
func (s *EventService) countParticipants(ctx context.Context, eventID int64) int {
	regs, err := s.backend.ListEventRegistrations(ctx, eventID, "")
	if err != nil {
		s.logger.WarnContext(ctx, "failed to count registrations",
			slog.Int64("event_id", eventID),
			slog.String("error", err.Error()),
		)
		return 0
	}
	count := 0
	for i := range regs {
		if regs[i].Status == "" || regs[i].Status == domain.RegistrationConfirmed {
			count++
		}
	}
	return count
}

func hostBusinessName(u *domain.User) string {
	if u.BusinessDetails != nil && u.BusinessDetails.BusinessName != "" {
		return u.BusinessDetails.BusinessName
	}
	return u.Name
}

func parseID(id, resource string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, apperrors.InvalidInput(fmt.Sprintf("invalid %s id %q", resource, id))
	}
	return n, nil
}
