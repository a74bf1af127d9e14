package xano

import (
	"strconv"
	"time"

	"github.com/runconnect/runconnect/internal/domain"
)

// Transforms between backend records and the domain model. All functions here
// are pure: no I/O, no clock reads except where a caller passes one in.

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// EventFromRecord converts a backend event row into a RunEvent. The combined
// event_start timestamp splits into separate date and time strings in UTC, so
// the split is deterministic regardless of server timezone.
func EventFromRecord(rec *EventRecord) *domain.RunEvent {
	start := time.UnixMilli(rec.EventStart).UTC()

	pace := rec.PaceSecondsPerKm / 60

	hostName := rec.BusinessName
	if hostName == "" {
		hostName = "Business Host"
	}

	contact := &domain.HostContactInfo{
		BusinessName:     hostName,
		BusinessLocation: rec.BusinessLocation,
		Phone:            rec.BusinessPhone,
	}

	// Display location preference: explicit location name, then the event's
	// text address, then the host's location.
	location := rec.Location
	if location == "" {
		location = rec.EventAddress
	}
	if location == "" {
		location = rec.BusinessLocation
	}
	if location == "" {
		location = "Location TBD"
	}

	ev := &domain.RunEvent{
		ID:                strconv.FormatInt(rec.ID, 10),
		Title:             rec.Title,
		HostID:            strconv.FormatInt(rec.BusinessID, 10),
		HostName:          hostName,
		Date:              start.Format(dateLayout),
		Time:              start.Format(timeLayout),
		Location:          location,
		Address:           rec.EventAddress,
		Distance:          rec.Distance,
		Pace:              pace,
		PaceCategory:      domain.PaceCategoryForPace(pace),
		Description:       rec.Description,
		Tags:              rec.Tags,
		ImageURL:          rec.EventImage,
		MaxParticipants:   rec.MaxParticipants,
		WhatsAppGroupLink: rec.WhatsAppLink,
		HostContactInfo:   contact,
	}

	if rec.EventLocation != nil {
		lat, lng := rec.EventLocation.Lat, rec.EventLocation.Lng
		ev.Latitude = &lat
		ev.Longitude = &lng
	}

	return ev
}

// EventToRecord converts a RunEvent back into the backend payload shape.
// Date and time recombine into one UTC epoch-millis timestamp and pace
// converts back to seconds per kilometer, so a record that round-trips
// through EventFromRecord preserves its semantic content.
func EventToRecord(ev *domain.RunEvent, businessID int64, businessName string) (*EventRecord, error) {
	start, err := time.ParseInLocation(dateLayout+"T"+timeLayout, ev.Date+"T"+ev.Time, time.UTC)
	if err != nil {
		return nil, err
	}

	if businessName == "" {
		businessName = ev.HostName
	}

	rec := &EventRecord{
		Title:            ev.Title,
		Description:      ev.Description,
		EventStart:       start.UnixMilli(),
		PaceSecondsPerKm: ev.Pace * 60,
		Distance:         ev.Distance,
		MaxParticipants:  ev.MaxParticipants,
		EventAddress:     ev.Address,
		Location:         ev.Location,
		Tags:             ev.Tags,
		WhatsAppLink:     ev.WhatsAppGroupLink,
		BusinessID:       businessID,
		BusinessName:     businessName,
	}

	if ev.Latitude != nil && ev.Longitude != nil {
		rec.EventLocation = &GeoPoint{Lat: *ev.Latitude, Lng: *ev.Longitude}
	}

	return rec, nil
}

// UserFromRecord converts a backend user row into a User, attaching the
// role-matching details block. A business location that arrives as
// coordinates only gets a "{lat}, {lng}" fallback display string.
func UserFromRecord(rec *UserRecord) *domain.User {
	u := &domain.User{
		ID:       strconv.FormatInt(rec.ID, 10),
		Email:    rec.Email,
		Name:     rec.Name,
		Role:     rec.Role,
		IsActive: rec.IsActive,
	}

	switch rec.Role {
	case domain.RoleBusiness:
		details := &domain.BusinessDetails{
			BusinessName:     rec.BusinessName,
			BusinessLocation: rec.BusinessLocation,
			BusinessPhone:    rec.BusinessPhone,
			Description:      rec.BusinessDescription,
			Latitude:         rec.BusinessLatitude,
			Longitude:        rec.BusinessLongitude,
			Website:          rec.Website,
			Instagram:        rec.Instagram,
			Facebook:         rec.Facebook,
			Twitter:          rec.Twitter,
			LinkedIn:         rec.LinkedIn,
		}
		if p, ok := ParsePoint(rec.BusinessLocation); ok {
			details.BusinessLocation = p.DisplayString()
			if details.Latitude == nil {
				details.Latitude = &p.Lat
			}
			if details.Longitude == nil {
				details.Longitude = &p.Lng
			}
		}
		u.BusinessDetails = details
	default:
		details := &domain.RunnerDetails{
			ExperienceLevel: rec.ExperienceLevel,
			Goals:           rec.Goals,
		}
		if rec.Pace != nil {
			details.Pace = *rec.Pace
		}
		u.RunnerDetails = details
	}

	return u
}

// RegistrationFromRecord converts a backend registration row, defaulting
// missing runner display data to placeholders.
func RegistrationFromRecord(rec *RegistrationRecord) *domain.RunRegistration {
	reg := &domain.RunRegistration{
		ID:           strconv.FormatInt(rec.ID, 10),
		RunID:        strconv.FormatInt(rec.EventsID, 10),
		UserID:       strconv.FormatInt(rec.RunnerID, 10),
		RegisteredAt: time.UnixMilli(rec.CreatedAt).UTC(),
		Status:       rec.Status,
	}
	if reg.Status == "" {
		reg.Status = domain.RegistrationConfirmed
	}

	switch {
	case rec.User != nil:
		reg.UserName = rec.User.Name
		reg.UserEmail = rec.User.Email
		if rec.User.Pace != nil {
			reg.UserPace = *rec.User.Pace
		}
	default:
		reg.UserName = rec.RunnerName
		reg.UserEmail = rec.RunnerEmail
		if rec.RunnerPace != nil {
			reg.UserPace = *rec.RunnerPace
		}
	}

	if reg.UserName == "" {
		reg.UserName = "Runner " + reg.UserID
	}
	if reg.UserEmail == "" {
		reg.UserEmail = "unknown@example.com"
	}

	return reg
}

// PostFromRecord converts a backend business-post row.
func PostFromRecord(rec *PostRecord) *domain.BusinessPost {
	return &domain.BusinessPost{
		ID:           strconv.FormatInt(rec.ID, 10),
		BusinessID:   strconv.FormatInt(rec.BusinessID, 10),
		BusinessName: rec.BusinessName,
		Title:        rec.Title,
		Content:      rec.Content,
		ImageURL:     rec.ImageURL,
		CreatedAt:    time.UnixMilli(rec.CreatedAt).UTC(),
	}
}
