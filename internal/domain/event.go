package domain

// Pace category constants. The category is always derived from the pace,
// never stored independently.
const (
	PaceBeginner     = "beginner"
	PaceIntermediate = "intermediate"
	PaceAdvanced     = "advanced"
)

// PaceCategoryForPace classifies a pace (minutes per kilometer) into the
// three-tier category used across the platform. This is the single source of
// the thresholds: slower than or at 8 min/km is beginner, 6 up to 8 is
// intermediate, faster than 6 is advanced.
func PaceCategoryForPace(pace float64) string {
	switch {
	case pace >= 8:
		return PaceBeginner
	case pace >= 6:
		return PaceIntermediate
	default:
		return PaceAdvanced
	}
}

// HostContactInfo is denormalized host display data attached to an event.
type HostContactInfo struct {
	BusinessName     string `json:"business_name"`
	BusinessLocation string `json:"business_location,omitempty"`
	Phone            string `json:"phone,omitempty"`
}

// RunEvent is a scheduled run hosted by a business.
type RunEvent struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	HostID   string `json:"host_id"`
	HostName string `json:"host_name"`

	// Date is YYYY-MM-DD and Time is HH:MM, both in UTC.
	Date string `json:"date"`
	Time string `json:"time"`

	Location string `json:"location"`
	Address  string `json:"address"`

	// Distance is in kilometers, Pace in minutes per kilometer.
	Distance     float64 `json:"distance"`
	Pace         float64 `json:"pace"`
	PaceCategory string  `json:"pace_category"`

	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`

	// MaxParticipants nil means unlimited spots.
	MaxParticipants *int `json:"max_participants,omitempty"`

	// CurrentParticipants is recomputed from live registrations, never read
	// from the stored record.
	CurrentParticipants int `json:"current_participants"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	WhatsAppGroupLink string           `json:"whatsapp_group_link,omitempty"`
	HostContactInfo   *HostContactInfo `json:"host_contact_info,omitempty"`
}

// Unlimited reports whether the event has no participant cap.
func (e *RunEvent) Unlimited() bool {
	return e.MaxParticipants == nil
}

// RemainingSpots returns the number of open spots and whether that number is
// bounded. Unbounded events report (0, false): callers must display
// "unlimited" rather than a count.
func (e *RunEvent) RemainingSpots() (int, bool) {
	if e.MaxParticipants == nil {
		return 0, false
	}
	remaining := *e.MaxParticipants - e.CurrentParticipants
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}
