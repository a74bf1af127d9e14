package xano

// Record types mirror the backend's wire schema. Field names follow the
// backend's snake_case; identifiers are numeric there and converted to
// strings at the transform boundary.

// UserRecord is the backend user row.
type UserRecord struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`

	Phone               string    `json:"phone,omitempty"`
	BusinessName        string    `json:"business_name,omitempty"`
	BusinessLocation    string    `json:"business_location,omitempty"`
	BusinessLatitude    *float64  `json:"business_latitude,omitempty"`
	BusinessLongitude   *float64  `json:"business_longitude,omitempty"`
	BusinessPhone       string    `json:"business_phone,omitempty"`
	BusinessDescription string    `json:"business_description,omitempty"`
	Website             string    `json:"website,omitempty"`
	Instagram           string    `json:"instagram,omitempty"`
	Facebook            string    `json:"facebook,omitempty"`
	Twitter             string    `json:"twitter,omitempty"`
	LinkedIn            string    `json:"linkedin,omitempty"`

	Pace            *float64 `json:"pace,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	Goals           string   `json:"goals,omitempty"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

// EventRecord is the backend event row. event_start is epoch milliseconds.
type EventRecord struct {
	ID               int64     `json:"id,omitempty"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	EventStart       int64     `json:"event_start"`
	PaceSecondsPerKm float64   `json:"pace_seconds_per_km"`
	Distance         float64   `json:"distance"`
	MaxParticipants  *int      `json:"max_participants,omitempty"`
	EventImage       string    `json:"event_image,omitempty"`
	EventLocation    *GeoPoint `json:"event_location,omitempty"`
	EventAddress     string    `json:"event_address,omitempty"`
	Location         string    `json:"location,omitempty"`
	Tags             []string  `json:"tags,omitempty"`
	WhatsAppLink     string    `json:"whatsapp_group_link,omitempty"`

	BusinessID int64 `json:"business_id"`

	// Denormalized host fields populated by the backend on reads.
	BusinessName     string `json:"business_name,omitempty"`
	BusinessPhone    string `json:"business_phone,omitempty"`
	BusinessLocation string `json:"business_location,omitempty"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

// RegistrationRecord is the backend registration row. The nested user object
// is the current shape; runner_name / runner_email are legacy flat fields
// still returned by older endpoints.
type RegistrationRecord struct {
	ID        int64  `json:"id"`
	EventsID  int64  `json:"events_id"`
	RunnerID  int64  `json:"runner_id"`
	Status    string `json:"status,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`

	User *struct {
		Name  string   `json:"name"`
		Email string   `json:"email"`
		Pace  *float64 `json:"pace,omitempty"`
	} `json:"user,omitempty"`

	RunnerName  string   `json:"runner_name,omitempty"`
	RunnerEmail string   `json:"runner_email,omitempty"`
	RunnerPace  *float64 `json:"runner_pace,omitempty"`
}

// PostRecord is the backend business-post row.
type PostRecord struct {
	ID           int64  `json:"id,omitempty"`
	BusinessID   int64  `json:"business_id"`
	BusinessName string `json:"business_name,omitempty"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	ImageURL     string `json:"image_url,omitempty"`
	CreatedAt    int64  `json:"created_at,omitempty"`
}

// AuthResponse is the login/signup response. The shape has varied across
// backend iterations: sometimes a bare token, sometimes token plus the user
// record. Callers must fetch /auth/me when User is absent.
type AuthResponse struct {
	AuthToken string      `json:"authToken"`
	User      *UserRecord `json:"user,omitempty"`
}

// SignupRequest is the backend signup payload. All fields are always sent;
// runner accounts carry empty business fields. is_active starts false and
// flips only on email verification.
type SignupRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	Phone            string `json:"phone"`
	BusinessName     string `json:"business_name"`
	BusinessLocation string `json:"business_location"`
	IsActive         bool   `json:"is_active"`
}
