package domain

// Role constants define the two account types on the platform.
const (
	RoleRunner   = "runner"
	RoleBusiness = "business"
)

// ValidRoles returns the set of valid user roles.
func ValidRoles() []string {
	return []string{RoleRunner, RoleBusiness}
}

// IsValidRole checks whether the given role string is a valid user role.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// BusinessDetails holds the host-facing profile of a business account.
type BusinessDetails struct {
	BusinessName     string   `json:"business_name"`
	BusinessLocation string   `json:"business_location"`
	BusinessPhone    string   `json:"business_phone,omitempty"`
	Description      string   `json:"description,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	Website          string   `json:"website,omitempty"`
	Instagram        string   `json:"instagram,omitempty"`
	Facebook         string   `json:"facebook,omitempty"`
	Twitter          string   `json:"twitter,omitempty"`
	LinkedIn         string   `json:"linkedin,omitempty"`
}

// RunnerDetails holds the participant-facing profile of a runner account.
type RunnerDetails struct {
	// Pace is the runner's usual pace in minutes per kilometer.
	Pace            float64 `json:"pace,omitempty"`
	ExperienceLevel string  `json:"experience_level,omitempty"`
	Goals           string  `json:"goals,omitempty"`
}

// User is the canonical identity record. Exactly one of BusinessDetails or
// RunnerDetails is set, matching the role.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`

	BusinessDetails *BusinessDetails `json:"business_details,omitempty"`
	RunnerDetails   *RunnerDetails   `json:"runner_details,omitempty"`
}

// IsBusiness reports whether the user hosts events.
func (u *User) IsBusiness() bool {
	return u.Role == RoleBusiness
}
