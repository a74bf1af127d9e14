package domain

import "time"

// Registration statuses.
const (
	RegistrationConfirmed = "confirmed"
	RegistrationCancelled = "cancelled"
)

// RunRegistration is a runner's sign-up for an event. Uniqueness of
// (RunID, UserID) is enforced by the backend, not here.
type RunRegistration struct {
	ID           string    `json:"id"`
	RunID        string    `json:"run_id"`
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	UserEmail    string    `json:"user_email"`
	UserPace     float64   `json:"user_pace,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
	Status       string    `json:"status"`
}
