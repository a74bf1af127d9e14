package xano

import "context"

// Backend is the interface the service layer consumes. *Client is the
// production implementation; tests substitute mocks.
type Backend interface {
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error)
	Me(ctx context.Context, token string) (*UserRecord, error)
	GetUser(ctx context.Context, id int64, token string) (*UserRecord, error)
	GetUserByEmail(ctx context.Context, email, token string) (*UserRecord, error)
	UpdateUser(ctx context.Context, id int64, patch map[string]any, token string) (*UserRecord, error)

	ListEvents(ctx context.Context, token string) ([]EventRecord, error)
	ListBusinessEvents(ctx context.Context, businessID int64, token string) ([]EventRecord, error)
	GetEvent(ctx context.Context, id int64, token string) (*EventRecord, error)
	CreateEvent(ctx context.Context, rec *EventRecord, token string) (*EventRecord, error)
	UpdateEvent(ctx context.Context, id int64, patch any, token string) (*EventRecord, error)
	DeleteEvent(ctx context.Context, id int64, token string) error

	ListEventRegistrations(ctx context.Context, eventID int64, token string) ([]RegistrationRecord, error)
	ListUserRegistrations(ctx context.Context, runnerID int64, token string) ([]RegistrationRecord, error)
	CreateRegistration(ctx context.Context, eventID, runnerID int64, token string) (*RegistrationRecord, error)
	DeleteRegistration(ctx context.Context, id int64, token string) error

	ListBusinessPosts(ctx context.Context, businessID int64, token string) ([]PostRecord, error)
	CreateBusinessPost(ctx context.Context, rec *PostRecord, token string) (*PostRecord, error)
	UpdateBusinessPost(ctx context.Context, id int64, patch any, token string) (*PostRecord, error)
	DeleteBusinessPost(ctx context.Context, id int64, token string) error
}

var _ Backend = (*Client)(nil)
