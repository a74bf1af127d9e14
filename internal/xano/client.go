package xano

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	apperrors "github.com/runconnect/runconnect/pkg/errors"
	"github.com/runconnect/runconnect/pkg/httpclient"
)

// Config holds the two backend workspace base URLs. Auth endpoints and data
// endpoints live in separate API groups with separate hosts.
type Config struct {
	AuthBaseURL string
	DataBaseURL string
}

// Client is the REST client for the no-code backend. Each base URL gets its
// own circuit breaker so an outage in one API group does not trip the other.
type Client struct {
	authHTTP *httpclient.CircuitBreakerClient
	dataHTTP *httpclient.CircuitBreakerClient
	cfg      Config
	logger   *slog.Logger
}

// NewClient creates a backend client on top of the retrying HTTP client.
func NewClient(cfg Config, httpCfg httpclient.Config, logger *slog.Logger) *Client {
	base := httpclient.New(httpCfg)
	return &Client{
		authHTTP: httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig("xano-auth"), logger),
		dataHTTP: httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig("xano-data"), logger),
		cfg:      cfg,
		logger:   logger,
	}
}

// do issues one JSON request. A non-2xx response is translated into a
// structured AppError by ParseResponseError; callers classify with errors.Is
// rather than message matching. token may be empty for anonymous calls.
func (c *Client) do(ctx context.Context, cb *httpclient.CircuitBreakerClient, service, method, rawURL, token string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", service, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", service, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := cb.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%s request %s %s: %w", service, method, req.URL.Path,
			httpclient.ClassifyTransportError(err, service))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpclient.ParseResponseError(resp, service)
	}

	defer func() { _ = resp.Body.Close() }()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", service, err)
	}
	return nil
}

func (c *Client) auth(ctx context.Context, method, path, token string, in, out any) error {
	return c.do(ctx, c.authHTTP, "xano-auth", method, c.cfg.AuthBaseURL+path, token, in, out)
}

func (c *Client) data(ctx context.Context, method, path, token string, in, out any) error {
	return c.do(ctx, c.dataHTTP, "xano-data", method, c.cfg.DataBaseURL+path, token, in, out)
}

// --- Auth endpoints ---

// Login authenticates and returns the backend auth token, plus the user
// record when this backend iteration includes it.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	payload := map[string]string{"email": email, "password": password}
	if err := c.auth(ctx, http.MethodPost, "/auth/login", "", payload, &resp); err != nil {
		return nil, err
	}
	if resp.AuthToken == "" {
		return nil, fmt.Errorf("login response carried no auth token")
	}
	return &resp, nil
}

// Signup creates the account. The created user starts inactive.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.auth(ctx, http.MethodPost, "/auth/signup", "", req, &resp); err != nil {
		return nil, err
	}
	if resp.AuthToken == "" {
		return nil, fmt.Errorf("signup response carried no auth token")
	}
	return &resp, nil
}

// Me fetches the user record owning the given token.
func (c *Client) Me(ctx context.Context, token string) (*UserRecord, error) {
	var rec UserRecord
	if err := c.auth(ctx, http.MethodGet, "/auth/me", token, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// --- User endpoints ---

// GetUser fetches a user row by ID.
func (c *Client) GetUser(ctx context.Context, id int64, token string) (*UserRecord, error) {
	var rec UserRecord
	if err := c.data(ctx, http.MethodGet, fmt.Sprintf("/user/%d", id), token, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetUserByEmail resolves an email address to its user row.
func (c *Client) GetUserByEmail(ctx context.Context, email, token string) (*UserRecord, error) {
	var recs []UserRecord
	path := "/user?email=" + url.QueryEscape(email)
	if err := c.data(ctx, http.MethodGet, path, token, nil, &recs); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, apperrors.NotFound("user", email)
	}
	return &recs[0], nil
}

// UpdateUser patches a user row with the given fields.
func (c *Client) UpdateUser(ctx context.Context, id int64, patch map[string]any, token string) (*UserRecord, error) {
	var rec UserRecord
	if err := c.data(ctx, http.MethodPatch, fmt.Sprintf("/user/%d", id), token, patch, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// --- Event endpoints ---

// ListEvents fetches all events.
func (c *Client) ListEvents(ctx context.Context, token string) ([]EventRecord, error) {
	var recs []EventRecord
	if err := c.data(ctx, http.MethodGet, "/events", token, nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// ListBusinessEvents fetches events scoped to one business host.
func (c *Client) ListBusinessEvents(ctx context.Context, businessID int64, token string) ([]EventRecord, error) {
	var recs []EventRecord
	path := fmt.Sprintf("/events?business_id=%d", businessID)
	if err := c.data(ctx, http.MethodGet, path, token, nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// GetEvent fetches one event by ID.
func (c *Client) GetEvent(ctx context.Context, id int64, token string) (*EventRecord, error) {
	var rec EventRecord
	if err := c.data(ctx, http.MethodGet, fmt.Sprintf("/events/%d", id), token, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateEvent creates an event row and returns the stored record.
func (c *Client) CreateEvent(ctx context.Context, rec *EventRecord, token string) (*EventRecord, error) {
	var created EventRecord
	if err := c.data(ctx, http.MethodPost, "/events", token, rec, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateEvent patches an event row.
func (c *Client) UpdateEvent(ctx context.Context, id int64, patch any, token string) (*EventRecord, error) {
	var rec EventRecord
	if err := c.data(ctx, http.MethodPatch, fmt.Sprintf("/events/%d", id), token, patch, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteEvent removes an event row.
func (c *Client) DeleteEvent(ctx context.Context, id int64, token string) error {
	return c.data(ctx, http.MethodDelete, fmt.Sprintf("/events/%d", id), token, nil, nil)
}

// --- Registration endpoints ---

// ListEventRegistrations fetches registrations for one event.
func (c *Client) ListEventRegistrations(ctx context.Context, eventID int64, token string) ([]RegistrationRecord, error) {
	var recs []RegistrationRecord
	path := fmt.Sprintf("/registrations?events_id=%d", eventID)
	if err := c.data(ctx, http.MethodGet, path, token, nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// ListUserRegistrations fetches one runner's registrations.
func (c *Client) ListUserRegistrations(ctx context.Context, runnerID int64, token string) ([]RegistrationRecord, error) {
	var recs []RegistrationRecord
	path := fmt.Sprintf("/registrations?runner_id=%d", runnerID)
	if err := c.data(ctx, http.MethodGet, path, token, nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// CreateRegistration signs a runner up for an event. (events_id, runner_id)
// uniqueness is enforced backend-side; conflicts surface as 409.
func (c *Client) CreateRegistration(ctx context.Context, eventID, runnerID int64, token string) (*RegistrationRecord, error) {
	var rec RegistrationRecord
	payload := map[string]int64{"events_id": eventID, "runner_id": runnerID}
	if err := c.data(ctx, http.MethodPost, "/registrations", token, payload, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteRegistration cancels a registration.
func (c *Client) DeleteRegistration(ctx context.Context, id int64, token string) error {
	return c.data(ctx, http.MethodDelete, fmt.Sprintf("/registrations/%d", id), token, nil, nil)
}

// --- Business post endpoints ---

// ListBusinessPosts fetches the feed for one business.
func (c *Client) ListBusinessPosts(ctx context.Context, businessID int64, token string) ([]PostRecord, error) {
	var recs []PostRecord
	path := fmt.Sprintf("/business-posts?business_id=%d", businessID)
	if err := c.data(ctx, http.MethodGet, path, token, nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// CreateBusinessPost creates a feed post.
func (c *Client) CreateBusinessPost(ctx context.Context, rec *PostRecord, token string) (*PostRecord, error) {
	var created PostRecord
	if err := c.data(ctx, http.MethodPost, "/business-posts", token, rec, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateBusinessPost patches a feed post.
func (c *Client) UpdateBusinessPost(ctx context.Context, id int64, patch any, token string) (*PostRecord, error) {
	var rec PostRecord
	if err := c.data(ctx, http.MethodPatch, fmt.Sprintf("/business-posts/%d", id), token, patch, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteBusinessPost removes a feed post.
func (c *Client) DeleteBusinessPost(ctx context.Context, id int64, token string) error {
	return c.data(ctx, http.MethodDelete, fmt.Sprintf("/business-posts/%d", id), token, nil, nil)
}
