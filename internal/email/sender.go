// Package email dispatches transactional mail through the external
// send-email endpoint. The endpoint owns templates and delivery; this client
// only supplies the recipient and the verification link.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/runconnect/runconnect/pkg/httpclient"
)

// Sender dispatches verification emails.
type Sender interface {
	SendVerification(ctx context.Context, recipient, verificationLink string) error
}

// verificationPayload is the wire body the send-email endpoint expects.
type verificationPayload struct {
	Email                string `json:"email"`
	VerificationLink     string `json:"verificationLink"`
	TokenExpirationHours int    `json:"tokenExpirationHours"`
}

// HTTPSender sends mail through the external HTTP endpoint.
type HTTPSender struct {
	client   *httpclient.Client
	endpoint string
	ttlHours int
	logger   *slog.Logger
}

// NewHTTPSender creates a sender for the given send-email endpoint URL.
func NewHTTPSender(client *httpclient.Client, endpoint string, ttlHours int, logger *slog.Logger) *HTTPSender {
	return &HTTPSender{client: client, endpoint: endpoint, ttlHours: ttlHours, logger: logger}
}

// SendVerification posts the verification email request.
func (s *HTTPSender) SendVerification(ctx context.Context, recipient, verificationLink string) error {
	payload, err := json.Marshal(verificationPayload{
		Email:                recipient,
		VerificationLink:     verificationLink,
		TokenExpirationHours: s.ttlHours,
	})
	if err != nil {
		return fmt.Errorf("marshal send-email payload: %w", err)
	}

	resp, err := s.client.Post(ctx, s.endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("send verification email: %w", httpclient.ClassifyTransportError(err, "send-email"))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpclient.ParseResponseError(resp, "send-email")
	}
	_ = resp.Body.Close()

	s.logger.InfoContext(ctx, "verification email dispatched",
		slog.String("recipient", recipient),
	)
	return nil
}

var _ Sender = (*HTTPSender)(nil)
