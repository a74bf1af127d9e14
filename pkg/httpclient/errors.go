package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker/v2"

	apperrors "github.com/runconnect/runconnect/pkg/errors"
)

// upstreamErrorBody matches the error payloads returned by the backend
// services this client talks to. The no-code backend returns a flat
// {"code": ..., "message": ...} body; other collaborators return plain text.
type upstreamErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an AppError keyed off the structured status code. This replaces
// substring inspection of error text: callers classify with errors.Is /
// errors.As, never by message matching.
//
// The caller should only invoke this when resp.StatusCode indicates an error.
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	message := string(bodyBytes)
	var upstream upstreamErrorBody
	if json.Unmarshal(bodyBytes, &upstream) == nil && upstream.Message != "" {
		message = upstream.Message
	}
	qualified := fmt.Sprintf("%s: %s", serviceName, message)

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.InvalidInput(qualified)
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualified)
	case resp.StatusCode == http.StatusForbidden:
		return apperrors.Forbidden(qualified)
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound(serviceName, message)
	case resp.StatusCode == http.StatusConflict:
		return apperrors.Conflict(qualified)
	case resp.StatusCode == http.StatusServiceUnavailable:
		return apperrors.ServiceUnavailable(qualified)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%s server error (%d): %s", serviceName, resp.StatusCode, message)
	default:
		return &apperrors.AppError{
			Code:    "UPSTREAM_ERROR",
			Message: qualified,
			Status:  resp.StatusCode,
		}
	}
}

// ClassifyTransportError translates a transport-level failure (dial refused,
// DNS, timeout, or a rejecting circuit breaker) into a NETWORK_ERROR AppError
// so callers map it to 503 rather than 500. Other errors pass through
// unchanged.
func ClassifyTransportError(err error, serviceName string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperrors.ServiceUnavailable(fmt.Sprintf("%s: circuit breaker open", serviceName))
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.ServiceUnavailable(fmt.Sprintf("%s unreachable: %v", serviceName, err))
	}

	return err
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
