package httpclient

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/runconnect/runconnect/pkg/errors"
)

func TestClassifyTransportError(t *testing.T) {
	dialRefused := &url.Error{
		Op:  "Post",
		URL: "http://127.0.0.1:1/auth/login",
		Err: &os.SyscallError{Syscall: "connect", Err: syscall.ECONNREFUSED},
	}

	tests := []struct {
		name        string
		err         error
		wantNetwork bool
	}{
		{"nil passes through", nil, false},
		{"dial refused", dialRefused, true},
		{"circuit open", ErrCircuitOpen, true},
		{"wrapped circuit open", errors.Join(errors.New("xano-auth request"), ErrCircuitOpen), true},
		{"application error untouched", errors.New("decode response: unexpected EOF"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyTransportError(tt.err, "xano-auth")
			if !tt.wantNetwork {
				assert.Equal(t, tt.err, got)
				return
			}

			require.Error(t, got)
			assert.ErrorIs(t, got, apperrors.ErrServiceUnavail)
			assert.Equal(t, http.StatusServiceUnavailable, apperrors.HTTPStatus(got))

			var appErr *apperrors.AppError
			require.ErrorAs(t, got, &appErr)
			assert.Equal(t, "NETWORK_ERROR", appErr.Code)
		})
	}
}

func TestParseResponseError_StatusMapping(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{http.StatusUnauthorized, apperrors.ErrUnauthorized},
		{http.StatusNotFound, apperrors.ErrNotFound},
		{http.StatusConflict, apperrors.ErrConflict},
		{http.StatusServiceUnavailable, apperrors.ErrServiceUnavail},
	}

	for _, tt := range tests {
		resp := &http.Response{
			StatusCode: tt.status,
			Body:       io.NopCloser(strings.NewReader(`{"code":"X","message":"upstream says no"}`)),
		}
		err := ParseResponseError(resp, "xano-data")
		assert.ErrorIs(t, err, tt.sentinel, "status %d", tt.status)
		assert.Contains(t, err.Error(), "upstream says no")
	}
}
