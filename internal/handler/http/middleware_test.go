package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestContentTypeJSON(t *testing.T) {
	handler := ContentTypeJSON(okHandler())

	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		wantStatus  int
	}{
		{"post with json", http.MethodPost, "application/json", `{}`, http.StatusOK},
		{"post with charset", http.MethodPost, "application/json; charset=utf-8", `{}`, http.StatusOK},
		{"post with form", http.MethodPost, "application/x-www-form-urlencoded", "a=b", http.StatusUnsupportedMediaType},
		{"post without content type", http.MethodPost, "", `{}`, http.StatusUnsupportedMediaType},
		{"put with xml", http.MethodPut, "text/xml", "<x/>", http.StatusUnsupportedMediaType},
		{"get without body", http.MethodGet, "", "", http.StatusOK},
		{"delete without body", http.MethodDelete, "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestCORS_DevelopmentWildcard(t *testing.T) {
	handler := CORS(CORSConfig{Environment: "development"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCORS_ProductionAllowList(t *testing.T) {
	handler := CORS(CORSConfig{
		AllowedOrigins: []string{"https://app.runconnect.com"},
		Environment:    "production",
	})(okHandler())

	t.Run("allowed origin echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.runconnect.com")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "https://app.runconnect.com", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", rr.Header().Get("Vary"))
	})

	t.Run("unknown origin gets no allow header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	handler := CORS(CORSConfig{Environment: "development"})(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("preflight request must not reach the handler")
		}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Methods"))
}
