package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/runconnect/runconnect/internal/service"
	"github.com/runconnect/runconnect/pkg/httputil"
	"github.com/runconnect/runconnect/pkg/middleware"
)

// RegistrationHandler handles HTTP requests for event registrations.
type RegistrationHandler struct {
	service *service.RegistrationService
	logger  *slog.Logger
}

// NewRegistrationHandler creates a new registration HTTP handler.
func NewRegistrationHandler(svc *service.RegistrationService, logger *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{service: svc, logger: logger}
}

// Register handles POST /api/v1/events/{id}/registrations
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromContext(r.Context())

	reg, err := h.service.Register(r.Context(), sessionID, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: reg})
}

// Cancel handles DELETE /api/v1/events/{id}/registrations
func (h *RegistrationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromContext(r.Context())

	if err := h.service.Cancel(r.Context(), sessionID, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"message": "registration cancelled",
	}})
}

// ListForEvent handles GET /api/v1/events/{id}/registrations
func (h *RegistrationHandler) ListForEvent(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromContext(r.Context())

	regs, err := h.service.ListForEvent(r.Context(), sessionID, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: regs})
}

// ListMine handles GET /api/v1/users/me/registrations
func (h *RegistrationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromContext(r.Context())

	regs, err := h.service.ListMine(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: regs})
}
