package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/runconnect/runconnect/internal/service"
	"github.com/runconnect/runconnect/pkg/httputil"
	"github.com/runconnect/runconnect/pkg/middleware"
	"github.com/runconnect/runconnect/pkg/validator"
)

// UserHandler handles HTTP requests for profile endpoints.
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: svc, logger: logger}
}

// UpdateProfileRequest is the JSON request body for profile updates. Absent
// fields keep their current values.
type UpdateProfileRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`

	Pace            *float64 `json:"pace,omitempty" validate:"omitempty,gt=0"`
	ExperienceLevel *string  `json:"experience_level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Goals           *string  `json:"goals,omitempty" validate:"omitempty,max=1000"`

	BusinessName        *string  `json:"business_name,omitempty" validate:"omitempty,min=1,max=200"`
	BusinessLocation    *string  `json:"business_location,omitempty" validate:"omitempty,max=300"`
	BusinessPhone       *string  `json:"business_phone,omitempty" validate:"omitempty,max=30"`
	BusinessDescription *string  `json:"business_description,omitempty" validate:"omitempty,max=5000"`
	BusinessLatitude    *float64 `json:"business_latitude,omitempty"`
	BusinessLongitude   *float64 `json:"business_longitude,omitempty"`
	Website             *string  `json:"website,omitempty" validate:"omitempty,url"`
	Instagram           *string  `json:"instagram,omitempty" validate:"omitempty,max=200"`
	Facebook            *string  `json:"facebook,omitempty" validate:"omitempty,max=200"`
	Twitter             *string  `json:"twitter,omitempty" validate:"omitempty,max=200"`
	LinkedIn            *string  `json:"linkedin,omitempty" validate:"omitempty,max=200"`
}

// GetPublicProfile handles GET /api/v1/users/{id}
func (h *UserHandler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetPublicProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// UpdateProfile handles PUT /api/v1/users/me
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req UpdateProfileRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sessionID := middleware.SessionIDFromContext(r.Context())
	user, err := h.service.UpdateProfile(r.Context(), sessionID, service.ProfileInput{
		Name:                req.Name,
		Pace:                req.Pace,
		ExperienceLevel:     req.ExperienceLevel,
		Goals:               req.Goals,
		BusinessName:        req.BusinessName,
		BusinessLocation:    req.BusinessLocation,
		BusinessPhone:       req.BusinessPhone,
		BusinessDescription: req.BusinessDescription,
		BusinessLatitude:    req.BusinessLatitude,
		BusinessLongitude:   req.BusinessLongitude,
		Website:             req.Website,
		Instagram:           req.Instagram,
		Facebook:            req.Facebook,
		Twitter:             req.Twitter,
		LinkedIn:            req.LinkedIn,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}
