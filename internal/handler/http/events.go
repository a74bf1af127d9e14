package http

import (
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/runconnect/runconnect/internal/service"
	apperrors "github.com/runconnect/runconnect/pkg/errors"
	"github.com/runconnect/runconnect/pkg/httputil"
	"github.com/runconnect/runconnect/pkg/middleware"
	"github.com/runconnect/runconnect/pkg/validator"
)

// maxImageBytes caps event cover image uploads.
const maxImageBytes = 5 << 20

// EventHandler handles HTTP requests for event endpoints.
type EventHandler struct {
	service *service.EventService
	logger  *slog.Logger
}

// NewEventHandler creates a new event HTTP handler.
func NewEventHandler(svc *service.EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{service: svc, logger: logger}
}

// EventRequest is the JSON request body for creating or updating an event.
type EventRequest struct {
	Title             string   `json:"title" validate:"required,min=1,max=200"`
	Description       string   `json:"description" validate:"max=5000"`
	Date              string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time              string   `json:"time" validate:"required,datetime=15:04"`
	Location          string   `json:"location" validate:"max=300"`
	Address           string   `json:"address" validate:"max=300"`
	Distance          float64  `json:"distance" validate:"required,gt=0"`
	Pace              float64  `json:"pace" validate:"required,gt=0"`
	MaxParticipants   *int     `json:"max_participants,omitempty" validate:"omitempty,min=1"`
	Tags              []string `json:"tags,omitempty" validate:"max=20,dive,max=50"`
	WhatsAppGroupLink string   `json:"whatsapp_group_link,omitempty" validate:"omitempty,url"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
}

func (req *EventRequest) toInput() service.EventInput {
	return service.EventInput{
		Title:             req.Title,
		Description:       req.Description,
		Date:              req.Date,
		Time:              req.Time,
		Location:          req.Location,
		Address:           req.Address,
		Distance:          req.Distance,
		Pace:              req.Pace,
		MaxParticipants:   req.MaxParticipants,
		Tags:              req.Tags,
		WhatsAppGroupLink: req.WhatsAppGroupLink,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
	}
}

// List handles GET /api/v1/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: events})
}

// Get handles GET /api/v1/events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	ev, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ev})
}

// ListByHost handles GET /api/v1/businesses/{id}/events
func (h *EventHandler) ListByHost(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListByHost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: events})
}

// Create handles POST /api/v1/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req EventRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sessionID := middleware.SessionIDFromContext(r.Context())
	ev, err := h.service.Create(r.Context(), sessionID, req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: ev})
}

// Update handles PUT /api/v1/events/{id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req EventRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sessionID := middleware.SessionIDFromContext(r.Context())
	ev, err := h.service.Update(r.Context(), sessionID, chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ev})
}

// Delete handles DELETE /api/v1/events/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromContext(r.Context())

	if err := h.service.Delete(r.Context(), sessionID, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"message": "event deleted",
	}})
}

// UploadImage handles PUT /api/v1/events/{id}/image. The body is the raw
// image; the Content-Type header names the format.
func (h *EventHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || (mediaType != "image/jpeg" && mediaType != "image/png" && mediaType != "image/webp") {
		httputil.WriteError(w, r, apperrors.InvalidInput("image must be jpeg, png, or webp"), h.logger)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImageBytes))
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("image exceeds size limit"), h.logger)
		return
	}
	if len(data) == 0 {
		httputil.WriteError(w, r, apperrors.InvalidInput("image body is empty"), h.logger)
		return
	}

	ext := map[string]string{"image/jpeg": "jpg", "image/png": "png", "image/webp": "webp"}[mediaType]
	sessionID := middleware.SessionIDFromContext(r.Context())

	url, err := h.service.AttachImage(r.Context(), sessionID, chi.URLParam(r, "id"), &service.ImageUpload{
		Filename:    "cover." + ext,
		ContentType: mediaType,
		Data:        data,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"image_url": url,
	}})
}
