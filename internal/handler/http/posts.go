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

// PostHandler handles HTTP requests for business posts.
type PostHandler struct {
	service *service.PostService
	logger  *slog.Logger
}

// NewPostHandler creates a new post HTTP handler.
func NewPostHandler(svc *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{service: svc, logger: logger}
}

// PostRequest is the JSON request body for creating or updating a post.
type PostRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Content  string `json:"content" validate:"required,max=10000"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// ListByBusiness handles GET /api/v1/businesses/{id}/posts
func (h *PostHandler) ListByBusiness(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListByBusiness(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: posts})
}

// Create handles POST /api/v1/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sessionID := middleware.SessionIDFromContext(r.Context())
	post, err := h.service.Create(r.Context(), sessionID, service.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: post})
}

// Update handles PUT /api/v1/posts/{id}
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sessionID := middleware.SessionIDFromContext(r.Context())
	post, err := h.service.Update(r.Context(), sessionID, chi.URLParam(r, "id"), service.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: post})
}

// Delete handles DELETE /api/v1/posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromContext(r.Context())

	if err := h.service.Delete(r.Context(), sessionID, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"message": "post deleted",
	}})
}
