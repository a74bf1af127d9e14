package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runconnect/runconnect/internal/domain"
	"github.com/runconnect/runconnect/internal/session"
	"github.com/runconnect/runconnect/internal/xano"
	apperrors "github.com/runconnect/runconnect/pkg/errors"
)

// PostService implements business profile posts.
type PostService struct {
	backend  xano.Backend
	sessions *session.Manager
	logger   *slog.Logger
}

// NewPostService creates a post service.
func NewPostService(backend xano.Backend, sessions *session.Manager, logger *slog.Logger) *PostService {
	return &PostService{backend: backend, sessions: sessions, logger: logger}
}

// PostInput holds the author-supplied fields of a post.
type PostInput struct {
	Title    string
	Content  string
	ImageURL string
}

// ListByBusiness returns a business's posts, newest first per backend order.
// Posts are decorative profile content: a listing failure degrades to an
// empty feed rather than breaking the profile page.
func (s *PostService) ListByBusiness(ctx context.Context, businessID string) ([]*domain.BusinessPost, error) {
	id, err := parseID(businessID, "business")
	if err != nil {
		return nil, err
	}

	recs, err := s.backend.ListBusinessPosts(ctx, id, "")
	if err != nil {
		s.logger.WarnContext(ctx, "failed to list business posts, serving empty feed",
			slog.String("business_id", businessID),
			slog.String("error", err.Error()),
		)
		return []*domain.BusinessPost{}, nil
	}

	posts := make([]*domain.BusinessPost, 0, len(recs))
	for i := range recs {
		posts = append(posts, xano.PostFromRecord(&recs[i]))
	}
	return posts, nil
}

// Create publishes a post authored by the session's business.
func (s *PostService) Create(ctx context.Context, sessionID string, input PostInput) (*domain.BusinessPost, error) {
	rec, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !rec.User.IsBusiness() {
		return nil, apperrors.Forbidden("only business accounts can publish posts")
	}
	businessID, err := parseID(rec.User.ID, "business")
	if err != nil {
		return nil, err
	}

	if input.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if input.Content == "" {
		return nil, apperrors.InvalidInput("content is required")
	}

	payload := &xano.PostRecord{
		BusinessID:   businessID,
		BusinessName: hostBusinessName(rec.User),
		Title:        input.Title,
		Content:      input.Content,
		ImageURL:     input.ImageURL,
	}
	created, err := s.backend.CreateBusinessPost(ctx, payload, rec.BackendToken)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return xano.PostFromRecord(created), nil
}

// Update edits a post owned by the session's business.
func (s *PostService) Update(ctx context.Context, sessionID, postID string, input PostInput) (*domain.BusinessPost, error) {
	rec, id, err := s.ownedPost(ctx, sessionID, postID)
	if err != nil {
		return nil, err
	}

	patch := map[string]any{
		"title":     input.Title,
		"content":   input.Content,
		"image_url": input.ImageURL,
	}
	updated, err := s.backend.UpdateBusinessPost(ctx, id, patch, rec.BackendToken)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return xano.PostFromRecord(updated), nil
}

// Delete removes a post owned by the session's business.
func (s *PostService) Delete(ctx context.Context, sessionID, postID string) error {
	rec, id, err := s.ownedPost(ctx, sessionID, postID)
	if err != nil {
		return err
	}
	if err := s.backend.DeleteBusinessPost(ctx, id, rec.BackendToken); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// ownedPost verifies the post belongs to the session's business. The backend
// has no single-post read, so ownership is checked against the author's own
// feed.
func (s *PostService) ownedPost(ctx context.Context, sessionID, postID string) (*session.Record, int64, error) {
	rec, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}
	if !rec.User.IsBusiness() {
		return nil, 0, apperrors.Forbidden("only business accounts can manage posts")
	}
	businessID, err := parseID(rec.User.ID, "business")
	if err != nil {
		return nil, 0, err
	}
	id, err := parseID(postID, "post")
	if err != nil {
		return nil, 0, err
	}

	posts, err := s.backend.ListBusinessPosts(ctx, businessID, rec.BackendToken)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	for i := range posts {
		if posts[i].ID == id {
			return rec, id, nil
		}
	}
	return nil, 0, apperrors.NotFound("post", postID)
}
