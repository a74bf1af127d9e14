// Package storage uploads event images to the external object store.
// Objects are keyed event-{eventID}.{ext} inside a fixed bucket so an event's
// image can always be addressed from its ID alone.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/runconnect/runconnect/pkg/httpclient"
)

// Uploader stores event images.
type Uploader interface {
	// UploadEventImage stores an image for the event and returns its public URL.
	UploadEventImage(ctx context.Context, eventID string, filename, contentType string, data []byte) (string, error)
}

// ObjectStore uploads to a bucket over the object-storage REST API with a
// service key.
type ObjectStore struct {
	client     *httpclient.Client
	baseURL    string
	bucket     string
	serviceKey string
	logger     *slog.Logger
}

// NewObjectStore creates an object-store uploader.
func NewObjectStore(client *httpclient.Client, baseURL, bucket, serviceKey string, logger *slog.Logger) *ObjectStore {
	return &ObjectStore{
		client:     client,
		baseURL:    baseURL,
		bucket:     bucket,
		serviceKey: serviceKey,
		logger:     logger,
	}
}

// UploadEventImage posts the raw file body under events/event-{id}.{ext}.
func (s *ObjectStore) UploadEventImage(ctx context.Context, eventID, filename, contentType string, data []byte) (string, error) {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		ext = "jpg"
	}
	objectPath := fmt.Sprintf("events/event-%s.%s", eventID, ext)
	uploadURL := fmt.Sprintf("%s/object/%s/%s", s.baseURL, s.bucket, objectPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("upload event image: %w", httpclient.ClassifyTransportError(err, "object-storage"))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", httpclient.ParseResponseError(resp, "object-storage")
	}
	_ = resp.Body.Close()

	publicURL := fmt.Sprintf("%s/object/public/%s/%s", s.baseURL, s.bucket, objectPath)
	s.logger.InfoContext(ctx, "event image uploaded",
		slog.String("event_id", eventID),
		slog.String("path", objectPath),
	)
	return publicURL, nil
}

var _ Uploader = (*ObjectStore)(nil)
