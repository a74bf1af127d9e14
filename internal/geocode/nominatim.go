// Package geocode resolves free-form addresses to coordinates via the
// Nominatim (OpenStreetMap) public endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/runconnect/runconnect/pkg/httpclient"
)

// Result is a resolved coordinate pair.
type Result struct {
	Lat float64
	Lng float64
}

// Geocoder resolves addresses to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}

// nominatimHit is one entry of the Nominatim search response. Coordinates
// arrive as strings.
type nominatimHit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Nominatim is the OpenStreetMap-backed geocoder.
type Nominatim struct {
	client    *httpclient.Client
	baseURL   string
	userAgent string
	logger    *slog.Logger
}

// NewNominatim creates a Nominatim geocoder. The usage policy requires an
// identifying User-Agent.
func NewNominatim(client *httpclient.Client, baseURL, userAgent string, logger *slog.Logger) *Nominatim {
	return &Nominatim{client: client, baseURL: baseURL, userAgent: userAgent, logger: logger}
}

// Geocode resolves an address. No results is an error: callers treat
// geocoding as best-effort and create events without coordinates on failure.
func (n *Nominatim) Geocode(ctx context.Context, address string) (*Result, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", address)
	q.Set("limit", "1")

	req, err := httpRequest(ctx, n.baseURL+"/search?"+q.Encode(), n.userAgent)
	if err != nil {
		return nil, err
	}

	resp, err := n.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", address, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, httpclient.ParseResponseError(resp, "geocoding")
	}
	defer func() { _ = resp.Body.Close() }()

	var hits []nominatimHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, fmt.Errorf("decode geocoding response: %w", err)
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("no geocoding results for %q", address)
	}

	lat, err1 := strconv.ParseFloat(hits[0].Lat, 64)
	lng, err2 := strconv.ParseFloat(hits[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("malformed coordinates in geocoding response for %q", address)
	}

	n.logger.DebugContext(ctx, "address geocoded",
		slog.String("address", address),
		slog.Float64("lat", lat),
		slog.Float64("lng", lng),
	)
	return &Result{Lat: lat, Lng: lng}, nil
}

var _ Geocoder = (*Nominatim)(nil)
