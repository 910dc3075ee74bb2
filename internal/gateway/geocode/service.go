// Package geocode resolves free-text place names to coordinates via the
// Nominatim API, scoped to a single country and capped at one result.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/placepoint/placepoint/internal/gateway"
	"github.com/placepoint/placepoint/internal/geo"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Service is the geocode gateway.
type Service struct {
	client      gateway.Doer
	baseURL     string
	countryCode string
	cache       *Cache
}

// Option configures a Service.
type Option func(*Service)

// WithHTTPClient replaces the HTTP client, primarily for tests.
func WithHTTPClient(c gateway.Doer) Option {
	return func(s *Service) { s.client = c }
}

// WithBaseURL points the service at a different Nominatim endpoint.
func WithBaseURL(u string) Option {
	return func(s *Service) { s.baseURL = strings.TrimRight(u, "/") }
}

// WithCache adds a read-through cache in front of the API.
func WithCache(c *Cache) Option {
	return func(s *Service) { s.cache = c }
}

// NewService creates a geocode gateway scoped to countryCode.
func NewService(countryCode string, opts ...Option) *Service {
	s := &Service{
		client:      gateway.NewHTTPClient(),
		baseURL:     defaultBaseURL,
		countryCode: countryCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Geocode resolves place to a coordinate. It requests at most one match and
// fails with *gateway.NotFoundError when the API returns an empty result set.
// There are no retries; the first failure surfaces to the caller.
func (s *Service) Geocode(ctx context.Context, place string) (PlaceResult, error) {
	place = strings.TrimSpace(place)

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, s.countryCode, place); ok {
			return cached, nil
		}
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", place)
	params.Set("countrycodes", s.countryCode)
	params.Set("limit", "1")

	u := fmt.Sprintf("%s/search?%s", s.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return PlaceResult{}, &gateway.GatewayError{Service: "geocode", Err: err}
	}
	req.Header.Set("User-Agent", gateway.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return PlaceResult{}, &gateway.GatewayError{Service: "geocode", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return PlaceResult{}, &gateway.GatewayError{
			Service: "geocode",
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return PlaceResult{}, &gateway.GatewayError{Service: "geocode", Err: fmt.Errorf("decode response: %w", err)}
	}

	if len(results) == 0 {
		return PlaceResult{}, &gateway.NotFoundError{Query: place}
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return PlaceResult{}, &gateway.GatewayError{Service: "geocode", Err: fmt.Errorf("parse lat %q: %w", results[0].Lat, err)}
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return PlaceResult{}, &gateway.GatewayError{Service: "geocode", Err: fmt.Errorf("parse lon %q: %w", results[0].Lon, err)}
	}

	result := PlaceResult{
		Coordinate:  geo.NewCoordinate(lat, lon),
		DisplayName: results[0].DisplayName,
	}

	if s.cache != nil {
		s.cache.Set(ctx, s.countryCode, place, result)
	}

	return result, nil
}
