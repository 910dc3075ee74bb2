// Package route obtains road-route geometry between two coordinates from the
// OSRM public router. The widget draws the returned path itself; no endpoint
// markers are produced, since the location and POI markers already exist.
package route

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/placepoint/placepoint/internal/gateway"
	"github.com/placepoint/placepoint/internal/geo"
)

const defaultBaseURL = "https://router.project-osrm.org"

// Path is a drivable route between two waypoints.
type Path struct {
	// Geometry is the route line as ordered coordinates.
	Geometry        []geo.Coordinate `json:"geometry"`
	DistanceMeters  float64          `json:"distance_meters"`
	DurationSeconds float64          `json:"duration_seconds"`
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			// GeoJSON LineString positions, [lon, lat] order.
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// Service is the routing gateway.
type Service struct {
	client  gateway.Doer
	baseURL string
}

// Option configures a Service.
type Option func(*Service)

// WithHTTPClient replaces the HTTP client, primarily for tests.
func WithHTTPClient(c gateway.Doer) Option {
	return func(s *Service) { s.client = c }
}

// WithBaseURL points the service at a different OSRM endpoint.
func WithBaseURL(u string) Option {
	return func(s *Service) { s.baseURL = u }
}

// NewService creates a routing gateway.
func NewService(opts ...Option) *Service {
	s := &Service{
		client:  gateway.NewHTTPClient(),
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindRoute returns the driving route from origin to destination.
func (s *Service) FindRoute(ctx context.Context, origin, destination geo.Coordinate) (Path, error) {
	u := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		s.baseURL, origin.Lon, origin.Lat, destination.Lon, destination.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Path{}, &gateway.GatewayError{Service: "route", Err: err}
	}
	req.Header.Set("User-Agent", gateway.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return Path{}, &gateway.GatewayError{Service: "route", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Path{}, &gateway.GatewayError{
			Service: "route",
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var parsed osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Path{}, &gateway.GatewayError{Service: "route", Err: fmt.Errorf("decode response: %w", err)}
	}

	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return Path{}, &gateway.GatewayError{Service: "route", Err: fmt.Errorf("no route found (code %q)", parsed.Code)}
	}

	best := parsed.Routes[0]
	path := Path{
		Geometry:        make([]geo.Coordinate, 0, len(best.Geometry.Coordinates)),
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
	}
	for _, pos := range best.Geometry.Coordinates {
		if len(pos) < 2 {
			return Path{}, &gateway.GatewayError{Service: "route", Err: fmt.Errorf("malformed geometry position %v", pos)}
		}
		path.Geometry = append(path.Geometry, geo.NewCoordinate(pos[1], pos[0]))
	}
	return path, nil
}
