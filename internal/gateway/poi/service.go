// Package poi finds tagged places around a coordinate via the Overpass API.
package poi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/placepoint/placepoint/internal/gateway"
	"github.com/placepoint/placepoint/internal/geo"
)

const defaultBaseURL = "https://overpass-api.de/api/interpreter"

// FallbackName labels a place whose tags carry no usable name.
const FallbackName = "(unnamed)"

// overFetchFactor asks Overpass for more elements than needed so that
// post-filtering still leaves enough. Truncation keeps upstream order; the
// survivors are not guaranteed to be the nearest ones.
const overFetchFactor = 5

// nodeSelectors are the tag filters queried as point features, in the order
// the upstream query lists them.
var nodeSelectors = [][2]string{
	{"amenity", "restaurant"},
	{"amenity", "cafe"},
	{"amenity", "bar"},
	{"amenity", "fast_food"},
	{"shop", "convenience"},
	{"shop", "supermarket"},
	{"shop", "mall"},
	{"tourism", "hotel"},
	{"tourism", "attraction"},
	{"amenity", "place_of_worship"},
	{"amenity", "bank"},
	{"amenity", "hospital"},
	{"amenity", "school"},
}

// waySelectors are the tag filters additionally queried as area features,
// contributing their centroid as coordinate.
var waySelectors = [][2]string{
	{"amenity", "restaurant"},
	{"amenity", "cafe"},
	{"shop", "mall"},
	{"tourism", "hotel"},
	{"amenity", "place_of_worship"},
}

// Service is the POI gateway.
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

// WithBaseURL points the service at a different Overpass endpoint.
func WithBaseURL(u string) Option {
	return func(s *Service) { s.baseURL = u }
}

// NewService creates a POI gateway.
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

// FindPOIs queries the fixed category set within radiusMeters of center and
// returns at most maxResults places in upstream order. An empty result set is
// not an error; only transport and parse failures are.
func (s *Service) FindPOIs(ctx context.Context, center geo.Coordinate, radiusMeters float64, maxResults int) ([]PointOfInterest, error) {
	query := buildQuery(center, radiusMeters, maxResults)
	u := s.baseURL + "?data=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &gateway.GatewayError{Service: "poi", Err: err}
	}
	req.Header.Set("User-Agent", gateway.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &gateway.GatewayError{Service: "poi", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &gateway.GatewayError{
			Service: "poi",
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var parsed overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &gateway.GatewayError{Service: "poi", Err: fmt.Errorf("decode response: %w", err)}
	}

	pois := make([]PointOfInterest, 0, maxResults)
	for _, el := range parsed.Elements {
		coord, ok := elementCoordinate(el)
		if !ok || len(el.Tags) == 0 {
			continue
		}
		pois = append(pois, PointOfInterest{
			Coordinate: coord,
			Name:       elementName(el.Tags),
			Category:   elementCategory(el.Tags),
		})
		if len(pois) == maxResults {
			break
		}
	}
	return pois, nil
}

func buildQuery(center geo.Coordinate, radiusMeters float64, maxResults int) string {
	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, sel := range nodeSelectors {
		fmt.Fprintf(&b, "  node[%q=%q](around:%.0f,%f,%f);\n", sel[0], sel[1], radiusMeters, center.Lat, center.Lon)
	}
	for _, sel := range waySelectors {
		fmt.Fprintf(&b, "  way[%q=%q](around:%.0f,%f,%f);\n", sel[0], sel[1], radiusMeters, center.Lat, center.Lon)
	}
	fmt.Fprintf(&b, ");\nout center %d;\n", maxResults*overFetchFactor)
	return b.String()
}

// elementCoordinate returns the element's position: nodes carry it directly,
// ways contribute their centroid. An element with neither is unusable.
func elementCoordinate(el overpassElement) (geo.Coordinate, bool) {
	if el.Center != nil {
		return geo.NewCoordinate(el.Center.Lat, el.Center.Lon), true
	}
	if el.Type == "node" && el.Lat != nil && el.Lon != nil {
		return geo.NewCoordinate(*el.Lat, *el.Lon), true
	}
	return geo.Coordinate{}, false
}

// elementName derives a display name. The proper name wins; otherwise the
// shop, amenity, tourism and leisure tags are tried in that order.
func elementName(tags map[string]string) string {
	for _, key := range []string{"name", "shop", "amenity", "tourism", "leisure"} {
		if v := tags[key]; v != "" {
			return v
		}
	}
	return FallbackName
}

// elementCategory derives the category tag. Note the order differs from the
// name fallback: amenity outranks shop here.
func elementCategory(tags map[string]string) string {
	for _, key := range []string{"amenity", "tourism", "shop", "leisure"} {
		if v := tags[key]; v != "" {
			return v
		}
	}
	return "place"
}
