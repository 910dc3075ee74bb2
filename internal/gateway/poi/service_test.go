package poi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placepoint/placepoint/internal/gateway"
	"github.com/placepoint/placepoint/internal/geo"
)

var hanoi = geo.NewCoordinate(21.0285, 105.8542)

func overpassServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("data")
		assert.Contains(t, query, "[out:json][timeout:25];")
		w.Write([]byte(body))
	}))
}

func TestFindPOIs(t *testing.T) {
	srv := overpassServer(t, `{
		"elements": [
			{"type": "node", "lat": 21.03, "lon": 105.85, "tags": {"name": "Pho 10", "amenity": "restaurant"}},
			{"type": "way", "center": {"lat": 21.04, "lon": 105.86}, "tags": {"name": "Vincom Center", "shop": "mall"}},
			{"type": "way", "tags": {"name": "no center, dropped"}},
			{"type": "node", "lat": 21.05, "lon": 105.87}
		]
	}`)
	defer srv.Close()

	s := NewService(WithBaseURL(srv.URL))
	pois, err := s.FindPOIs(context.Background(), hanoi, 7000, 5)
	require.NoError(t, err)
	require.Len(t, pois, 2)

	assert.Equal(t, "Pho 10", pois[0].Name)
	assert.Equal(t, "restaurant", pois[0].Category)
	assert.InDelta(t, 21.03, pois[0].Coordinate.Lat, 1e-9)

	// The way contributes its centroid.
	assert.Equal(t, "Vincom Center", pois[1].Name)
	assert.InDelta(t, 21.04, pois[1].Coordinate.Lat, 1e-9)
	assert.InDelta(t, 105.86, pois[1].Coordinate.Lon, 1e-9)
}

func TestFindPOIsDropsNodesWithoutCoordinates(t *testing.T) {
	srv := overpassServer(t, `{
		"elements": [
			{"type": "node", "tags": {"name": "ghost cafe", "amenity": "cafe"}},
			{"type": "node", "lat": 21.03, "lon": 105.85, "tags": {"name": "real cafe", "amenity": "cafe"}},
			{"type": "node", "lat": 21.03, "tags": {"name": "half a position", "amenity": "cafe"}}
		]
	}`)
	defer srv.Close()

	s := NewService(WithBaseURL(srv.URL))
	pois, err := s.FindPOIs(context.Background(), hanoi, 7000, 5)
	require.NoError(t, err)
	require.Len(t, pois, 1)
	assert.Equal(t, "real cafe", pois[0].Name)
}

func TestFindPOIsTruncatesInUpstreamOrder(t *testing.T) {
	var elements []string
	for i := 0; i < 8; i++ {
		elements = append(elements, fmt.Sprintf(
			`{"type": "node", "lat": 21.0, "lon": 105.8, "tags": {"name": "poi-%d", "amenity": "cafe"}}`, i))
	}
	srv := overpassServer(t, `{"elements": [`+strings.Join(elements, ",")+`]}`)
	defer srv.Close()

	s := NewService(WithBaseURL(srv.URL))
	pois, err := s.FindPOIs(context.Background(), hanoi, 7000, 5)
	require.NoError(t, err)
	require.Len(t, pois, 5)
	for i, p := range pois {
		assert.Equal(t, fmt.Sprintf("poi-%d", i), p.Name)
	}
}

func TestFindPOIsEmptyResult(t *testing.T) {
	srv := overpassServer(t, `{"elements": []}`)
	defer srv.Close()

	s := NewService(WithBaseURL(srv.URL))
	pois, err := s.FindPOIs(context.Background(), hanoi, 7000, 5)
	require.NoError(t, err)
	assert.Empty(t, pois)
}

func TestFindPOIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewService(WithBaseURL(srv.URL))
	_, err := s.FindPOIs(context.Background(), hanoi, 7000, 5)

	var gatewayErr *gateway.GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.Equal(t, http.StatusTooManyRequests, gatewayErr.Status)
}

func TestBuildQueryOverFetches(t *testing.T) {
	query := buildQuery(hanoi, 7000, 5)
	assert.Contains(t, query, "out center 25;")
	assert.Contains(t, query, `node["amenity"="restaurant"](around:7000,`)
	assert.Contains(t, query, `way["tourism"="hotel"](around:7000,`)
	// Bars are only queried as nodes, not ways.
	assert.NotContains(t, query, `way["amenity"="bar"]`)
}

func TestElementName(t *testing.T) {
	tests := []struct {
		name string
		tags map[string]string
		want string
	}{
		{"proper name wins", map[string]string{"name": "Cafe Giang", "shop": "mall", "amenity": "cafe"}, "Cafe Giang"},
		{"shop before amenity", map[string]string{"shop": "supermarket", "amenity": "restaurant"}, "supermarket"},
		{"amenity before tourism", map[string]string{"amenity": "bank", "tourism": "hotel"}, "bank"},
		{"tourism before leisure", map[string]string{"tourism": "attraction", "leisure": "park"}, "attraction"},
		{"leisure last resort", map[string]string{"leisure": "park"}, "park"},
		{"placeholder when nothing usable", map[string]string{"building": "yes"}, FallbackName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, elementName(tt.tags))
		})
	}
}

func TestElementCategory(t *testing.T) {
	tests := []struct {
		name string
		tags map[string]string
		want string
	}{
		{"amenity before shop", map[string]string{"shop": "supermarket", "amenity": "restaurant"}, "restaurant"},
		{"amenity before tourism", map[string]string{"amenity": "cafe", "tourism": "hotel"}, "cafe"},
		{"tourism before shop", map[string]string{"tourism": "hotel", "shop": "mall"}, "hotel"},
		{"shop before leisure", map[string]string{"shop": "mall", "leisure": "park"}, "mall"},
		{"generic fallback", map[string]string{"building": "yes"}, "place"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, elementCategory(tt.tags))
		})
	}
}
