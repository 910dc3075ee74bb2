package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placepoint/placepoint/internal/gateway"
)

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "vn", r.URL.Query().Get("countrycodes"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "Hanoi", r.URL.Query().Get("q"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Write([]byte(`[{"lat": "21.0285", "lon": "105.8542", "display_name": "Hanoi, Vietnam"}]`))
	}))
	defer srv.Close()

	s := NewService("vn", WithBaseURL(srv.URL))
	result, err := s.Geocode(context.Background(), " Hanoi ")
	require.NoError(t, err)

	assert.InDelta(t, 21.0285, result.Coordinate.Lat, 1e-9)
	assert.InDelta(t, 105.8542, result.Coordinate.Lon, 1e-9)
	assert.Equal(t, "Hanoi, Vietnam", result.DisplayName)
}

func TestGeocodeNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	s := NewService("vn", WithBaseURL(srv.URL))
	_, err := s.Geocode(context.Background(), "nowhere at all")

	var notFound *gateway.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nowhere at all", notFound.Query)
}

func TestGeocodeUpstreamFailures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{not json`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			s := NewService("vn", WithBaseURL(srv.URL))
			_, err := s.Geocode(context.Background(), "Hanoi")

			var gatewayErr *gateway.GatewayError
			require.ErrorAs(t, err, &gatewayErr)
			assert.Equal(t, "geocode", gatewayErr.Service)
			assert.Equal(t, tt.wantStatus, gatewayErr.Status)
		})
	}
}

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestGeocodeTransportError(t *testing.T) {
	s := NewService("vn", WithHTTPClient(failingDoer{}))
	_, err := s.Geocode(context.Background(), "Hanoi")

	var gatewayErr *gateway.GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.Equal(t, 0, gatewayErr.Status)
}
