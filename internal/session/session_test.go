package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placepoint/placepoint/internal/gateway/route"
	"github.com/placepoint/placepoint/internal/geo"
)

func TestCommitCenterReleasesOldMarker(t *testing.T) {
	s := New()

	_, ok := s.Center()
	assert.False(t, ok)

	first := NewMarker(geo.NewCoordinate(21.03, 105.85), "Hanoi")
	s.CommitCenter(first.Coordinate, first)

	center, ok := s.Center()
	require.True(t, ok)
	assert.Equal(t, first.Coordinate, center)
	assert.False(t, first.Released())

	second := NewMarker(geo.NewCoordinate(16.05, 108.20), "Da Nang")
	s.CommitCenter(second.Coordinate, second)

	assert.True(t, first.Released())
	assert.False(t, second.Released())
	assert.Same(t, second, s.LocationMarker())
}

func TestReplacePOIMarkers(t *testing.T) {
	s := New()

	old := []*Marker{
		NewMarker(geo.NewCoordinate(21.01, 105.81), "a"),
		NewMarker(geo.NewCoordinate(21.02, 105.82), "b"),
	}
	s.ReplacePOIMarkers(old)

	fresh := []*Marker{NewMarker(geo.NewCoordinate(21.03, 105.83), "c")}
	s.ReplacePOIMarkers(fresh)

	for _, m := range old {
		assert.True(t, m.Released())
	}
	got := s.POIMarkers()
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].Label)
	assert.False(t, got[0].Released())
}

func TestRouteOverlayReplaceAndClear(t *testing.T) {
	s := New()
	dest := geo.NewCoordinate(21.04, 105.86)

	first := NewRouteOverlay(dest, route.Path{DistanceMeters: 100})
	s.ReplaceRouteOverlay(first)
	assert.Same(t, first, s.RouteOverlay())

	// Two sequential routes: exactly one live overlay at any time.
	second := NewRouteOverlay(dest, route.Path{DistanceMeters: 200})
	s.ReplaceRouteOverlay(second)
	assert.True(t, first.Released())
	assert.False(t, second.Released())
	assert.Same(t, second, s.RouteOverlay())

	s.ClearRouteOverlay()
	assert.True(t, second.Released())
	assert.Nil(t, s.RouteOverlay())

	// Clearing twice is harmless.
	s.ClearRouteOverlay()
	assert.Nil(t, s.RouteOverlay())
}
