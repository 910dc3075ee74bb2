// Package session holds the single widget session: the resolved center, the
// active markers and the route overlay. Every handle is exclusively owned by
// the session; replacing a field releases the previous handle first so no
// orphaned map element survives on the widget side.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/placepoint/placepoint/internal/gateway/route"
	"github.com/placepoint/placepoint/internal/geo"
)

// Marker is a handle for one map marker rendered by the widget.
type Marker struct {
	ID         string         `json:"id"`
	Coordinate geo.Coordinate `json:"coordinate"`
	Label      string         `json:"label"`

	released bool
}

// NewMarker creates a marker handle at coord.
func NewMarker(coord geo.Coordinate, label string) *Marker {
	return &Marker{ID: uuid.New().String(), Coordinate: coord, Label: label}
}

// Release marks the marker as removed from the map.
func (m *Marker) Release() { m.released = true }

// Released reports whether the marker was released.
func (m *Marker) Released() bool { return m.released }

// RouteOverlay is a handle for the route path drawn on the map.
type RouteOverlay struct {
	ID          string         `json:"id"`
	Destination geo.Coordinate `json:"destination"`
	Path        route.Path     `json:"path"`

	released bool
}

// NewRouteOverlay creates an overlay handle for path ending at destination.
func NewRouteOverlay(destination geo.Coordinate, path route.Path) *RouteOverlay {
	return &RouteOverlay{ID: uuid.New().String(), Destination: destination, Path: path}
}

// Release marks the overlay as removed from the map.
func (o *RouteOverlay) Release() { o.released = true }

// Released reports whether the overlay was released.
func (o *RouteOverlay) Released() bool { return o.released }

// Session is the process-wide widget state. Its lifetime is the lifetime of
// the process; nothing is persisted. A mutex guards it because the HTTP
// adapter serves requests concurrently; last writer wins.
type Session struct {
	mu sync.Mutex

	center         *geo.Coordinate
	locationMarker *Marker
	poiMarkers     []*Marker
	routeOverlay   *RouteOverlay
}

// New creates an empty session.
func New() *Session {
	return &Session{}
}

// Center returns the current center coordinate, or false when no search has
// resolved one yet.
func (s *Session) Center() (geo.Coordinate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.center == nil {
		return geo.Coordinate{}, false
	}
	return *s.center, true
}

// CommitCenter records a newly resolved center and replaces the location
// marker, releasing the previous one.
func (s *Session) CommitCenter(center geo.Coordinate, marker *Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.center = &center
	if s.locationMarker != nil {
		s.locationMarker.Release()
	}
	s.locationMarker = marker
}

// LocationMarker returns the active location marker, if any.
func (s *Session) LocationMarker() *Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locationMarker
}

// ReplacePOIMarkers releases all current POI markers and installs the new
// set, which mirrors the most recent successful search.
func (s *Session) ReplacePOIMarkers(markers []*Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.poiMarkers {
		m.Release()
	}
	s.poiMarkers = markers
}

// POIMarkers returns the active POI markers in search order.
func (s *Session) POIMarkers() []*Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Marker, len(s.poiMarkers))
	copy(out, s.poiMarkers)
	return out
}

// ReplaceRouteOverlay releases any existing overlay and installs the new one.
func (s *Session) ReplaceRouteOverlay(overlay *RouteOverlay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.routeOverlay != nil {
		s.routeOverlay.Release()
	}
	s.routeOverlay = overlay
}

// ClearRouteOverlay releases the active overlay. It is a no-op when none
// exists.
func (s *Session) ClearRouteOverlay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.routeOverlay != nil {
		s.routeOverlay.Release()
		s.routeOverlay = nil
	}
}

// RouteOverlay returns the active overlay, if any.
func (s *Session) RouteOverlay() *RouteOverlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.routeOverlay
}
