// Package view turns gateway results into the JSON view models the widget
// paints. Everything here is a pure function of its inputs.
package view

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/placepoint/placepoint/internal/gateway/poi"
	"github.com/placepoint/placepoint/internal/gateway/weather"
	"github.com/placepoint/placepoint/internal/geo"
	"github.com/placepoint/placepoint/internal/session"
)

// Initial widget viewport, before any search.
const (
	InitialCenterLat = 16.0
	InitialCenterLon = 108.0
	InitialZoom      = 10
	// SearchZoom is the recenter zoom after a successful search.
	SearchZoom = 14
)

// Weather panel states.
const (
	WeatherStateLoading = "loading"
	WeatherStateError   = "error"
	WeatherStateOK      = "ok"
)

// WeatherErrorMessage is the inline degraded-weather text.
const WeatherErrorMessage = "Weather information is unavailable"

// Marker is a rendered map marker with its popup content.
type Marker struct {
	ID         string         `json:"id"`
	Coordinate geo.Coordinate `json:"coordinate"`
	Popup      Popup          `json:"popup"`
}

// Popup is the marker popup body. DistanceMeters and the route affordance
// are only present on POI markers.
type Popup struct {
	Title          string `json:"title"`
	Category       string `json:"category,omitempty"`
	DistanceMeters *int   `json:"distance_meters,omitempty"`
	RouteAvailable bool   `json:"route_available,omitempty"`
}

// WeatherPanel is the weather box next to the map.
type WeatherPanel struct {
	State           string  `json:"state"`
	Place           string  `json:"place,omitempty"`
	TemperatureText string  `json:"temperature_text,omitempty"`
	Description     string  `json:"description,omitempty"`
	WindSpeedMps    float64 `json:"wind_speed_mps,omitempty"`
	HumidityPercent int     `json:"humidity_percent,omitempty"`
	Message         string  `json:"message,omitempty"`
}

// LineStyle is the route path styling the widget applies.
type LineStyle struct {
	Color   string  `json:"color"`
	Weight  int     `json:"weight"`
	Opacity float64 `json:"opacity"`
}

// RoutePanel is the rendered route overlay plus its side panel. No endpoint
// markers are included: the location and POI markers already mark both ends.
type RoutePanel struct {
	OverlayID       string           `json:"overlay_id"`
	Geometry        []geo.Coordinate `json:"geometry"`
	DistanceMeters  float64          `json:"distance_meters"`
	DurationSeconds float64          `json:"duration_seconds"`
	Style           LineStyle        `json:"style"`
	Dismissible     bool             `json:"dismissible"`
}

// RouteLineStyle matches the widget's route styling.
var RouteLineStyle = LineStyle{Color: "#0066cc", Weight: 4, Opacity: 0.7}

// LocationMarker renders the center-location marker.
func LocationMarker(m *session.Marker, place string) Marker {
	return Marker{
		ID:         m.ID,
		Coordinate: m.Coordinate,
		Popup:      Popup{Title: "Location: " + place},
	}
}

// POIMarker renders one point of interest with its distance annotation.
func POIMarker(m *session.Marker, p poi.PointOfInterest) Marker {
	distance := p.DistanceFromCenterMeters
	return Marker{
		ID:         m.ID,
		Coordinate: m.Coordinate,
		Popup: Popup{
			Title:          p.Name,
			Category:       p.Category,
			DistanceMeters: &distance,
			RouteAvailable: true,
		},
	}
}

// WeatherLoading renders the placeholder shown while the fetch is in flight.
func WeatherLoading() WeatherPanel {
	return WeatherPanel{State: WeatherStateLoading}
}

// WeatherError renders the degraded state: the search flow survives a
// weather failure.
func WeatherError() WeatherPanel {
	return WeatherPanel{State: WeatherStateError, Message: WeatherErrorMessage}
}

// Weather renders a snapshot. The description gets its first letter
// capitalized and the place name is title-cased, matching the widget's
// presentation.
func Weather(snapshot weather.Snapshot, place string) WeatherPanel {
	return WeatherPanel{
		State:           WeatherStateOK,
		Place:           titleCase(place),
		TemperatureText: formatTemperature(snapshot.TemperatureCelsius),
		Description:     capitalizeFirst(snapshot.Description),
		WindSpeedMps:    snapshot.WindSpeedMps,
		HumidityPercent: snapshot.HumidityPercent,
	}
}

// Route renders the active overlay and its dismissible side panel.
func Route(overlay *session.RouteOverlay) RoutePanel {
	return RoutePanel{
		OverlayID:       overlay.ID,
		Geometry:        overlay.Path.Geometry,
		DistanceMeters:  overlay.Path.DistanceMeters,
		DurationSeconds: overlay.Path.DurationSeconds,
		Style:           RouteLineStyle,
		Dismissible:     true,
	}
}

// formatTemperature renders the 1-decimal temperature with its unit.
func formatTemperature(celsius float64) string {
	return strconv.FormatFloat(celsius, 'f', 1, 64) + "°C"
}

// capitalizeFirst upper-cases the first rune, leaving the rest untouched.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// titleCase upper-cases the first rune of each word and lower-cases the rest.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
