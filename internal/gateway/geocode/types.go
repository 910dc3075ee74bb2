package geocode

import "github.com/placepoint/placepoint/internal/geo"

// PlaceResult is the first (and only) match for a geocoding query.
type PlaceResult struct {
	Coordinate  geo.Coordinate
	DisplayName string
}

// nominatimResult mirrors one element of the Nominatim search response.
// Latitude and longitude arrive as strings.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
