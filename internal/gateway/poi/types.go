package poi

import "github.com/placepoint/placepoint/internal/geo"

// PointOfInterest is a tagged place near a search center. Distance is filled
// in by the search flow once the center is known; the gateway leaves it zero.
type PointOfInterest struct {
	Coordinate               geo.Coordinate `json:"coordinate"`
	Name                     string         `json:"name"`
	Category                 string         `json:"category"`
	DistanceFromCenterMeters int            `json:"distance_from_center_meters"`
}

// overpassResponse mirrors the Overpass interpreter JSON output.
type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// overpassElement is one node or way. Nodes carry lat/lon directly; ways
// carry a computed center instead. The position fields are pointers so an
// element that omits them is distinguishable from one at 0,0.
type overpassElement struct {
	Type   string            `json:"type"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *overpassCenter   `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
