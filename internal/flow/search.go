// Package flow orchestrates the search, route and translation flows over the
// remote gateways and the widget session. Flows are UI-framework agnostic;
// the HTTP adapter translates widget events into flow calls.
package flow

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/placepoint/placepoint/internal/gateway/geocode"
	"github.com/placepoint/placepoint/internal/gateway/poi"
	"github.com/placepoint/placepoint/internal/gateway/weather"
	"github.com/placepoint/placepoint/internal/geo"
	"github.com/placepoint/placepoint/internal/session"
	"github.com/placepoint/placepoint/internal/view"
)

// Search parameters fixed by the widget.
const (
	// SearchRadiusMeters is how far around the resolved center POIs are
	// looked up.
	SearchRadiusMeters = 7000
	// MaxPOIResults caps the POI markers per search.
	MaxPOIResults = 5
)

// SearchState is the search flow's lifecycle state. It is exposed so the
// widget can disable its controls while a search is running.
type SearchState string

const (
	StateIdle      SearchState = "idle"
	StateSearching SearchState = "searching"
	StateSuccess   SearchState = "success"
	StateFailed    SearchState = "failed"
)

// Geocoder resolves a place name to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (geocode.PlaceResult, error)
}

// POIFinder looks up points of interest around a coordinate.
type POIFinder interface {
	FindPOIs(ctx context.Context, center geo.Coordinate, radiusMeters float64, maxResults int) ([]poi.PointOfInterest, error)
}

// WeatherFetcher fetches current conditions at a coordinate.
type WeatherFetcher interface {
	FetchWeather(ctx context.Context, coord geo.Coordinate) (weather.Snapshot, error)
}

// SearchResult is everything a successful search renders: the new viewport,
// the markers and the weather panel. Weather may be in its error state; a
// weather failure degrades the panel without failing the search.
type SearchResult struct {
	Center         geo.Coordinate    `json:"center"`
	Zoom           int               `json:"zoom"`
	LocationMarker view.Marker       `json:"location_marker"`
	Weather        view.WeatherPanel `json:"weather"`
	POIMarkers     []view.Marker     `json:"poi_markers"`
}

// SearchFlow drives a place search: geocode, commit the center, then fetch
// weather and POIs for it. Geocode and POI failures abort the invocation;
// weather failures only degrade the weather panel.
type SearchFlow struct {
	gateways SearchGateways
	session  *session.Session
	log      *logrus.Logger

	mu    sync.Mutex
	state SearchState
}

// SearchGateways bundles the three gateways the search flow needs.
type SearchGateways struct {
	Geocoder Geocoder
	Weather  WeatherFetcher
	POIs     POIFinder
}

// NewSearchFlow wires the search flow.
func NewSearchFlow(gateways SearchGateways, sess *session.Session, log *logrus.Logger) *SearchFlow {
	return &SearchFlow{
		gateways: gateways,
		session:  sess,
		log:      log,
		state:    StateIdle,
	}
}

// State returns the current flow state.
func (f *SearchFlow) State() SearchState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *SearchFlow) setState(s SearchState) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

// Run executes one search. Empty input is rejected synchronously with a
// *ValidationError and no state change. The flow never stays in Searching:
// every exit path lands on Success, Failed or Idle, so the widget's controls
// are always restored.
func (f *SearchFlow) Run(ctx context.Context, place string) (SearchResult, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return SearchResult{}, &ValidationError{Message: "please enter a place name"}
	}

	f.setState(StateSearching)
	defer func() {
		f.mu.Lock()
		if f.state == StateSearching {
			f.state = StateIdle
		}
		f.mu.Unlock()
	}()

	log := f.log.WithField("place", place)

	resolved, err := f.gateways.Geocoder.Geocode(ctx, place)
	if err != nil {
		f.setState(StateFailed)
		log.WithError(err).Warn("geocode failed")
		return SearchResult{}, err
	}
	center := resolved.Coordinate

	// The marker carries the geocoder's full display name; the raw query
	// stands in when the API returned none.
	label := resolved.DisplayName
	if label == "" {
		label = place
	}

	// Commit the center before weather and POIs are issued: both depend on
	// the resolved coordinate.
	marker := session.NewMarker(center, label)
	f.session.CommitCenter(center, marker)
	f.session.ReplacePOIMarkers(nil)

	log = log.WithFields(logrus.Fields{"lat": center.Lat, "lon": center.Lon})
	log.Info("place resolved")

	// Weather and POI lookups are independent; run them concurrently. Only
	// the POI failure aborts the flow.
	var (
		weatherPanel = view.WeatherLoading()
		pois         []poi.PointOfInterest
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snapshot, werr := f.gateways.Weather.FetchWeather(gctx, center)
		if werr != nil {
			log.WithError(werr).Warn("weather fetch failed, degrading panel")
			weatherPanel = view.WeatherError()
			return nil
		}
		weatherPanel = view.Weather(snapshot, place)
		return nil
	})
	g.Go(func() error {
		found, perr := f.gateways.POIs.FindPOIs(gctx, center, SearchRadiusMeters, MaxPOIResults)
		if perr != nil {
			return perr
		}
		pois = found
		return nil
	})
	if err := g.Wait(); err != nil {
		f.setState(StateFailed)
		log.WithError(err).Warn("poi search failed")
		return SearchResult{}, err
	}

	markers := make([]*session.Marker, 0, len(pois))
	poiViews := make([]view.Marker, 0, len(pois))
	for i := range pois {
		pois[i].DistanceFromCenterMeters = geo.DistanceMeters(center, pois[i].Coordinate)
		m := session.NewMarker(pois[i].Coordinate, pois[i].Name)
		markers = append(markers, m)
		poiViews = append(poiViews, view.POIMarker(m, pois[i]))
	}
	f.session.ReplacePOIMarkers(markers)

	f.setState(StateSuccess)
	log.WithField("pois", len(pois)).Info("search complete")

	return SearchResult{
		Center:         center,
		Zoom:           view.SearchZoom,
		LocationMarker: view.LocationMarker(marker, label),
		Weather:        weatherPanel,
		POIMarkers:     poiViews,
	}, nil
}
