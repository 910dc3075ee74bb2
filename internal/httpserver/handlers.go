package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/placepoint/placepoint/internal/flow"
	"github.com/placepoint/placepoint/internal/gateway"
	"github.com/placepoint/placepoint/internal/geo"
	"github.com/placepoint/placepoint/internal/monitoring"
	"github.com/placepoint/placepoint/internal/view"
)

type searchRequest struct {
	Query string `json:"query"`
}

type routeRequest struct {
	Destination geo.Coordinate `json:"destination"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
}

type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, "search", &flow.ValidationError{Message: "malformed request body"})
		return
	}

	start := time.Now()
	result, err := s.search.Run(c.Request.Context(), req.Query)
	if err != nil {
		s.metrics.RecordFlow(c.Request.Context(), "search", flowOutcome(err), time.Since(start))
		s.fail(c, "search", err)
		return
	}

	s.metrics.RecordFlow(c.Request.Context(), "search", searchOutcome(result), time.Since(start))
	c.JSON(http.StatusOK, result)
}

// searchOutcome separates clean successes from those that degraded the
// weather panel.
func searchOutcome(result flow.SearchResult) string {
	if result.Weather.State == view.WeatherStateError {
		return monitoring.OutcomeDegraded
	}
	return monitoring.OutcomeSuccess
}

func (s *Server) handleRouteDraw(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, "route", &flow.ValidationError{Message: "malformed request body"})
		return
	}
	if !req.Destination.Valid() {
		s.fail(c, "route", &flow.ValidationError{Message: "destination is out of range"})
		return
	}

	start := time.Now()
	panel, err := s.route.Draw(c.Request.Context(), req.Destination)
	if err != nil {
		s.metrics.RecordFlow(c.Request.Context(), "route", flowOutcome(err), time.Since(start))
		s.fail(c, "route", err)
		return
	}

	s.metrics.RecordFlow(c.Request.Context(), "route", monitoring.OutcomeSuccess, time.Since(start))
	c.JSON(http.StatusOK, panel)
}

func (s *Server) handleRouteDismiss(c *gin.Context) {
	s.route.Dismiss()
	c.Status(http.StatusNoContent)
}

func (s *Server) handleTranslate(c *gin.Context) {
	var req flow.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, "translate", &flow.ValidationError{Message: "malformed request body"})
		return
	}

	start := time.Now()
	translated, err := s.translate.Translate(c.Request.Context(), req)
	if err != nil {
		s.metrics.RecordFlow(c.Request.Context(), "translate", flowOutcome(err), time.Since(start))
		s.fail(c, "translate", err)
		return
	}

	s.metrics.RecordFlow(c.Request.Context(), "translate", monitoring.OutcomeSuccess, time.Since(start))
	c.JSON(http.StatusOK, translateResponse{TranslatedText: translated})
}

func (s *Server) handleTranslateSwap(c *gin.Context) {
	var req flow.SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, "translate", &flow.ValidationError{Message: "malformed request body"})
		return
	}
	c.JSON(http.StatusOK, s.translate.Swap(req))
}

// viewport is where the widget should point its map: the default view before
// any search, the resolved center afterwards.
type viewport struct {
	Center geo.Coordinate `json:"center"`
	Zoom   int            `json:"zoom"`
}

type sessionSnapshot struct {
	Viewport    viewport         `json:"viewport"`
	Center      *geo.Coordinate  `json:"center,omitempty"`
	POICount    int              `json:"poi_count"`
	RouteActive bool             `json:"route_active"`
	SearchState flow.SearchState `json:"search_state"`
}

func (s *Server) handleSessionSnapshot(c *gin.Context) {
	snapshot := sessionSnapshot{
		Viewport: viewport{
			Center: geo.NewCoordinate(view.InitialCenterLat, view.InitialCenterLon),
			Zoom:   view.InitialZoom,
		},
		POICount:    len(s.session.POIMarkers()),
		RouteActive: s.session.RouteOverlay() != nil,
		SearchState: s.search.State(),
	}
	if center, ok := s.session.Center(); ok {
		snapshot.Center = &center
		snapshot.Viewport = viewport{Center: center, Zoom: view.SearchZoom}
	}
	c.JSON(http.StatusOK, snapshot)
}

// fail maps a typed error to its HTTP status and user-facing message.
func (s *Server) fail(c *gin.Context, flowName string, err error) {
	var (
		validationErr   *flow.ValidationError
		preconditionErr *flow.PreconditionError
		notFoundErr     *gateway.NotFoundError
		rateLimitedErr  *gateway.RateLimitedError
		translationErr  *gateway.TranslationError
		gatewayErr      *gateway.GatewayError
	)

	status := http.StatusBadGateway
	resp := errorResponse{Kind: "gateway", Message: "upstream service failed"}

	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		resp = errorResponse{Kind: "validation", Message: validationErr.Message}
	case errors.As(err, &preconditionErr):
		status = http.StatusConflict
		resp = errorResponse{Kind: "precondition", Message: preconditionErr.Message}
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
		resp = errorResponse{Kind: "not_found", Message: "place not found"}
	case errors.As(err, &rateLimitedErr):
		status = http.StatusTooManyRequests
		resp = errorResponse{Kind: "rate_limited", Message: "too many requests, please try again later"}
	case errors.As(err, &translationErr):
		status = http.StatusBadGateway
		resp = errorResponse{Kind: "translation", Message: "could not translate, please try again"}
	case errors.As(err, &gatewayErr):
		// Defaults already cover it.
	}

	s.log.WithError(err).WithField("flow", flowName).Warn("request failed")
	c.JSON(status, resp)
}

// flowOutcome buckets an error for the flow metrics.
func flowOutcome(err error) string {
	var validationErr *flow.ValidationError
	var preconditionErr *flow.PreconditionError
	if errors.As(err, &validationErr) || errors.As(err, &preconditionErr) {
		return monitoring.OutcomeRejected
	}
	return monitoring.OutcomeFailed
}
