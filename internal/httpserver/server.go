// Package httpserver is the adapter between the widget's HTTP calls and the
// flows. It carries no business logic: handlers parse requests, invoke a
// flow and map typed errors to statuses.
package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/placepoint/placepoint/internal/flow"
	"github.com/placepoint/placepoint/internal/monitoring"
	"github.com/placepoint/placepoint/internal/session"
)

// Server hosts the widget backend API.
type Server struct {
	engine    *gin.Engine
	log       *logrus.Logger
	metrics   *monitoring.Metrics
	session   *session.Session
	search    *flow.SearchFlow
	route     *flow.RouteFlow
	translate *flow.TranslateFlow
}

// Options carries everything the server needs.
type Options struct {
	Log        *logrus.Logger
	Metrics    *monitoring.Metrics
	Session    *session.Session
	Search     *flow.SearchFlow
	Route      *flow.RouteFlow
	Translate  *flow.TranslateFlow
	CORSOrigin string

	// Per-client token bucket for /api/v1. Burst 0 disables limiting.
	RateLimitBurst  int
	RateLimitRefill time.Duration
}

// New assembles the router.
func New(opts Options) *Server {
	s := &Server{
		log:       opts.Log,
		metrics:   opts.Metrics,
		session:   opts.Session,
		search:    opts.Search,
		route:     opts.Route,
		translate: opts.Translate,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		otelgin.Middleware("placepoint"),
		correlationMiddleware(),
		requestLogMiddleware(opts.Log),
		corsMiddleware(opts.CORSOrigin),
	)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	if opts.RateLimitBurst > 0 {
		api.Use(newRateLimiter(opts.RateLimitBurst, opts.RateLimitRefill).middleware())
	}
	{
		api.POST("/search", s.handleSearch)
		api.POST("/route", s.handleRouteDraw)
		api.DELETE("/route", s.handleRouteDismiss)
		api.POST("/translate", s.handleTranslate)
		api.POST("/translate/swap", s.handleTranslateSwap)
		api.GET("/session", s.handleSessionSnapshot)
	}

	s.engine = engine
	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}
