package flow

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/placepoint/placepoint/internal/gateway/route"
	"github.com/placepoint/placepoint/internal/geo"
	"github.com/placepoint/placepoint/internal/session"
	"github.com/placepoint/placepoint/internal/view"
)

// Router produces a drivable path between two coordinates.
type Router interface {
	FindRoute(ctx context.Context, origin, destination geo.Coordinate) (route.Path, error)
}

// RouteFlow draws and dismisses the route overlay between the session center
// and a destination.
type RouteFlow struct {
	router  Router
	session *session.Session
	log     *logrus.Logger
}

// NewRouteFlow wires the route flow.
func NewRouteFlow(router Router, sess *session.Session, log *logrus.Logger) *RouteFlow {
	return &RouteFlow{router: router, session: sess, log: log}
}

// Draw replaces the active route overlay with one connecting the session
// center to destination. Without a resolved center it fails with a
// *PreconditionError and mutates nothing.
func (f *RouteFlow) Draw(ctx context.Context, destination geo.Coordinate) (view.RoutePanel, error) {
	center, ok := f.session.Center()
	if !ok {
		return view.RoutePanel{}, &PreconditionError{Message: "search a place first"}
	}

	path, err := f.router.FindRoute(ctx, center, destination)
	if err != nil {
		f.log.WithError(err).Warn("route lookup failed")
		return view.RoutePanel{}, err
	}

	overlay := session.NewRouteOverlay(destination, path)
	f.session.ReplaceRouteOverlay(overlay)

	f.log.WithFields(logrus.Fields{
		"distance_m": path.DistanceMeters,
		"duration_s": path.DurationSeconds,
	}).Info("route drawn")

	return view.Route(overlay), nil
}

// Dismiss releases the active overlay. Dismissing when none exists is a
// no-op.
func (f *RouteFlow) Dismiss() {
	f.session.ClearRouteOverlay()
}
