package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placepoint/placepoint/internal/gateway"
	"github.com/placepoint/placepoint/internal/gateway/route"
	"github.com/placepoint/placepoint/internal/geo"
	"github.com/placepoint/placepoint/internal/session"
)

type fakeRouter struct {
	path  route.Path
	err   error
	calls int
}

func (f *fakeRouter) FindRoute(ctx context.Context, origin, destination geo.Coordinate) (route.Path, error) {
	f.calls++
	return f.path, f.err
}

func sessionWithCenter(center geo.Coordinate) *session.Session {
	s := session.New()
	s.CommitCenter(center, session.NewMarker(center, "test"))
	return s
}

func TestRouteFlowRequiresCenter(t *testing.T) {
	router := &fakeRouter{}
	f := NewRouteFlow(router, session.New(), testLogger())

	_, err := f.Draw(context.Background(), geo.NewCoordinate(21.04, 105.86))

	var precondition *PreconditionError
	require.ErrorAs(t, err, &precondition)
	assert.Equal(t, "search a place first", precondition.Message)
	assert.Zero(t, router.calls)
}

func TestRouteFlowDraw(t *testing.T) {
	sess := sessionWithCenter(hanoi)
	router := &fakeRouter{path: route.Path{
		Geometry:       []geo.Coordinate{hanoi, {Lat: 21.04, Lon: 105.86}},
		DistanceMeters: 1500,
	}}
	f := NewRouteFlow(router, sess, testLogger())

	panel, err := f.Draw(context.Background(), geo.NewCoordinate(21.04, 105.86))
	require.NoError(t, err)

	assert.True(t, panel.Dismissible)
	assert.Len(t, panel.Geometry, 2)
	require.NotNil(t, sess.RouteOverlay())
	assert.Equal(t, panel.OverlayID, sess.RouteOverlay().ID)
}

func TestRouteFlowSequentialDrawsKeepOneOverlay(t *testing.T) {
	sess := sessionWithCenter(hanoi)
	f := NewRouteFlow(&fakeRouter{path: route.Path{DistanceMeters: 1000}}, sess, testLogger())

	first, err := f.Draw(context.Background(), geo.NewCoordinate(21.04, 105.86))
	require.NoError(t, err)
	firstOverlay := sess.RouteOverlay()

	second, err := f.Draw(context.Background(), geo.NewCoordinate(21.05, 105.87))
	require.NoError(t, err)

	assert.NotEqual(t, first.OverlayID, second.OverlayID)
	assert.True(t, firstOverlay.Released())
	require.NotNil(t, sess.RouteOverlay())
	assert.Equal(t, second.OverlayID, sess.RouteOverlay().ID)
}

func TestRouteFlowGatewayFailureKeepsState(t *testing.T) {
	sess := sessionWithCenter(hanoi)
	f := NewRouteFlow(&fakeRouter{err: &gateway.GatewayError{Service: "route", Err: errors.New("down")}}, sess, testLogger())

	_, err := f.Draw(context.Background(), geo.NewCoordinate(21.04, 105.86))

	var gatewayErr *gateway.GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.Nil(t, sess.RouteOverlay())
}

func TestRouteFlowDismiss(t *testing.T) {
	sess := sessionWithCenter(hanoi)
	f := NewRouteFlow(&fakeRouter{}, sess, testLogger())

	_, err := f.Draw(context.Background(), geo.NewCoordinate(21.04, 105.86))
	require.NoError(t, err)
	overlay := sess.RouteOverlay()

	f.Dismiss()
	assert.True(t, overlay.Released())
	assert.Nil(t, sess.RouteOverlay())

	// A second dismiss has nothing left to release.
	f.Dismiss()
	assert.Nil(t, sess.RouteOverlay())
}
