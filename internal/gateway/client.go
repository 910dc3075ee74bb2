package gateway

import (
	"net/http"
	"time"
)

// UserAgent identifies the service to the OSM-family APIs, which require a
// descriptive agent string.
const UserAgent = "placepoint/1.0"

// Doer is the part of *http.Client the gateways use. Tests substitute it with
// a stub.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns the pooled client shared by the gateways. No overall
// timeout is set; the geocode, POI and weather calls are unbounded and only
// the private translation backend attempt carries its own deadline.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     30 * time.Second,
		},
	}
}
