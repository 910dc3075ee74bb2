// Package gateway holds what the remote API clients have in common: the error
// taxonomy surfaced to the flows and the shared HTTP client settings.
package gateway

import "fmt"

// NotFoundError reports that a lookup completed but matched nothing.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no results for %q", e.Query)
}

// GatewayError reports a transport failure or a malformed/unsuccessful
// response from a remote API. Status is the HTTP status code when one was
// received, 0 otherwise.
type GatewayError struct {
	Service string
	Status  int
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s gateway: status %d: %v", e.Service, e.Status, e.Err)
	}
	return fmt.Sprintf("%s gateway: %v", e.Service, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// RateLimitedError reports that the public translation fallback refused the
// request because of rate limiting.
type RateLimitedError struct {
	Service string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: rate limited", e.Service)
}

// TranslationError reports a translation failure that is neither a transport
// error nor rate limiting.
type TranslationError struct {
	Reason string
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation failed: %s", e.Reason)
}
