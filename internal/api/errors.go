package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for the non-fatal backend states. Views translate these
// into normal UI states (anonymous, empty, pending) rather than error
// banners.
var (
	// ErrAuthRequired marks a 401 or an unauthenticated redirect. Callers
	// degrade to the anonymous state.
	ErrAuthRequired = errors.New("authentication required")

	// ErrNotReady marks a pending result: the backend redirected back to
	// the landing flow instead of returning a measurement.
	ErrNotReady = errors.New("result not ready")

	// ErrNoData marks a 204 response: a valid empty snapshot, not a failure.
	ErrNoData = errors.New("no data for the requested window")

	// ErrNoCachedResult marks a 404 from start-analysis: nothing measured
	// for this URL yet, so a fresh measurement must be started.
	ErrNoCachedResult = errors.New("no cached result for this URL")
)

// RequestError is any other non-2xx response. It is surfaced to the user
// verbatim and never retried automatically.
type RequestError struct {
	Endpoint string
	Status   int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: backend returned %d", e.Endpoint, e.Status)
}
