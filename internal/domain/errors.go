package domain

import "errors"

// Error taxonomy shared across services and handlers. Handlers map these to
// HTTP statuses; batch workers capture them as per-route result data.
var (
	// Caller supplied a coordinate outside the valid ranges.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// The routing provider found no drivable route between the endpoints.
	ErrRouteUnreachable = errors.New("route unreachable")

	// The provider or the local token bucket refused the call; retryable.
	ErrRateLimited = errors.New("rate limited")

	// Cache I/O failed; lookups degrade to provider calls instead of failing.
	ErrStoreUnavailable = errors.New("cache store unavailable")

	// Request-level validation failed before any work started.
	ErrValidation = errors.New("validation failed")

	// Pricing succeeded but the dependent permit write did not.
	ErrDownstreamUpdateFailed = errors.New("downstream permit update failed")
)
