package ports

import (
	"context"
	"fmt"
	"haul-quote-service/internal/domain"
	"time"
)

// TravelOptions tune a provider lookup. Zero values mean provider defaults.
type TravelOptions struct {
	TrafficModel  string
	DepartureTime *time.Time
}

// ProviderResult is one drive-time measurement between two coordinates.
// RawResponse preserves the provider payload for the cache.
type ProviderResult struct {
	DistanceMeters           int
	DurationSeconds          int
	DurationInTrafficSeconds *int
	RawResponse              []byte
}

// Contract for the external routing API. All provider-specific request and
// response shapes stay behind this seam. Adapters do not retry; retry policy
// belongs to the caller so rate-limit accounting stays centralized.
type DistanceProvider interface {
	FetchDistance(ctx context.Context, origin, destination domain.Coordinate, opts TravelOptions) (ProviderResult, error)
}

// ProviderErrorKind classifies provider failures for the caller's policy.
type ProviderErrorKind string

const (
	// The provider found no route between the endpoints.
	KindZeroResults ProviderErrorKind = "zero_results"
	// The provider rejected the request as malformed or unresolvable.
	KindInvalidRequest ProviderErrorKind = "invalid_request"
	// The provider refused the call due to quota or throttling.
	KindRateLimited ProviderErrorKind = "rate_limited"
	// Network failure or 5xx; safe to retry from the caller's side.
	KindTransient ProviderErrorKind = "transient"
)

// ProviderError is the typed failure returned by provider adapters.
type ProviderError struct {
	Kind    ProviderErrorKind
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("provider %s: %s", e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }
