package services

import (
	"context"
	"errors"
	"fmt"
	"haul-quote-service/internal/domain"
	"haul-quote-service/internal/platform/ratelimit"
	"haul-quote-service/internal/ports"
	"log"
	"sync/atomic"
	"time"
)

// RouteResult is the outcome of a single-route lookup.
type RouteResult struct {
	DistanceMeters           int
	DurationSeconds          int
	DurationInTrafficSeconds *int
	Cached                   bool
	CacheAge                 time.Duration
}

// DistanceService orchestrates single-route lookups: cache read, provider
// call on miss, write-through. The token bucket gates provider calls only;
// cache hits are never throttled.
type DistanceService struct {
	Cache    ports.RouteCache
	Provider ports.DistanceProvider
	Limiter  *ratelimit.Bucket
	TTL      time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func NewDistanceService(
	cache ports.RouteCache,
	provider ports.DistanceProvider,
	limiter *ratelimit.Bucket,
	ttl time.Duration,
) *DistanceService {
	return &DistanceService{
		Cache:    cache,
		Provider: provider,
		Limiter:  limiter,
		TTL:      ttl,
	}
}

// Calculate resolves one route. Exactly one cache write happens per miss and
// zero per hit. A failing cache degrades to a provider call instead of
// failing the lookup.
func (s *DistanceService) Calculate(
	ctx context.Context,
	origin, destination domain.Coordinate,
	opts ports.TravelOptions,
) (RouteResult, error) {
	key, err := domain.NewRouteKey(origin, destination)
	if err != nil {
		return RouteResult{}, err
	}

	if s.Cache != nil {
		entry, found, err := s.Cache.Get(ctx, key)
		if err != nil {
			// Degrade: a broken store must not take lookups down with it.
			log.Printf("route cache read failed, continuing without cache: key=%s err=%v", key, err)
		} else if found {
			s.hits.Add(1)
			return RouteResult{
				DistanceMeters:           entry.DistanceMeters,
				DurationSeconds:          entry.DurationSeconds,
				DurationInTrafficSeconds: entry.DurationInTrafficSeconds,
				Cached:                   true,
				CacheAge:                 entry.Age(time.Now()),
			}, nil
		}
	}

	s.misses.Add(1)

	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return RouteResult{}, fmt.Errorf("wait for provider call slot: %w", err)
		}
	}

	fetched, err := s.Provider.FetchDistance(ctx, origin, destination, opts)
	if err != nil {
		return RouteResult{}, mapProviderError(err)
	}

	now := time.Now().UTC()
	entry := &domain.CacheEntry{
		RouteKey:                 key,
		Origin:                   origin.Rounded(),
		Destination:              destination.Rounded(),
		DistanceMeters:           fetched.DistanceMeters,
		DurationSeconds:          fetched.DurationSeconds,
		DurationInTrafficSeconds: fetched.DurationInTrafficSeconds,
		RawResponse:              fetched.RawResponse,
		CreatedAt:                now,
		ExpiresAt:                now.Add(s.TTL),
	}

	if s.Cache != nil {
		if err := s.Cache.Put(ctx, entry); err != nil {
			log.Printf("route cache write failed: key=%s err=%v", key, err)
		}
	}

	return RouteResult{
		DistanceMeters:           fetched.DistanceMeters,
		DurationSeconds:          fetched.DurationSeconds,
		DurationInTrafficSeconds: fetched.DurationInTrafficSeconds,
		Cached:                   false,
	}, nil
}

// Counters returns cumulative cache hits and misses for telemetry.
func (s *DistanceService) Counters() (hits, misses int64) {
	return s.hits.Load(), s.misses.Load()
}

// mapProviderError lifts provider error kinds into the domain taxonomy.
// ZeroResults and InvalidRequest both mean the route cannot be priced;
// RateLimited stays retryable for the caller to back off on.
func mapProviderError(err error) error {
	var pe *ports.ProviderError
	if !errors.As(err, &pe) {
		return fmt.Errorf("fetch distance: %w", err)
	}

	switch pe.Kind {
	case ports.KindZeroResults, ports.KindInvalidRequest:
		return fmt.Errorf("%w: %s", domain.ErrRouteUnreachable, pe.Message)
	case ports.KindRateLimited:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, pe.Message)
	default:
		return fmt.Errorf("fetch distance: %w", err)
	}
}
