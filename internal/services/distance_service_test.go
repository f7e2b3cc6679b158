package services

import (
	"context"
	"errors"
	"fmt"
	"haul-quote-service/internal/adapters/cache"
	"haul-quote-service/internal/adapters/distance"
	"haul-quote-service/internal/domain"
	"haul-quote-service/internal/ports"
	"testing"
	"time"
)

var (
	testOrigin = domain.Coordinate{Lat: 32.7157, Lng: -117.1611}
	testDest   = domain.Coordinate{Lat: 33.1192, Lng: -117.0864}
)

func newTestService(provider ports.DistanceProvider) (*DistanceService, *cache.MemoryRouteCache) {
	store := cache.NewMemoryRouteCache()
	return NewDistanceService(store, provider, nil, 30*24*time.Hour), store
}

func TestCalculateMissThenHit(t *testing.T) {
	provider := distance.NewMockDistanceProvider([]distance.MockRoute{
		{From: testOrigin, To: testDest, Meters: 42000, Seconds: 1800},
	})
	svc, _ := newTestService(provider)

	first, err := svc.Calculate(context.Background(), testOrigin, testDest, ports.TravelOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Cached {
		t.Fatal("first lookup must be a miss")
	}
	if first.DistanceMeters != 42000 || first.DurationSeconds != 1800 {
		t.Fatalf("unexpected result: %+v", first)
	}

	second, err := svc.Calculate(context.Background(), testOrigin, testDest, ports.TravelOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Cached {
		t.Fatal("second lookup must be a cache hit")
	}

	if calls := provider.Calls(); calls != 1 {
		t.Fatalf("provider calls = %d, want 1 (hit must not reach the provider)", calls)
	}

	hits, misses := svc.Counters()
	if hits != 1 || misses != 1 {
		t.Fatalf("counters = %d hits / %d misses, want 1/1", hits, misses)
	}
}

func TestCalculateHitForEquivalentCoordinates(t *testing.T) {
	provider := distance.NewMockDistanceProvider([]distance.MockRoute{
		{From: testOrigin, To: testDest, Meters: 42000, Seconds: 1800},
	})
	svc, _ := newTestService(provider)

	if _, err := svc.Calculate(context.Background(), testOrigin, testDest, ports.TravelOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Differs only past the sixth decimal, so it rounds to the same key.
	equivalent := domain.Coordinate{Lat: 32.7157000004, Lng: -117.1611000003}
	res, err := svc.Calculate(context.Background(), equivalent, testDest, ports.TravelOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Cached {
		t.Fatal("equivalent coordinates must hit the cache")
	}
	if calls := provider.Calls(); calls != 1 {
		t.Fatalf("provider calls = %d, want 1", calls)
	}
}

func TestCalculateInvalidCoordinate(t *testing.T) {
	provider := distance.NewMockDistanceProvider(nil)
	svc, _ := newTestService(provider)

	bad := domain.Coordinate{Lat: 95, Lng: 0}
	_, err := svc.Calculate(context.Background(), bad, testDest, ports.TravelOptions{})
	if !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Fatalf("err = %v, want ErrInvalidCoordinate", err)
	}

	if calls := provider.Calls(); calls != 0 {
		t.Fatalf("provider calls = %d, want 0", calls)
	}
}

func TestCalculateUnreachableRoute(t *testing.T) {
	// Mock has no routes, so every fetch reports zero results.
	provider := distance.NewMockDistanceProvider(nil)
	svc, _ := newTestService(provider)

	_, err := svc.Calculate(context.Background(), testOrigin, testDest, ports.TravelOptions{})
	if !errors.Is(err, domain.ErrRouteUnreachable) {
		t.Fatalf("err = %v, want ErrRouteUnreachable", err)
	}
}

func TestCalculateRateLimitedPropagates(t *testing.T) {
	provider := distance.NewMockDistanceProvider([]distance.MockRoute{
		{
			From: testOrigin, To: testDest,
			Err: &ports.ProviderError{Kind: ports.KindRateLimited, Message: "quota exhausted"},
		},
	})
	svc, _ := newTestService(provider)

	_, err := svc.Calculate(context.Background(), testOrigin, testDest, ports.TravelOptions{})
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}

// brokenCache fails every operation, standing in for an unavailable store.
type brokenCache struct{}

func (brokenCache) Get(context.Context, domain.RouteKey) (*domain.CacheEntry, bool, error) {
	return nil, false, fmt.Errorf("%w: connection refused", domain.ErrStoreUnavailable)
}

func (brokenCache) Put(context.Context, *domain.CacheEntry) error {
	return fmt.Errorf("%w: connection refused", domain.ErrStoreUnavailable)
}

func (brokenCache) SweepExpired(context.Context, time.Time) (int, error) {
	return 0, fmt.Errorf("%w: connection refused", domain.ErrStoreUnavailable)
}

func (brokenCache) Stats(context.Context) (ports.CacheStats, error) {
	return ports.CacheStats{}, fmt.Errorf("%w: connection refused", domain.ErrStoreUnavailable)
}

func TestCalculateDegradesWhenStoreUnavailable(t *testing.T) {
	provider := distance.NewMockDistanceProvider([]distance.MockRoute{
		{From: testOrigin, To: testDest, Meters: 42000, Seconds: 1800},
	})
	svc := NewDistanceService(brokenCache{}, provider, nil, time.Hour)

	res, err := svc.Calculate(context.Background(), testOrigin, testDest, ports.TravelOptions{})
	if err != nil {
		t.Fatalf("lookup must survive a broken store, got: %v", err)
	}

	if res.Cached {
		t.Fatal("result cannot be cached when the store is down")
	}
	if res.DistanceMeters != 42000 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestCalculateExpiredEntryIsMiss(t *testing.T) {
	provider := distance.NewMockDistanceProvider([]distance.MockRoute{
		{From: testOrigin, To: testDest, Meters: 42000, Seconds: 1800},
	})
	svc, store := newTestService(provider)

	key, err := domain.NewRouteKey(testOrigin, testDest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expired := &domain.CacheEntry{
		RouteKey:        key,
		Origin:          testOrigin,
		Destination:     testDest,
		DistanceMeters:  1,
		DurationSeconds: 1,
		CreatedAt:       time.Now().Add(-2 * time.Hour),
		ExpiresAt:       time.Now().Add(-time.Second),
	}
	if err := store.Put(context.Background(), expired); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := svc.Calculate(context.Background(), testOrigin, testDest, ports.TravelOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Cached {
		t.Fatal("expired entry must not satisfy a lookup")
	}
	if res.DistanceMeters != 42000 {
		t.Fatalf("stale data returned: %+v", res)
	}
	if calls := provider.Calls(); calls != 1 {
		t.Fatalf("provider calls = %d, want 1", calls)
	}
}
