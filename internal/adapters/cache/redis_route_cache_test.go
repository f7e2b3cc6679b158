package cache

import (
	"context"
	"haul-quote-service/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisCache(t *testing.T) (*RedisRouteCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisRouteCache(client), mr
}

func TestRedisPutGetRoundtrip(t *testing.T) {
	store, _ := newRedisCache(t)
	ctx := context.Background()

	entry := testEntry(t, time.Hour)
	if err := store.Put(ctx, entry); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, found, err := store.Get(ctx, entry.RouteKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("entry not found after put")
	}

	if got.DistanceMeters != entry.DistanceMeters || got.DurationSeconds != entry.DurationSeconds {
		t.Fatalf("got %+v, want distance/duration from %+v", got, entry)
	}
	if got.DurationInTrafficSeconds == nil || *got.DurationInTrafficSeconds != 2100 {
		t.Fatalf("traffic duration = %v, want 2100", got.DurationInTrafficSeconds)
	}
	if string(got.RawResponse) != `{"status":"OK"}` {
		t.Fatalf("raw response = %q", got.RawResponse)
	}
	if !got.ExpiresAt.Equal(entry.ExpiresAt) {
		t.Fatalf("expires at = %v, want %v", got.ExpiresAt, entry.ExpiresAt)
	}
}

func TestRedisMissForUnknownKey(t *testing.T) {
	store, _ := newRedisCache(t)

	_, found, err := store.Get(context.Background(), domain.RouteKey("0.000000,0.000000|1.000000,1.000000"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("unknown key must be a miss")
	}
}

func TestRedisTTLExpiresEntry(t *testing.T) {
	store, mr := newRedisCache(t)
	ctx := context.Background()

	entry := testEntry(t, time.Minute)
	if err := store.Put(ctx, entry); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, found, err := store.Get(ctx, entry.RouteKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("entry must expire once its TTL elapses")
	}
}

func TestRedisSkipsAlreadyExpiredEntry(t *testing.T) {
	store, mr := newRedisCache(t)
	ctx := context.Background()

	entry := testEntry(t, -time.Minute)
	if err := store.Put(ctx, entry); err != nil {
		t.Fatalf("put: %v", err)
	}

	if n := len(mr.Keys()); n != 0 {
		t.Fatalf("expired entry was stored anyway, %d keys present", n)
	}
}

func TestRedisSweepReportsNothing(t *testing.T) {
	store, _ := newRedisCache(t)
	ctx := context.Background()

	if err := store.Put(ctx, testEntry(t, time.Hour)); err != nil {
		t.Fatalf("put: %v", err)
	}

	removed, err := store.SweepExpired(ctx, time.Now())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 0 {
		t.Fatalf("removed = %d, redis reclaims its own keys", removed)
	}
}

func TestRedisStats(t *testing.T) {
	store, _ := newRedisCache(t)
	ctx := context.Background()

	if err := store.Put(ctx, testEntry(t, time.Hour)); err != nil {
		t.Fatalf("put: %v", err)
	}

	origin := domain.Coordinate{Lat: 40.7128, Lng: -74.006}
	dest := domain.Coordinate{Lat: 41, Lng: -74.5}
	key, err := domain.NewRouteKey(origin, dest)
	if err != nil {
		t.Fatalf("route key: %v", err)
	}
	now := time.Now().UTC()
	second := &domain.CacheEntry{
		RouteKey:        key,
		Origin:          origin.Rounded(),
		Destination:     dest.Rounded(),
		DistanceMeters:  100,
		DurationSeconds: 60,
		CreatedAt:       now,
		ExpiresAt:       now.Add(time.Hour),
	}
	if err := store.Put(ctx, second); err != nil {
		t.Fatalf("put second: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalEntries != 2 {
		t.Fatalf("total entries = %d, want 2", stats.TotalEntries)
	}
	if stats.StorageBytes <= 0 {
		t.Fatalf("storage bytes = %d, want > 0", stats.StorageBytes)
	}
	if stats.ExpiredEntries != 0 {
		t.Fatalf("expired entries = %d, want 0", stats.ExpiredEntries)
	}
}
