package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"haul-quote-service/internal/domain"
	"haul-quote-service/internal/ports"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "route:"

// redisEntry is the JSON shape stored per key.
type redisEntry struct {
	Origin                   domain.Coordinate `json:"origin"`
	Destination              domain.Coordinate `json:"destination"`
	DistanceMeters           int               `json:"distance_meters"`
	DurationSeconds          int               `json:"duration_seconds"`
	DurationInTrafficSeconds *int              `json:"duration_in_traffic_seconds,omitempty"`
	RawResponse              []byte            `json:"raw_response,omitempty"`
	CreatedAt                time.Time         `json:"created_at"`
	ExpiresAt                time.Time         `json:"expires_at"`
}

// Redis backed cache for route distance results. Expiry is delegated to
// Redis key TTLs, so SweepExpired has nothing to reclaim.
type RedisRouteCache struct {
	Client *redis.Client
}

func NewRedisRouteCache(client *redis.Client) *RedisRouteCache {
	return &RedisRouteCache{Client: client}
}

func (r *RedisRouteCache) Get(
	ctx context.Context,
	key domain.RouteKey,
) (*domain.CacheEntry, bool, error) {
	if r.Client == nil {
		return nil, false, fmt.Errorf("%w: redis client is nil", domain.ErrStoreUnavailable)
	}

	if key == "" {
		return nil, false, errors.New("get route cache: key must not be empty")
	}

	raw, err := r.Client.Get(ctx, redisKeyPrefix+string(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get route cache: %v", domain.ErrStoreUnavailable, err)
	}

	var stored redisEntry
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, false, fmt.Errorf("get route cache: decode entry: %w", err)
	}

	return &domain.CacheEntry{
		RouteKey:                 key,
		Origin:                   stored.Origin,
		Destination:              stored.Destination,
		DistanceMeters:           stored.DistanceMeters,
		DurationSeconds:          stored.DurationSeconds,
		DurationInTrafficSeconds: stored.DurationInTrafficSeconds,
		RawResponse:              stored.RawResponse,
		CreatedAt:                stored.CreatedAt,
		ExpiresAt:                stored.ExpiresAt,
	}, true, nil
}

func (r *RedisRouteCache) Put(ctx context.Context, entry *domain.CacheEntry) error {
	if r.Client == nil {
		return fmt.Errorf("%w: redis client is nil", domain.ErrStoreUnavailable)
	}

	if entry == nil || entry.RouteKey == "" {
		return errors.New("insert route cache: entry with non-empty key required")
	}

	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		// Already expired; storing it would be an immediate miss anyway.
		return nil
	}

	payload, err := json.Marshal(redisEntry{
		Origin:                   entry.Origin,
		Destination:              entry.Destination,
		DistanceMeters:           entry.DistanceMeters,
		DurationSeconds:          entry.DurationSeconds,
		DurationInTrafficSeconds: entry.DurationInTrafficSeconds,
		RawResponse:              entry.RawResponse,
		CreatedAt:                entry.CreatedAt,
		ExpiresAt:                entry.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("insert route cache: encode entry: %w", err)
	}

	if err := r.Client.Set(ctx, redisKeyPrefix+string(entry.RouteKey), payload, ttl).Err(); err != nil {
		return fmt.Errorf("%w: insert route cache key=%q: %v", domain.ErrStoreUnavailable, entry.RouteKey, err)
	}

	return nil
}

// Redis evicts expired keys itself; sweep exists for interface parity and
// always reports zero removals.
func (r *RedisRouteCache) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	if r.Client == nil {
		return 0, fmt.Errorf("%w: redis client is nil", domain.ErrStoreUnavailable)
	}
	return 0, nil
}

// Stats counts route keys with SCAN; StorageBytes is the payload length sum.
func (r *RedisRouteCache) Stats(ctx context.Context) (ports.CacheStats, error) {
	if r.Client == nil {
		return ports.CacheStats{}, fmt.Errorf("%w: redis client is nil", domain.ErrStoreUnavailable)
	}

	var stats ports.CacheStats
	iter := r.Client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		stats.TotalEntries++

		n, err := r.Client.StrLen(ctx, iter.Val()).Result()
		if err != nil {
			continue
		}
		stats.StorageBytes += n
	}
	if err := iter.Err(); err != nil {
		return ports.CacheStats{}, fmt.Errorf("%w: route cache stats: %v", domain.ErrStoreUnavailable, err)
	}

	// Redis never holds expired keys, so ExpiredEntries stays zero.
	return stats, nil
}
