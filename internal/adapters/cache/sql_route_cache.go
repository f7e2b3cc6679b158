package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"haul-quote-service/internal/domain"
	"haul-quote-service/internal/platform/obs"
	"haul-quote-service/internal/ports"
	"time"
)

// SQLRouteCache is a Postgres-backed cache for route distance results.
type SQLRouteCache struct {
	DB *sql.DB
}

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

// Fetch the cached result for one route key. Expired rows are misses; the
// sweeper reclaims them later.
func (s *SQLRouteCache) Get(
	ctx context.Context,
	key domain.RouteKey,
) (_ *domain.CacheEntry, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, fmt.Errorf("%w: db is nil", domain.ErrStoreUnavailable)
	}

	if key == "" {
		return nil, false, errors.New("get route cache: key must not be empty")
	}

	q := `
	SELECT origin_lat, origin_lng, dest_lat, dest_lng,
		distance_meters, duration_seconds, duration_in_traffic_seconds,
		raw_response, created_at, expires_at
	FROM route_cache
	WHERE route_key = $1 AND expires_at > $2;
	`

	row := s.DB.QueryRowContext(ctx, q, string(key), time.Now().UTC())

	var (
		entry   domain.CacheEntry
		traffic sql.NullInt64
	)
	err = row.Scan(
		&entry.Origin.Lat, &entry.Origin.Lng,
		&entry.Destination.Lat, &entry.Destination.Lng,
		&entry.DistanceMeters, &entry.DurationSeconds, &traffic,
		&entry.RawResponse, &entry.CreatedAt, &entry.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get route cache: scan row: %v", domain.ErrStoreUnavailable, err)
	}

	entry.RouteKey = key
	if traffic.Valid {
		v := int(traffic.Int64)
		entry.DurationInTrafficSeconds = &v
	}

	return &entry, true, nil
}

// Store one cached route result, replacing any previous entry for the key.
func (s *SQLRouteCache) Put(ctx context.Context, entry *domain.CacheEntry) error {
	if s.DB == nil {
		return fmt.Errorf("%w: db is nil", domain.ErrStoreUnavailable)
	}

	if entry == nil || entry.RouteKey == "" {
		return errors.New("insert route cache: entry with non-empty key required")
	}

	var traffic sql.NullInt64
	if entry.DurationInTrafficSeconds != nil {
		traffic = sql.NullInt64{Int64: int64(*entry.DurationInTrafficSeconds), Valid: true}
	}

	q := `
	INSERT INTO route_cache (
		route_key, origin_lat, origin_lng, dest_lat, dest_lng,
		distance_meters, duration_seconds, duration_in_traffic_seconds,
		raw_response, created_at, expires_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (route_key) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds,
		duration_in_traffic_seconds = EXCLUDED.duration_in_traffic_seconds,
		raw_response = EXCLUDED.raw_response,
		created_at = EXCLUDED.created_at,
		expires_at = EXCLUDED.expires_at;
	`

	_, err := s.DB.ExecContext(ctx, q,
		string(entry.RouteKey),
		entry.Origin.Lat, entry.Origin.Lng,
		entry.Destination.Lat, entry.Destination.Lng,
		entry.DistanceMeters, entry.DurationSeconds, traffic,
		entry.RawResponse, entry.CreatedAt.UTC(), entry.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: insert route cache key=%q: %v", domain.ErrStoreUnavailable, entry.RouteKey, err)
	}

	return nil
}

// Delete entries whose expiry predates now.
func (s *SQLRouteCache) SweepExpired(ctx context.Context, now time.Time) (_ int, err error) {
	defer obs.Time(ctx, "route.cache.SweepExpired")(&err)

	if s.DB == nil {
		return 0, fmt.Errorf("%w: db is nil", domain.ErrStoreUnavailable)
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM route_cache WHERE expires_at < $1;`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: sweep route cache: %v", domain.ErrStoreUnavailable, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sweep route cache: rows affected: %w", err)
	}

	return int(n), nil
}

// Aggregate counters over the table; the raw_response length sum stands in
// for storage size.
func (s *SQLRouteCache) Stats(ctx context.Context) (ports.CacheStats, error) {
	if s.DB == nil {
		return ports.CacheStats{}, fmt.Errorf("%w: db is nil", domain.ErrStoreUnavailable)
	}

	q := `
	SELECT COUNT(*),
		COUNT(*) FILTER (WHERE expires_at < $1),
		COALESCE(SUM(LENGTH(raw_response)), 0)
	FROM route_cache;
	`

	var stats ports.CacheStats
	row := s.DB.QueryRowContext(ctx, q, time.Now().UTC())
	if err := row.Scan(&stats.TotalEntries, &stats.ExpiredEntries, &stats.StorageBytes); err != nil {
		return ports.CacheStats{}, fmt.Errorf("%w: route cache stats: %v", domain.ErrStoreUnavailable, err)
	}

	return stats, nil
}
