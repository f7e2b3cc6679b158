package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"haul-quote-service/internal/domain"
	"haul-quote-service/internal/ports"
	"time"
)

// SQLite backed cache for route distance results. Timestamps are stored as
// Unix epoch seconds to stay driver-neutral.
type SqliteRouteCache struct {
	DB *sql.DB
}

func NewSqliteRouteCache(db *sql.DB) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db}
}

// Fetch the cached result for one route key. Expired rows are misses.
func (s *SqliteRouteCache) Get(
	ctx context.Context,
	key domain.RouteKey,
) (*domain.CacheEntry, bool, error) {
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
	WHERE route_key = ? AND expires_at > ?;
	`

	row := s.DB.QueryRowContext(ctx, q, string(key), time.Now().Unix())

	var (
		entry              domain.CacheEntry
		traffic            sql.NullInt64
		createdAt, expires int64
	)
	err := row.Scan(
		&entry.Origin.Lat, &entry.Origin.Lng,
		&entry.Destination.Lat, &entry.Destination.Lng,
		&entry.DistanceMeters, &entry.DurationSeconds, &traffic,
		&entry.RawResponse, &createdAt, &expires,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get route cache: scan row: %v", domain.ErrStoreUnavailable, err)
	}

	entry.RouteKey = key
	entry.CreatedAt = time.Unix(createdAt, 0).UTC()
	entry.ExpiresAt = time.Unix(expires, 0).UTC()
	if traffic.Valid {
		v := int(traffic.Int64)
		entry.DurationInTrafficSeconds = &v
	}

	return &entry, true, nil
}

// Store one cached route result, replacing any previous entry for the key.
func (s *SqliteRouteCache) Put(ctx context.Context, entry *domain.CacheEntry) error {
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
	INSERT OR REPLACE INTO route_cache (
		route_key, origin_lat, origin_lng, dest_lat, dest_lng,
		distance_meters, duration_seconds, duration_in_traffic_seconds,
		raw_response, created_at, expires_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`

	_, err := s.DB.ExecContext(ctx, q,
		string(entry.RouteKey),
		entry.Origin.Lat, entry.Origin.Lng,
		entry.Destination.Lat, entry.Destination.Lng,
		entry.DistanceMeters, entry.DurationSeconds, traffic,
		entry.RawResponse, entry.CreatedAt.Unix(), entry.ExpiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: insert route cache key=%q: %v", domain.ErrStoreUnavailable, entry.RouteKey, err)
	}

	return nil
}

// Delete entries whose expiry predates now.
func (s *SqliteRouteCache) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("%w: db is nil", domain.ErrStoreUnavailable)
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM route_cache WHERE expires_at < ?;`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("%w: sweep route cache: %v", domain.ErrStoreUnavailable, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sweep route cache: rows affected: %w", err)
	}

	return int(n), nil
}

// Aggregate counters over the table.
func (s *SqliteRouteCache) Stats(ctx context.Context) (ports.CacheStats, error) {
	if s.DB == nil {
		return ports.CacheStats{}, fmt.Errorf("%w: db is nil", domain.ErrStoreUnavailable)
	}

	q := `
	SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN expires_at < ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(LENGTH(raw_response)), 0)
	FROM route_cache;
	`

	var stats ports.CacheStats
	row := s.DB.QueryRowContext(ctx, q, time.Now().Unix())
	if err := row.Scan(&stats.TotalEntries, &stats.ExpiredEntries, &stats.StorageBytes); err != nil {
		return ports.CacheStats{}, fmt.Errorf("%w: route cache stats: %v", domain.ErrStoreUnavailable, err)
	}

	return stats, nil
}
