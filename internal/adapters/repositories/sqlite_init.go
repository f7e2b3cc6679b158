package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		route_key TEXT PRIMARY KEY,
		origin_lat REAL NOT NULL,
		origin_lng REAL NOT NULL,
		dest_lat REAL NOT NULL,
		dest_lng REAL NOT NULL,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		duration_in_traffic_seconds INTEGER,
		raw_response BLOB,
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL,
		UNIQUE (origin_lat, origin_lng, dest_lat, dest_lng)
	);
	`

	createExpiryIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_cache_expires_at
    ON route_cache(expires_at);
	`

	createPermitsQuery := `
	CREATE TABLE IF NOT EXISTS permits (
		site_number TEXT PRIMARY KEY,
		roundtrip_minutes INTEGER NOT NULL,
		added_minutes REAL NOT NULL,
		trucking_price_per_load REAL NOT NULL,
		total_price_per_load REAL NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`

	statements := []string{
		createRouteCacheQuery,
		createExpiryIndexQuery,
		createPermitsQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
