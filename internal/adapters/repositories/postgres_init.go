package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres database schema.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		route_key TEXT PRIMARY KEY,
		origin_lat DOUBLE PRECISION NOT NULL,
		origin_lng DOUBLE PRECISION NOT NULL,
		dest_lat DOUBLE PRECISION NOT NULL,
		dest_lng DOUBLE PRECISION NOT NULL,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		duration_in_traffic_seconds INTEGER,
		raw_response BYTEA,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
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
		added_minutes DOUBLE PRECISION NOT NULL,
		trucking_price_per_load DOUBLE PRECISION NOT NULL,
		total_price_per_load DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	`

	statements := []string{
		createRouteCacheQuery,
		createExpiryIndexQuery,
		createPermitsQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit tx: %w", err)
	}

	return nil
}
