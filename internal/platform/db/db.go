package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open connects a pgx-backed pool. The pool is sized for the batch worker
// ceiling plus the maintenance sweeper; cache reads dominate, so idle
// connections are trimmed fairly aggressively.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(12)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return db, nil
}
