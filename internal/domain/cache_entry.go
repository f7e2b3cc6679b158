package domain

import "time"

// CacheEntry is one cached provider result, keyed by RouteKey. Entries are
// never updated in place; a refreshed lookup upserts the whole row.
type CacheEntry struct {
	RouteKey                 RouteKey
	Origin                   Coordinate
	Destination              Coordinate
	DistanceMeters           int
	DurationSeconds          int
	DurationInTrafficSeconds *int
	RawResponse              []byte
	CreatedAt                time.Time
	ExpiresAt                time.Time
}

// Expired reports whether the entry's TTL has elapsed at the given instant.
func (e *CacheEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Age returns how long ago the entry was written.
func (e *CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}
