package ports

import (
	"context"
	"haul-quote-service/internal/domain"
	"time"
)

// CacheStats is a read-only aggregate over the store. Counts may be
// approximate; callers treat them as eventually consistent.
type CacheStats struct {
	TotalEntries   int
	ExpiredEntries int
	StorageBytes   int64
}

// Port: a key/value store mapping RouteKeys to cached provider results.
//
// Every hit avoids a billed provider call, so implementations must honor the
// RouteKey contract exactly: identical rounded coordinates, identical key.
type RouteCache interface {
	// Get returns the entry for key, or found=false on a miss. Expired
	// entries count as misses. Errors only on store unavailability.
	Get(ctx context.Context, key domain.RouteKey) (entry *domain.CacheEntry, found bool, err error)

	// Put upserts the entry by its RouteKey. Concurrent puts for the same
	// key are last-write-wins; partial writes must never be visible.
	Put(ctx context.Context, entry *domain.CacheEntry) error

	// SweepExpired deletes entries whose expiry predates now and returns
	// the number removed. Idempotent and safe alongside reads and writes.
	SweepExpired(ctx context.Context, now time.Time) (removed int, err error)

	// Stats returns aggregate counters for telemetry.
	Stats(ctx context.Context) (CacheStats, error)
}
