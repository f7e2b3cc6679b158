package cache

import (
	"context"
	"errors"
	"haul-quote-service/internal/domain"
	"haul-quote-service/internal/ports"
	"sync"
	"time"
)

// In-process map-backed cache. Used by tests and as the zero-dependency
// fallback backend; entries do not survive restarts.
type MemoryRouteCache struct {
	mu      sync.RWMutex
	entries map[domain.RouteKey]domain.CacheEntry
}

func NewMemoryRouteCache() *MemoryRouteCache {
	return &MemoryRouteCache{entries: make(map[domain.RouteKey]domain.CacheEntry)}
}

func (m *MemoryRouteCache) Get(
	ctx context.Context,
	key domain.RouteKey,
) (*domain.CacheEntry, bool, error) {
	if key == "" {
		return nil, false, errors.New("get route cache: key must not be empty")
	}

	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || entry.Expired(time.Now()) {
		return nil, false, nil
	}

	return &entry, true, nil
}

func (m *MemoryRouteCache) Put(ctx context.Context, entry *domain.CacheEntry) error {
	if entry == nil || entry.RouteKey == "" {
		return errors.New("insert route cache: entry with non-empty key required")
	}

	m.mu.Lock()
	m.entries[entry.RouteKey] = *entry
	m.mu.Unlock()

	return nil
}

func (m *MemoryRouteCache) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, entry := range m.entries {
		if entry.Expired(now) {
			delete(m.entries, key)
			removed++
		}
	}

	return removed, nil
}

func (m *MemoryRouteCache) Stats(ctx context.Context) (ports.CacheStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()

	var stats ports.CacheStats
	for _, entry := range m.entries {
		stats.TotalEntries++
		stats.StorageBytes += int64(len(entry.RawResponse))
		if entry.Expired(now) {
			stats.ExpiredEntries++
		}
	}

	return stats, nil
}
