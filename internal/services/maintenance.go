package services

import (
	"context"
	"fmt"
	"haul-quote-service/internal/ports"
	"log"
	"time"
)

// CacheTelemetry combines store-level stats with process-level hit counters.
type CacheTelemetry struct {
	TotalEntries   int
	ExpiredEntries int
	StorageBytes   int64
	Hits           int64
	Misses         int64
	HitRate        float64
}

// CacheMaintenance runs periodic expiry sweeps and exposes telemetry.
type CacheMaintenance struct {
	Cache    ports.RouteCache
	Service  *DistanceService
	Interval time.Duration
}

func NewCacheMaintenance(cache ports.RouteCache, service *DistanceService, interval time.Duration) *CacheMaintenance {
	return &CacheMaintenance{Cache: cache, Service: service, Interval: interval}
}

// Run sweeps on every tick until the context is cancelled. Intended to be
// started as a goroutine from the composition root.
func (m *CacheMaintenance) Run(ctx context.Context) {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := m.SweepNow(ctx)
			if err != nil {
				log.Printf("cache sweep failed: err=%v", err)
				continue
			}
			log.Printf("cache sweep complete: removed=%d", removed)
		}
	}
}

// SweepNow removes expired entries immediately.
func (m *CacheMaintenance) SweepNow(ctx context.Context) (int, error) {
	removed, err := m.Cache.SweepExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("sweep expired entries: %w", err)
	}
	return removed, nil
}

// Telemetry merges store stats with the service's hit/miss counters.
func (m *CacheMaintenance) Telemetry(ctx context.Context) (CacheTelemetry, error) {
	stats, err := m.Cache.Stats(ctx)
	if err != nil {
		return CacheTelemetry{}, fmt.Errorf("cache stats: %w", err)
	}

	t := CacheTelemetry{
		TotalEntries:   stats.TotalEntries,
		ExpiredEntries: stats.ExpiredEntries,
		StorageBytes:   stats.StorageBytes,
	}

	if m.Service != nil {
		t.Hits, t.Misses = m.Service.Counters()
		if total := t.Hits + t.Misses; total > 0 {
			t.HitRate = float64(t.Hits) / float64(total)
		}
	}

	return t, nil
}
