package dto

type CacheStatsResponse struct {
	TotalEntries   int     `json:"total_entries"`
	ExpiredEntries int     `json:"expired_entries"`
	StorageBytes   int64   `json:"storage_bytes"`
	Hits           int64   `json:"hits"`
	Misses         int64   `json:"misses"`
	HitRate        float64 `json:"hit_rate"`
}

type CacheSweepResponse struct {
	RemovedEntries int `json:"removed_entries"`
}

// CacheWarmRequest pre-populates the cache for a route list.
type CacheWarmRequest struct {
	Routes  []BatchRoute  `json:"routes"`
	Options *BatchOptions `json:"options,omitempty"`
}

type CacheWarmResponse struct {
	Summary BatchSummary `json:"summary"`
}

type CacheConfigResponse struct {
	Backend              string  `json:"backend"`
	TTLDays              float64 `json:"ttl_days"`
	RateLimitPerSec      float64 `json:"rate_limit_per_sec"`
	MaxConcurrentDefault int     `json:"max_concurrent_default"`
	UnitCostPerCall      float64 `json:"unit_cost_per_call"`
	SweepInterval        string  `json:"sweep_interval"`
}
