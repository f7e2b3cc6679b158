package handlers

import (
	"haul-quote-service/internal/api/dto"
	"haul-quote-service/internal/services"
	"net/http"
	"time"
)

// RuntimeConfig is the effective engine configuration, surfaced read-only.
type RuntimeConfig struct {
	Backend              string
	TTL                  time.Duration
	RateLimitPerSec      float64
	MaxConcurrentDefault int
	UnitCostPerCall      float64
	SweepInterval        time.Duration
}

// CacheHandler serves cache statistics, on-demand sweeps, warming, and
// configuration inspection from one path, dispatched by method.
type CacheHandler struct {
	Maintenance  *services.CacheMaintenance
	Orchestrator *services.BatchOrchestrator
	Config       RuntimeConfig
}

func (h *CacheHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.stats(w, r)
	case http.MethodDelete:
		h.sweep(w, r)
	case http.MethodPost:
		h.warm(w, r)
	case http.MethodPatch:
		h.config(w, r)
	default:
		w.Header().Set("Allow", "GET, DELETE, POST, PATCH")
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", time.Now())
	}
}

func (h *CacheHandler) stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	t, err := h.Maintenance.Telemetry(r.Context())
	if err != nil {
		writeDomainError(w, r, err, start)
		return
	}

	writeData(w, r, http.StatusOK, dto.CacheStatsResponse{
		TotalEntries:   t.TotalEntries,
		ExpiredEntries: t.ExpiredEntries,
		StorageBytes:   t.StorageBytes,
		Hits:           t.Hits,
		Misses:         t.Misses,
		HitRate:        t.HitRate,
	}, start)
}

func (h *CacheHandler) sweep(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	removed, err := h.Maintenance.SweepNow(r.Context())
	if err != nil {
		writeDomainError(w, r, err, start)
		return
	}

	writeData(w, r, http.StatusOK, dto.CacheSweepResponse{RemovedEntries: removed}, start)
}

// warm runs a batch purely for its cache side effect.
func (h *CacheHandler) warm(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req dto.CacheWarmRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "validation_error", err.Error(), start)
		return
	}

	routes := make([]services.BatchRoute, 0, len(req.Routes))
	for _, rt := range req.Routes {
		routes = append(routes, services.BatchRoute{
			ID:          rt.ID,
			Origin:      coordOrInvalid(rt.Origin),
			Destination: coordOrInvalid(rt.Destination),
		})
	}

	opts := services.BatchOptions{}
	if req.Options != nil {
		opts.MaxConcurrent = req.Options.MaxConcurrent
		opts.TrafficModel = req.Options.TrafficModel
	}

	_, summary, err := h.Orchestrator.Run(r.Context(), routes, opts)
	if err != nil {
		writeDomainError(w, r, err, start)
		return
	}

	writeData(w, r, http.StatusOK, dto.CacheWarmResponse{
		Summary: dto.BatchSummary{
			TotalProcessed:    summary.TotalProcessed,
			Successful:        summary.Successful,
			Failed:            summary.Failed,
			CacheHits:         summary.CacheHits,
			APICalls:          summary.APICalls,
			TotalCostEstimate: summary.TotalCostEstimate,
		},
	}, start)
}

func (h *CacheHandler) config(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	writeData(w, r, http.StatusOK, dto.CacheConfigResponse{
		Backend:              h.Config.Backend,
		TTLDays:              h.Config.TTL.Hours() / 24,
		RateLimitPerSec:      h.Config.RateLimitPerSec,
		MaxConcurrentDefault: h.Config.MaxConcurrentDefault,
		UnitCostPerCall:      h.Config.UnitCostPerCall,
		SweepInterval:        h.Config.SweepInterval.String(),
	}, start)
}
