package handlers

import (
	"haul-quote-service/internal/api/dto"
	"haul-quote-service/internal/domain"
	"haul-quote-service/internal/services"
	"math"
	"net/http"
	"time"
)

// BatchHandler exposes the bounded-concurrency batch lookup endpoint.
type BatchHandler struct {
	Orchestrator *services.BatchOrchestrator
}

func (h *BatchHandler) Run(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", start)
		return
	}

	var req dto.BatchRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "validation_error", err.Error(), start)
		return
	}

	routes := make([]services.BatchRoute, 0, len(req.Routes))
	for _, rt := range req.Routes {
		routes = append(routes, services.BatchRoute{
			ID:          rt.ID,
			PermitID:    rt.PermitID,
			Origin:      coordOrInvalid(rt.Origin),
			Destination: coordOrInvalid(rt.Destination),
		})
	}

	opts := services.BatchOptions{}
	if req.Options != nil {
		opts.MaxConcurrent = req.Options.MaxConcurrent
		opts.TrafficModel = req.Options.TrafficModel
	}

	results, summary, err := h.Orchestrator.Run(r.Context(), routes, opts)
	if err != nil {
		// Batch-level failures happen before any route is processed.
		writeDomainError(w, r, err, start)
		return
	}

	// Per-route failures are inline data; the batch itself succeeded.
	writeData(w, r, http.StatusOK, toBatchResponse(results, summary), start)
}

// coordOrInvalid turns a missing coordinate into one that fails validation,
// so the worker reports it as a per-route error instead of silently using
// the zero value (0,0 is a real location).
func coordOrInvalid(c *domain.Coordinate) domain.Coordinate {
	if c == nil {
		return domain.Coordinate{Lat: math.NaN(), Lng: math.NaN()}
	}
	return *c
}

func toBatchResponse(results []services.BatchRouteResult, summary services.BatchSummary) dto.BatchResponse {
	out := dto.BatchResponse{
		Results: make([]dto.BatchRouteResult, 0, len(results)),
		Summary: dto.BatchSummary{
			TotalProcessed:    summary.TotalProcessed,
			Successful:        summary.Successful,
			Failed:            summary.Failed,
			CacheHits:         summary.CacheHits,
			APICalls:          summary.APICalls,
			TotalCostEstimate: summary.TotalCostEstimate,
		},
	}

	for _, res := range results {
		out.Results = append(out.Results, dto.BatchRouteResult{
			ID:                       res.ID,
			PermitID:                 res.PermitID,
			DistanceMeters:           res.DistanceMeters,
			DurationSeconds:          res.DurationSeconds,
			DurationInTrafficSeconds: res.DurationInTrafficSeconds,
			Cached:                   res.Cached,
			Status:                   res.Status,
			ErrorMessage:             res.ErrorMessage,
		})
	}

	return out
}
