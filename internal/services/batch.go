package services

import (
	"context"
	"errors"
	"fmt"
	"haul-quote-service/internal/domain"
	"haul-quote-service/internal/ports"
	"sync"
	"time"
)

const (
	// MaxBatchRoutes is the request-level ceiling; larger batches fail fast.
	MaxBatchRoutes = 100

	// providerChunkSize is the routing provider's hard batch limit. The
	// orchestrator enforces it even though each lookup is a single call.
	providerChunkSize = 25

	defaultMaxConcurrent = 5
	maxConcurrentCeiling = 10

	// DefaultBatchDeadline bounds one whole batch run.
	DefaultBatchDeadline = 5 * time.Minute
)

// BatchRoute is one caller-supplied route in a batch.
type BatchRoute struct {
	ID          string
	PermitID    string
	Origin      domain.Coordinate
	Destination domain.Coordinate
}

// BatchRouteResult answers the BatchRoute at the same index.
type BatchRouteResult struct {
	ID                       string
	PermitID                 string
	DistanceMeters           int
	DurationSeconds          int
	DurationInTrafficSeconds *int
	Cached                   bool
	Status                   string // "success" or "error"
	ErrorMessage             string
}

// BatchSummary aggregates counters over one run. Never persisted.
type BatchSummary struct {
	TotalProcessed    int
	Successful        int
	Failed            int
	CacheHits         int
	APICalls          int
	TotalCostEstimate float64
}

// BatchOptions tune one run. Zero values pick the defaults above.
type BatchOptions struct {
	MaxConcurrent int
	TrafficModel  string
	Deadline      time.Duration
}

// BatchOrchestrator fans a batch of routes out over a bounded worker pool.
// The rate limit lives in the shared DistanceService, so two simultaneous
// runs still respect one global provider-call ceiling.
type BatchOrchestrator struct {
	Service *DistanceService

	// UnitCost is the billed price of one provider call, for the summary's
	// cost estimate.
	UnitCost float64
}

func NewBatchOrchestrator(service *DistanceService, unitCost float64) *BatchOrchestrator {
	return &BatchOrchestrator{Service: service, UnitCost: unitCost}
}

// Run processes routes and returns results in request order. Per-route
// failures become error results; siblings keep going. Only batch-level
// validation aborts before any provider work starts.
func (o *BatchOrchestrator) Run(
	ctx context.Context,
	routes []BatchRoute,
	opts BatchOptions,
) ([]BatchRouteResult, BatchSummary, error) {
	if len(routes) == 0 {
		return nil, BatchSummary{}, fmt.Errorf("%w: batch requires at least one route", domain.ErrValidation)
	}

	if len(routes) > MaxBatchRoutes {
		return nil, BatchSummary{}, fmt.Errorf(
			"%w: batch size %d exceeds maximum of %d",
			domain.ErrValidation, len(routes), MaxBatchRoutes,
		)
	}

	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	if maxConcurrent > maxConcurrentCeiling {
		maxConcurrent = maxConcurrentCeiling
	}

	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = DefaultBatchDeadline
	}

	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	travel := ports.TravelOptions{TrafficModel: opts.TrafficModel}

	results := make([]BatchRouteResult, len(routes))

	// One semaphore across all chunks keeps the concurrency bound global.
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	for start := 0; start < len(routes); start += providerChunkSize {
		end := start + providerChunkSize
		if end > len(routes) {
			end = len(routes)
		}

		// Once the deadline passes, in-flight workers may finish but no
		// further chunks are dispatched.
		if ctx.Err() != nil {
			for i := start; i < len(routes); i++ {
				results[i] = timeoutResult(routes[i])
			}
			break
		}

		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int, route BatchRoute) {
				sem <- struct{}{}
				defer wg.Done()
				defer func() { <-sem }()

				results[idx] = o.runOne(ctx, route, travel)
			}(i, routes[i])
		}
	}

	wg.Wait()

	return results, o.summarize(results), nil
}

func (o *BatchOrchestrator) runOne(
	ctx context.Context,
	route BatchRoute,
	travel ports.TravelOptions,
) BatchRouteResult {
	if ctx.Err() != nil {
		return timeoutResult(route)
	}

	// A started route runs to completion even if the batch deadline passes
	// mid-flight; cancelling here would discard a billed provider call.
	callCtx := context.WithoutCancel(ctx)

	res, err := o.Service.Calculate(callCtx, route.Origin, route.Destination, travel)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return timeoutResult(route)
		}

		return BatchRouteResult{
			ID:           route.ID,
			PermitID:     route.PermitID,
			Status:       "error",
			ErrorMessage: err.Error(),
		}
	}

	return BatchRouteResult{
		ID:                       route.ID,
		PermitID:                 route.PermitID,
		DistanceMeters:           res.DistanceMeters,
		DurationSeconds:          res.DurationSeconds,
		DurationInTrafficSeconds: res.DurationInTrafficSeconds,
		Cached:                   res.Cached,
		Status:                   "success",
	}
}

func timeoutResult(route BatchRoute) BatchRouteResult {
	return BatchRouteResult{
		ID:           route.ID,
		PermitID:     route.PermitID,
		Status:       "error",
		ErrorMessage: "timeout",
	}
}

func (o *BatchOrchestrator) summarize(results []BatchRouteResult) BatchSummary {
	summary := BatchSummary{TotalProcessed: len(results)}

	for _, r := range results {
		switch {
		case r.Status == "success" && r.Cached:
			summary.Successful++
			summary.CacheHits++
		case r.Status == "success":
			summary.Successful++
			summary.APICalls++
		default:
			summary.Failed++
		}
	}

	summary.TotalCostEstimate = float64(summary.APICalls) * o.UnitCost
	return summary
}
