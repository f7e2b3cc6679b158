package api

import (
	"haul-quote-service/internal/api/handlers"
	"haul-quote-service/internal/services"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(
	distanceSvc *services.DistanceService,
	orchestrator *services.BatchOrchestrator,
	pricingSvc *services.PricingService,
	maintenance *services.CacheMaintenance,
	cfg handlers.RuntimeConfig,
) http.Handler {
	mux := http.NewServeMux()

	distanceHandler := &handlers.DistanceHandler{Service: distanceSvc}
	batchHandler := &handlers.BatchHandler{Orchestrator: orchestrator}
	pricingHandler := &handlers.PricingHandler{Service: pricingSvc}
	cacheHandler := &handlers.CacheHandler{
		Maintenance:  maintenance,
		Orchestrator: orchestrator,
		Config:       cfg,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/distance/calculate", distanceHandler.Calculate)
	mux.HandleFunc("/distance/batch", batchHandler.Run)
	mux.HandleFunc("/pricing", pricingHandler.Quote)
	mux.HandleFunc("/cache", cacheHandler.Handle)

	return loggingMiddleware(mux)
}
