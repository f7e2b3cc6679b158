package handlers

import (
	"haul-quote-service/internal/api/dto"
	"haul-quote-service/internal/ports"
	"haul-quote-service/internal/services"
	"net/http"
	"time"
)

// DistanceHandler exposes the single-route lookup endpoint.
type DistanceHandler struct {
	Service *services.DistanceService
}

func (h *DistanceHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", start)
		return
	}

	var req dto.CalculateRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "validation_error", err.Error(), start)
		return
	}

	if req.Origin == nil || req.Destination == nil {
		writeError(w, r, http.StatusBadRequest, "validation_error", "origin and destination are required", start)
		return
	}

	opts := ports.TravelOptions{}
	if req.Options != nil {
		opts.TrafficModel = req.Options.TrafficModel
		if req.Options.DepartureTime != nil {
			t := time.Unix(*req.Options.DepartureTime, 0)
			opts.DepartureTime = &t
		}
	}

	res, err := h.Service.Calculate(r.Context(), *req.Origin, *req.Destination, opts)
	if err != nil {
		writeDomainError(w, r, err, start)
		return
	}

	body := dto.CalculateResponse{
		DistanceMeters:           res.DistanceMeters,
		DurationSeconds:          res.DurationSeconds,
		DurationInTrafficSeconds: res.DurationInTrafficSeconds,
		Cached:                   res.Cached,
	}
	if res.Cached {
		age := int(res.CacheAge.Minutes())
		body.CacheAgeMinutes = &age
	}

	writeData(w, r, http.StatusOK, body, start)
}
