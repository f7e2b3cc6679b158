package handlers

import (
	"errors"
	"haul-quote-service/internal/api/dto"
	"haul-quote-service/internal/domain"
	"haul-quote-service/internal/services"
	"net/http"
	"time"
)

// PricingHandler exposes the load-quote endpoint.
type PricingHandler struct {
	Service *services.PricingService
}

func (h *PricingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", start)
		return
	}

	var req dto.PricingRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "validation_error", err.Error(), start)
		return
	}

	svcReq := services.PricingRequest{
		SiteNumber:   req.SiteNumber,
		Origin:       req.Origin,
		Destination:  req.Destination,
		UpdatePermit: req.UpdatePermit,
	}
	if req.DistanceData != nil {
		svcReq.DistanceData = &services.DistanceData{
			DistanceMeters:  req.DistanceData.DistanceMeters,
			DurationSeconds: req.DistanceData.DurationSeconds,
		}
	}
	if req.PricingParams != nil {
		svcReq.AddedMinutes = req.PricingParams.AddedMinutes
		svcReq.DumpFee = req.PricingParams.DumpFee
		svcReq.LDPFee = req.PricingParams.LDPFee
	}
	if req.Options != nil {
		svcReq.TrafficModel = req.Options.TrafficModel
	}

	quote, err := h.Service.Quote(r.Context(), svcReq)
	if err != nil && !errors.Is(err, domain.ErrDownstreamUpdateFailed) {
		writeDomainError(w, r, err, start)
		return
	}

	status := http.StatusOK
	if err != nil {
		// Pricing is valid but the permit write failed: partial success.
		status = http.StatusMultiStatus
	}

	writeData(w, r, status, toPricingResponse(quote), start)
}

// Monetary figures are rounded here, at presentation; the service keeps full
// precision for chained calculations.
func toPricingResponse(q services.PricingQuote) dto.PricingResponse {
	return dto.PricingResponse{
		SiteNumber:           q.SiteNumber,
		RoundtripMinutes:     q.RoundtripMinutes,
		AddedMinutes:         q.AddedMinutes,
		TruckingPricePerLoad: domain.RoundMoney(q.TruckingPricePerLoad),
		TotalPricePerLoad:    domain.RoundMoney(q.TotalPricePerLoad),
		PricingBreakdown: dto.PricingBreakdown{
			DumpFee:              domain.RoundMoney(q.DumpFee),
			TruckingPricePerLoad: domain.RoundMoney(q.TruckingPricePerLoad),
			LDPFee:               domain.RoundMoney(q.LDPFee),
		},
		DistanceData: dto.PricingDistanceData{
			DistanceMeters:  q.DistanceMeters,
			DurationSeconds: q.DurationSeconds,
			Cached:          q.Cached,
		},
		PermitUpdated: q.PermitUpdated,
	}
}
