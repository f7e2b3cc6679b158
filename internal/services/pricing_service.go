package services

import (
	"context"
	"fmt"
	"haul-quote-service/internal/domain"
	"haul-quote-service/internal/ports"
	"strings"
)

// DistanceData is a caller-supplied measurement, used when the quote should
// not trigger a fresh lookup.
type DistanceData struct {
	DistanceMeters  int
	DurationSeconds int
}

// PricingRequest carries everything needed for one load quote. Either
// DistanceData or both coordinates must be present.
type PricingRequest struct {
	SiteNumber   string
	Origin       *domain.Coordinate
	Destination  *domain.Coordinate
	DistanceData *DistanceData
	TrafficModel string

	AddedMinutes float64
	DumpFee      float64
	LDPFee       float64

	UpdatePermit bool
}

// PricingQuote is a full-precision quote; round at presentation.
type PricingQuote struct {
	SiteNumber           string
	RoundtripMinutes     int
	AddedMinutes         float64
	DumpFee              float64
	LDPFee               float64
	TruckingPricePerLoad float64
	TotalPricePerLoad    float64

	DistanceMeters  int
	DurationSeconds int
	Cached          bool

	PermitUpdated bool
}

// PricingService turns a travel duration into an LDP load quote and
// optionally writes it back to the permit record.
type PricingService struct {
	Distance *DistanceService
	Permits  ports.PermitRepository
}

func NewPricingService(distance *DistanceService, permits ports.PermitRepository) *PricingService {
	return &PricingService{Distance: distance, Permits: permits}
}

// Quote computes the load price. When the permit write fails the quote is
// still returned alongside ErrDownstreamUpdateFailed, so callers can report
// partial success.
func (s *PricingService) Quote(ctx context.Context, req PricingRequest) (PricingQuote, error) {
	if strings.TrimSpace(req.SiteNumber) == "" {
		return PricingQuote{}, fmt.Errorf("%w: site number is required", domain.ErrValidation)
	}

	if req.AddedMinutes < 0 || req.DumpFee < 0 || req.LDPFee < 0 {
		return PricingQuote{}, fmt.Errorf("%w: pricing parameters must not be negative", domain.ErrValidation)
	}

	var (
		distanceMeters  int
		durationSeconds int
		cached          bool
	)

	switch {
	case req.DistanceData != nil:
		distanceMeters = req.DistanceData.DistanceMeters
		durationSeconds = req.DistanceData.DurationSeconds
	case req.Origin != nil && req.Destination != nil:
		res, err := s.Distance.Calculate(ctx, *req.Origin, *req.Destination, ports.TravelOptions{
			TrafficModel: req.TrafficModel,
		})
		if err != nil {
			return PricingQuote{}, fmt.Errorf("quote site=%q: %w", req.SiteNumber, err)
		}
		distanceMeters = res.DistanceMeters
		durationSeconds = res.DurationSeconds
		cached = res.Cached
	default:
		return PricingQuote{}, fmt.Errorf(
			"%w: either distance_data or origin and destination are required",
			domain.ErrValidation,
		)
	}

	roundtrip := domain.RoundtripMinutes(durationSeconds)
	priced := domain.Price(domain.PricingParams{
		RoundtripMinutes: roundtrip,
		AddedMinutes:     req.AddedMinutes,
		DumpFee:          req.DumpFee,
		LDPFee:           req.LDPFee,
	})

	quote := PricingQuote{
		SiteNumber:           req.SiteNumber,
		RoundtripMinutes:     roundtrip,
		AddedMinutes:         req.AddedMinutes,
		DumpFee:              req.DumpFee,
		LDPFee:               req.LDPFee,
		TruckingPricePerLoad: priced.TruckingPricePerLoad,
		TotalPricePerLoad:    priced.TotalPricePerLoad,
		DistanceMeters:       distanceMeters,
		DurationSeconds:      durationSeconds,
		Cached:               cached,
	}

	if req.UpdatePermit {
		if s.Permits == nil {
			return quote, fmt.Errorf("%w: no permit store configured", domain.ErrDownstreamUpdateFailed)
		}

		err := s.Permits.UpdatePricing(ctx, ports.PermitPricing{
			SiteNumber:           req.SiteNumber,
			RoundtripMinutes:     roundtrip,
			AddedMinutes:         req.AddedMinutes,
			TruckingPricePerLoad: priced.TruckingPricePerLoad,
			TotalPricePerLoad:    priced.TotalPricePerLoad,
		})
		if err != nil {
			// The quote is valid; only the dependent write failed.
			return quote, fmt.Errorf("%w: %v", domain.ErrDownstreamUpdateFailed, err)
		}
		quote.PermitUpdated = true
	}

	return quote, nil
}
