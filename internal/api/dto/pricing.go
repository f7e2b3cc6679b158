package dto

import "haul-quote-service/internal/domain"

type DistanceData struct {
	DistanceMeters  int `json:"distance_meters"`
	DurationSeconds int `json:"duration_seconds"`
}

type PricingParams struct {
	AddedMinutes float64 `json:"added_minutes,omitempty"`
	DumpFee      float64 `json:"dump_fee,omitempty"`
	LDPFee       float64 `json:"ldp_fee,omitempty"`
}

type PricingRequest struct {
	SiteNumber    string             `json:"site_number"`
	Origin        *domain.Coordinate `json:"origin,omitempty"`
	Destination   *domain.Coordinate `json:"destination,omitempty"`
	DistanceData  *DistanceData      `json:"distance_data,omitempty"`
	PricingParams *PricingParams     `json:"pricing_params,omitempty"`
	Options       *TravelOptions     `json:"options,omitempty"`
	UpdatePermit  bool               `json:"update_permit,omitempty"`
}

type PricingBreakdown struct {
	DumpFee              float64 `json:"dump_fee"`
	TruckingPricePerLoad float64 `json:"trucking_price_per_load"`
	LDPFee               float64 `json:"ldp_fee"`
}

type PricingDistanceData struct {
	DistanceMeters  int  `json:"distance_meters"`
	DurationSeconds int  `json:"duration_seconds"`
	Cached          bool `json:"cached"`
}

type PricingResponse struct {
	SiteNumber           string              `json:"site_number"`
	RoundtripMinutes     int                 `json:"roundtrip_minutes"`
	AddedMinutes         float64             `json:"added_minutes"`
	TruckingPricePerLoad float64             `json:"trucking_price_per_load"`
	TotalPricePerLoad    float64             `json:"total_price_per_load"`
	PricingBreakdown     PricingBreakdown    `json:"pricing_breakdown"`
	DistanceData         PricingDistanceData `json:"distance_data"`
	PermitUpdated        bool                `json:"permit_updated"`
}
