package dto

import "haul-quote-service/internal/domain"

type TravelOptions struct {
	TrafficModel  string `json:"traffic_model,omitempty"`
	DepartureTime *int64 `json:"departure_time,omitempty"` // unix seconds
}

type CalculateRequest struct {
	Origin      *domain.Coordinate `json:"origin"`
	Destination *domain.Coordinate `json:"destination"`
	Options     *TravelOptions     `json:"options,omitempty"`
}

type CalculateResponse struct {
	DistanceMeters           int  `json:"distance_meters"`
	DurationSeconds          int  `json:"duration_seconds"`
	DurationInTrafficSeconds *int `json:"duration_in_traffic_seconds,omitempty"`
	Cached                   bool `json:"cached"`
	CacheAgeMinutes          *int `json:"cache_age_minutes,omitempty"`
}
