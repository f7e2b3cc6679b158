package dto

import "haul-quote-service/internal/domain"

type BatchRoute struct {
	ID          string             `json:"id,omitempty"`
	PermitID    string             `json:"permit_id,omitempty"`
	Origin      *domain.Coordinate `json:"origin"`
	Destination *domain.Coordinate `json:"destination"`
}

type BatchOptions struct {
	MaxConcurrent int    `json:"max_concurrent,omitempty"`
	TrafficModel  string `json:"traffic_model,omitempty"`
}

type BatchRequest struct {
	Routes  []BatchRoute  `json:"routes"`
	Options *BatchOptions `json:"options,omitempty"`
}

type BatchRouteResult struct {
	ID                       string `json:"id,omitempty"`
	PermitID                 string `json:"permit_id,omitempty"`
	DistanceMeters           int    `json:"distance_meters,omitempty"`
	DurationSeconds          int    `json:"duration_seconds,omitempty"`
	DurationInTrafficSeconds *int   `json:"duration_in_traffic_seconds,omitempty"`
	Cached                   bool   `json:"cached"`
	Status                   string `json:"status"`
	ErrorMessage             string `json:"error_message,omitempty"`
}

type BatchSummary struct {
	TotalProcessed    int     `json:"total_processed"`
	Successful        int     `json:"successful"`
	Failed            int     `json:"failed"`
	CacheHits         int     `json:"cache_hits"`
	APICalls          int     `json:"api_calls"`
	TotalCostEstimate float64 `json:"total_cost_estimate"`
}

type BatchResponse struct {
	Results []BatchRouteResult `json:"results"`
	Summary BatchSummary       `json:"summary"`
}
