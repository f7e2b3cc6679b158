package ports

import "context"

// PermitPricing is the pricing block persisted onto a permit record.
type PermitPricing struct {
	SiteNumber           string
	RoundtripMinutes     int
	AddedMinutes         float64
	TruckingPricePerLoad float64
	TotalPricePerLoad    float64
}

// Port: a boundary for writing computed pricing back to permit records.
// The permit store itself is owned by another system; only this one write
// crosses the boundary.
type PermitRepository interface {
	UpdatePricing(ctx context.Context, p PermitPricing) error
}
