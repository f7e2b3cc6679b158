package domain

import "math"

// MinuteRate is the per-roundtrip-minute trucking rate of the LDP quote
// formula, in dollars.
const MinuteRate = 1.83

// PricingParams are the business inputs for one load quote.
type PricingParams struct {
	RoundtripMinutes int
	AddedMinutes     float64
	DumpFee          float64
	LDPFee           float64
}

// PricingResult carries full-precision prices. Round with RoundMoney at the
// point of presentation only, so chained calculations keep full precision.
type PricingResult struct {
	TruckingPricePerLoad float64
	TotalPricePerLoad    float64
}

// RoundtripMinutes derives round-trip drive time from a one-way duration.
// The one-way leg is rounded up to whole minutes first, then doubled; pricing
// depends on this exact order of operations.
func RoundtripMinutes(durationSeconds int) int {
	return int(math.Ceil(float64(durationSeconds)/60)) * 2
}

// TruckingPricePerLoad applies the LDP formula:
// (roundtrip minutes x rate) + added minutes.
func TruckingPricePerLoad(roundtripMinutes int, addedMinutes float64) float64 {
	return float64(roundtripMinutes)*MinuteRate + addedMinutes
}

// TotalPricePerLoad is the all-in quote for one load.
func TotalPricePerLoad(dumpFee, truckingPrice, ldpFee float64) float64 {
	return dumpFee + truckingPrice + ldpFee
}

// Price computes both figures from one set of params.
func Price(p PricingParams) PricingResult {
	trucking := TruckingPricePerLoad(p.RoundtripMinutes, p.AddedMinutes)
	return PricingResult{
		TruckingPricePerLoad: trucking,
		TotalPricePerLoad:    TotalPricePerLoad(p.DumpFee, trucking, p.LDPFee),
	}
}

// RoundMoney rounds to 2 decimal places, half away from zero (standard
// rounding, not banker's rounding).
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
