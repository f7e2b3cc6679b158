package domain

import (
	"fmt"
	"math"
)

// KeyPrecision is the number of decimal places a coordinate is rounded to
// before it participates in a RouteKey (~0.11 m at 6 decimals).
const KeyPrecision = 6

// Immutable geographic coordinates (latitude, longitude).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks that both components are inside the WGS84 ranges.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return fmt.Errorf("%w: lat/lng must be numbers", ErrInvalidCoordinate)
	}

	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90,90]", ErrInvalidCoordinate, c.Lat)
	}

	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180,180]", ErrInvalidCoordinate, c.Lng)
	}

	return nil
}

// Rounded returns the coordinate rounded half-away-from-zero at KeyPrecision
// decimals. Pairs that round to the same values share a RouteKey.
func (c Coordinate) Rounded() Coordinate {
	return Coordinate{
		Lat: roundPlaces(c.Lat, KeyPrecision),
		Lng: roundPlaces(c.Lng, KeyPrecision),
	}
}

func roundPlaces(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	// math.Round rounds half away from zero, which is the cache-key contract.
	r := math.Round(v*shift) / shift
	if r == 0 {
		// Collapse IEEE -0 to +0 so both format identically in keys.
		return 0
	}
	return r
}

// RouteKey is the canonical cache index for an origin/destination pair.
type RouteKey string

// NewRouteKey validates both endpoints and derives the canonical key from
// their rounded values, origin first.
func NewRouteKey(origin, destination Coordinate) (RouteKey, error) {
	if err := origin.Validate(); err != nil {
		return "", fmt.Errorf("origin: %w", err)
	}

	if err := destination.Validate(); err != nil {
		return "", fmt.Errorf("destination: %w", err)
	}

	o := origin.Rounded()
	d := destination.Rounded()

	key := fmt.Sprintf("%.6f,%.6f|%.6f,%.6f", o.Lat, o.Lng, d.Lat, d.Lng)
	return RouteKey(key), nil
}
