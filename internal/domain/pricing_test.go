package domain

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRoundtripMinutes(t *testing.T) {
	cases := []struct {
		seconds int
		want    int
	}{
		{3600, 120},
		{1800, 60},
		{60, 2},
		{61, 4}, // partial minutes round up before doubling
		{59, 2},
		{0, 0},
	}

	for _, c := range cases {
		if got := RoundtripMinutes(c.seconds); got != c.want {
			t.Errorf("RoundtripMinutes(%d) = %d, want %d", c.seconds, got, c.want)
		}
	}
}

func TestTruckingPricePerLoad(t *testing.T) {
	got := TruckingPricePerLoad(60, 10)
	if !almostEqual(got, 119.8) {
		t.Fatalf("TruckingPricePerLoad(60, 10) = %v, want 119.8", got)
	}
}

func TestTotalPricePerLoad(t *testing.T) {
	got := TotalPricePerLoad(25.0, 119.8, 15.0)
	if !almostEqual(got, 159.8) {
		t.Fatalf("TotalPricePerLoad(25, 119.8, 15) = %v, want 159.8", got)
	}
}

func TestPriceComposes(t *testing.T) {
	res := Price(PricingParams{
		RoundtripMinutes: 60,
		AddedMinutes:     10,
		DumpFee:          25,
		LDPFee:           15,
	})

	if !almostEqual(res.TruckingPricePerLoad, 119.8) {
		t.Errorf("trucking = %v, want 119.8", res.TruckingPricePerLoad)
	}
	if !almostEqual(res.TotalPricePerLoad, 159.8) {
		t.Errorf("total = %v, want 159.8", res.TotalPricePerLoad)
	}
}

func TestRoundMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{12.3456, 12.35},
		{12.344, 12.34},
		{119.8, 119.8},
		{0, 0},
	}

	for _, c := range cases {
		if got := RoundMoney(c.in); !almostEqual(got, c.want) {
			t.Errorf("RoundMoney(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
