package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"plain integer", "1250", 1250},
		{"decimal", "1250.50", 1250.50},
		{"rupee symbol with separators", "₹1,250.00", 1250},
		{"rs prefix", "Rs. 999", 999},
		{"dollar prefix", "$49.99", 49.99},
		{"trailing text", "1299 only", 1299},
		{"embedded digits", "approx 450/-", 450},
		{"not a price", "N/A", 0},
		{"empty", "", 0},
		{"whitespace", "   ", 0},
		{"negative rejected", "-50", 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, ParsePrice(tc.in), 1e-9)
		})
	}
}

func TestNormalizeStoredPrice(t *testing.T) {
	cases := []struct {
		name        string
		in          float64
		want        float64
		wantChanged bool
	}{
		{"paise value converts", 150000, 1500, true},
		{"threshold exactly", 10000, 100, true},
		{"large rupee price not divisible", 10050, 10050, false},
		{"ordinary price untouched", 149, 149, false},
		{"just below threshold", 9900, 9900, false},
		{"zero", 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := NormalizeStoredPrice(tc.in)
			assert.Equal(t, tc.wantChanged, changed)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}
