package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	priceStripper = strings.NewReplacer("₹", "", "Rs.", "", "Rs", "", "$", "", ",", "", " ", "")
	leadingNumber = regexp.MustCompile(`\d+(\.\d+)?`)
)

// ParsePrice normalizes a free-text price token into a non-negative
// value. Currency symbols, thousands separators and whitespace are
// stripped; when a direct parse still fails, the first digit run (with
// at most one decimal point) is used. Malformed input degrades to zero,
// never an error.
func ParsePrice(raw string) float64 {
	cleaned := priceStripper.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0
	}
	if v, err := strconv.ParseFloat(cleaned, 64); err == nil && v >= 0 {
		return v
	}
	if m := leadingNumber.FindString(cleaned); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			return v
		}
	}
	return 0
}

// MinorUnitThreshold marks stored prices that were most likely recorded
// in paise instead of rupees.
const MinorUnitThreshold = 10000

// NormalizeStoredPrice corrects a price mistakenly stored in the minor
// currency unit: values of at least 10,000 that are divisible by 100
// after rounding are divided by 100. Everything else passes through.
func NormalizeStoredPrice(p float64) (float64, bool) {
	if p >= MinorUnitThreshold && math.Mod(math.Round(p), 100) == 0 {
		return p / 100, true
	}
	return p, false
}
