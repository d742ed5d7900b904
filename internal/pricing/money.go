package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds the shortest decimal form of v to cents, half away from zero.
// 2.675 becomes 2.68 even though its binary value lies just below the half.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// FormatAmount renders v without decimals when it is integral and with two
// decimals otherwise.
func FormatAmount(v float64) string {
	d := decimal.NewFromFloat(v)
	if v == math.Trunc(v) {
		return d.StringFixed(0)
	}
	return d.StringFixed(2)
}

// FormatFixed renders v with exactly two decimals.
func FormatFixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
