package shared

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds an amount to two decimal places using round-half-up.
// All journal amounts pass through here before they are compared or stored,
// so floating drift never shows up as an imbalance.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// ValidAmount reports whether v is a finite, non-negative monetary amount.
func ValidAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// MulRound multiplies qty by a unit amount and rounds the product to cents.
func MulRound(qty, unit float64) float64 {
	f, _ := decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(unit)).Round(2).Float64()
	return f
}
