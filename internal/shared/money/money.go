// Package money holds the rounding conventions for currency amounts.
//
// All intermediate arithmetic stays at full decimal precision; rounding to
// two places (half-up) happens only when an amount becomes output: a payslip
// column, a contribution row, a response payload.
package money

import "github.com/shopspring/decimal"

// Round2 rounds half away from zero to 2 decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Format renders an amount as a fixed 2-decimal string for responses.
func Format(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

// NonNegative floors an amount at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Min returns the smaller of two amounts.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
