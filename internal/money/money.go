package money

import "github.com/shopspring/decimal"

// ShareTolerance is how far custom participant shares may drift from an
// expense total before they are rejected, in settlement-currency units.
var ShareTolerance = decimal.RequireFromString("0.01")

// RoundTo rounds a monetary value to the given number of fractional digits,
// ties away from zero. Every amount that is displayed, compared against a
// tolerance, or summed across expenses goes through here, so rounding error
// cannot accumulate across a long expense history.
func RoundTo(value decimal.Decimal, precision int32) decimal.Decimal {
	return value.Round(precision)
}

// WithinTolerance reports whether a and b differ by at most tol.
func WithinTolerance(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}

// Sum adds a slice of amounts without any intermediate rounding.
func Sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
