package ledger

import "github.com/shopspring/decimal"

// currencyScale is the number of fractional digits for SAR amounts.
const currencyScale = 2

// negligibleThreshold absorbs rounding noise from legacy float-sourced data.
// Decimal arithmetic makes it unnecessary for internally computed values, but
// records migrated from the old system still need it at comparison boundaries.
var negligibleThreshold = decimal.NewFromFloat(0.01)

// paymentTolerance is the slack allowed when validating a payment against the
// remaining balance.
var paymentTolerance = decimal.NewFromFloat(0.0001)

// RoundCurrency rounds a monetary amount to 2 fractional digits, half-up.
func RoundCurrency(x decimal.Decimal) decimal.Decimal {
	return x.Round(currencyScale)
}

// IsNegligible reports whether |x| is small enough to be treated as zero.
func IsNegligible(x decimal.Decimal) bool {
	return x.Abs().LessThanOrEqual(negligibleThreshold)
}

// ClampNonNegative returns max(0, x).
func ClampNonNegative(x decimal.Decimal) decimal.Decimal {
	if x.IsNegative() {
		return decimal.Zero
	}
	return x
}
