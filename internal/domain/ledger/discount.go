package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mizan/backend/internal/domain/shared"
)

// DiscountEntryMode determines whether discounts are entered per line or once
// for the whole obligation
type DiscountEntryMode string

const (
	DiscountEntryIndividual DiscountEntryMode = "INDIVIDUAL" // each line carries its own discount
	DiscountEntryGlobal     DiscountEntryMode = "GLOBAL"     // one setting distributed over all lines
)

// IsValid checks if the entry mode is valid
func (m DiscountEntryMode) IsValid() bool {
	return m == DiscountEntryIndividual || m == DiscountEntryGlobal
}

// String returns the string representation
func (m DiscountEntryMode) String() string {
	return string(m)
}

// DiscountSetting is one discount rule: a percentage or a fixed SAR amount
type DiscountSetting struct {
	Mode  DiscountMode    `json:"mode"`
	Value decimal.Decimal `json:"value"`
}

// NewDiscountSetting creates a validated discount setting
func NewDiscountSetting(mode DiscountMode, value decimal.Decimal) (DiscountSetting, error) {
	if !mode.IsValid() {
		return DiscountSetting{}, shared.NewDomainError("INVALID_DISCOUNT_MODE", "unknown discount mode: "+mode.String())
	}
	if value.IsNegative() {
		return DiscountSetting{}, shared.NewDomainError("INVALID_DISCOUNT", "discount value cannot be negative")
	}
	if mode == DiscountPercentage && value.GreaterThan(oneHundred) {
		return DiscountSetting{}, shared.NewDomainError("INVALID_DISCOUNT", "percentage discount cannot exceed 100")
	}
	return DiscountSetting{Mode: mode, Value: value}, nil
}

// DistributeDiscount applies one global discount setting to a line set and
// returns the new lines, leaving the input untouched.
//
// Percentage mode broadcasts the same percentage to every line. Fixed mode
// splits the amount proportionally to each line's share of the pre-discount
// subtotal, clamped to the line's own subtotal. Shares are settled with a
// largest-remainder pass so they sum exactly to the rounded discount total.
// A line set with a zero subtotal is returned unchanged.
func DistributeDiscount(lines Lines, setting DiscountSetting) Lines {
	out := make(Lines, len(lines))
	copy(out, lines)

	switch setting.Mode {
	case DiscountPercentage:
		for i := range out {
			out[i].DiscountMode = DiscountPercentage
			out[i].DiscountValue = setting.Value
		}
	case DiscountFixed:
		totalRaw := lines.TotalRawSubtotal()
		if !totalRaw.IsPositive() {
			return out
		}
		target := RoundCurrency(decimal.Min(setting.Value, totalRaw))

		shares := make([]decimal.Decimal, len(out))
		remainders := make([]decimal.Decimal, len(out))
		distributed := decimal.Zero
		for i := range out {
			raw := out[i].RawSubtotal()
			exact := decimal.Min(raw, target.Mul(raw).Div(totalRaw))
			shares[i] = exact.RoundDown(2)
			remainders[i] = exact.Sub(shares[i])
			distributed = distributed.Add(shares[i])
		}

		// hand out leftover cents, largest fractional remainder first,
		// skipping lines already at their clamp
		cent := decimal.New(1, -2)
		for leftover := target.Sub(distributed); leftover.IsPositive(); leftover = leftover.Sub(cent) {
			best := -1
			for i := range out {
				if shares[i].Add(cent).GreaterThan(out[i].RawSubtotal()) {
					continue
				}
				if best < 0 || remainders[i].GreaterThan(remainders[best]) {
					best = i
				}
			}
			if best < 0 {
				break
			}
			shares[best] = shares[best].Add(cent)
			remainders[best] = remainders[best].Sub(cent)
		}

		for i := range out {
			out[i].DiscountMode = DiscountFixed
			out[i].DiscountValue = shares[i]
		}
	}
	return out
}

// ClearLineDiscounts zeroes every line's discount and returns the new lines.
// Used when an obligation switches between individual and global entry modes.
func ClearLineDiscounts(lines Lines) Lines {
	out := make(Lines, len(lines))
	for i, l := range lines {
		out[i] = l.WithoutDiscount()
	}
	return out
}
