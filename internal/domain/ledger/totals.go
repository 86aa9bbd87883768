package ledger

import "github.com/shopspring/decimal"

// ObligationTotals holds the aggregated amounts for one obligation
type ObligationTotals struct {
	TotalBeforeDiscount decimal.Decimal `json:"total_before_discount"`
	LineDiscount        decimal.Decimal `json:"line_discount"`
	ObligationDiscount  decimal.Decimal `json:"obligation_discount"`
	TotalDiscount       decimal.Decimal `json:"total_discount"`
	TotalAfterDiscount  decimal.Decimal `json:"total_after_discount"`
	TotalTax            decimal.Decimal `json:"total_tax"`
	GrandTotal          decimal.Decimal `json:"grand_total"`
}

// TotalsInput carries everything needed to aggregate an obligation's amounts.
// PlanAmount, when set, marks a plan-driven obligation (fixed recurring
// amount) and the lines are ignored.
type TotalsInput struct {
	Lines              Lines
	PlanAmount         *decimal.Decimal
	TaxRate            decimal.Decimal // effective rate, 0 when tax is disabled
	ObligationDiscount *DiscountSetting
}

// ComputeObligationTotals aggregates line amounts (or a fixed plan amount)
// into the persisted totals. The obligation-level discount, when present, is
// applied on top of the post-line-discount subtotal. All outputs are rounded
// to 2 decimals and the grand total is never negative.
func ComputeObligationTotals(in TotalsInput) ObligationTotals {
	if in.PlanAmount != nil {
		plan := ClampNonNegative(*in.PlanAmount)
		tax := plan.Mul(in.TaxRate)
		return ObligationTotals{
			TotalBeforeDiscount: RoundCurrency(plan),
			LineDiscount:        decimal.Zero,
			ObligationDiscount:  decimal.Zero,
			TotalDiscount:       decimal.Zero,
			TotalAfterDiscount:  RoundCurrency(plan),
			TotalTax:            RoundCurrency(tax),
			GrandTotal:          RoundCurrency(plan.Add(tax)),
		}
	}

	totalBefore := decimal.Zero
	lineDiscount := decimal.Zero
	subtotal := decimal.Zero
	for _, line := range in.Lines {
		lt := ComputeLineTotals(line, decimal.Zero)
		totalBefore = totalBefore.Add(lt.RawSubtotal)
		lineDiscount = lineDiscount.Add(lt.DiscountAmount)
		subtotal = subtotal.Add(lt.LineSubtotal)
	}

	obligationDiscount := decimal.Zero
	if d := in.ObligationDiscount; d != nil {
		switch d.Mode {
		case DiscountPercentage:
			obligationDiscount = subtotal.Mul(d.Value).Div(oneHundred)
		case DiscountFixed:
			obligationDiscount = decimal.Min(subtotal, ClampNonNegative(d.Value))
		}
	}

	totalAfter := ClampNonNegative(subtotal.Sub(obligationDiscount))
	tax := totalAfter.Mul(in.TaxRate)

	return ObligationTotals{
		TotalBeforeDiscount: RoundCurrency(totalBefore),
		LineDiscount:        RoundCurrency(lineDiscount),
		ObligationDiscount:  RoundCurrency(obligationDiscount),
		TotalDiscount:       RoundCurrency(totalBefore.Sub(totalAfter)),
		TotalAfterDiscount:  RoundCurrency(totalAfter),
		TotalTax:            RoundCurrency(tax),
		GrandTotal:          RoundCurrency(totalAfter.Add(tax)),
	}
}
