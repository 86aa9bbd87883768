package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeObligationTotals_Itemized(t *testing.T) {
	lines := Lines{
		{Quantity: 3, UnitPrice: dec("100"), DiscountMode: DiscountPercentage, DiscountValue: dec("10")},
		{Quantity: 2, UnitPrice: dec("50"), DiscountMode: DiscountFixed, DiscountValue: dec("20")},
	}

	got := ComputeObligationTotals(TotalsInput{Lines: lines, TaxRate: dec("0.15")})

	// raw: 300 + 100 = 400; discounts: 30 + 40 (20 off each unit, qty 2) = 70
	assertDecimalEqual(t, "400", got.TotalBeforeDiscount)
	assertDecimalEqual(t, "70", got.LineDiscount)
	assertDecimalEqual(t, "70", got.TotalDiscount)
	assertDecimalEqual(t, "330", got.TotalAfterDiscount)
	assertDecimalEqual(t, "49.5", got.TotalTax)
	assertDecimalEqual(t, "379.5", got.GrandTotal)
}

func TestComputeObligationTotals_ObligationLevelDiscount(t *testing.T) {
	lines := Lines{
		{Quantity: 2, UnitPrice: dec("100")},
	}

	t.Run("percentage on post-line subtotal", func(t *testing.T) {
		d := DiscountSetting{Mode: DiscountPercentage, Value: dec("10")}
		got := ComputeObligationTotals(TotalsInput{Lines: lines, TaxRate: dec("0.15"), ObligationDiscount: &d})

		assertDecimalEqual(t, "20", got.ObligationDiscount)
		assertDecimalEqual(t, "180", got.TotalAfterDiscount)
		assertDecimalEqual(t, "27", got.TotalTax)
		assertDecimalEqual(t, "207", got.GrandTotal)
	})

	t.Run("fixed capped at subtotal", func(t *testing.T) {
		d := DiscountSetting{Mode: DiscountFixed, Value: dec("500")}
		got := ComputeObligationTotals(TotalsInput{Lines: lines, TaxRate: dec("0.15"), ObligationDiscount: &d})

		assertDecimalEqual(t, "200", got.ObligationDiscount)
		assert.True(t, got.TotalAfterDiscount.IsZero())
		assert.True(t, got.GrandTotal.IsZero())
	})

	t.Run("stacks on line discounts", func(t *testing.T) {
		discounted := Lines{
			{Quantity: 2, UnitPrice: dec("100"), DiscountMode: DiscountPercentage, DiscountValue: dec("50")},
		}
		d := DiscountSetting{Mode: DiscountFixed, Value: dec("40")}
		got := ComputeObligationTotals(TotalsInput{Lines: discounted, TaxRate: decimal.Zero, ObligationDiscount: &d})

		// 200 raw, 100 after line discount, 60 after obligation discount
		assertDecimalEqual(t, "100", got.LineDiscount)
		assertDecimalEqual(t, "40", got.ObligationDiscount)
		assertDecimalEqual(t, "140", got.TotalDiscount)
		assertDecimalEqual(t, "60", got.GrandTotal)
	})
}

func TestComputeObligationTotals_PlanDriven(t *testing.T) {
	plan := dec("1200")
	d := DiscountSetting{Mode: DiscountPercentage, Value: dec("50")}

	got := ComputeObligationTotals(TotalsInput{
		Lines:              Lines{{Quantity: 9, UnitPrice: dec("999")}}, // ignored
		PlanAmount:         &plan,
		TaxRate:            dec("0.15"),
		ObligationDiscount: &d, // no discount applies to plan-driven obligations
	})

	assertDecimalEqual(t, "1200", got.TotalAfterDiscount)
	assert.True(t, got.TotalDiscount.IsZero())
	assertDecimalEqual(t, "180", got.TotalTax)
	assertDecimalEqual(t, "1380", got.GrandTotal)
}

func TestComputeObligationTotals_TaxDisabled(t *testing.T) {
	lines := Lines{{Quantity: 1, UnitPrice: dec("100")}}

	got := ComputeObligationTotals(TotalsInput{Lines: lines, TaxRate: decimal.Zero})

	assert.True(t, got.TotalTax.IsZero())
	assertDecimalEqual(t, "100", got.GrandTotal)
}

func TestComputeObligationTotals_EmptyLines(t *testing.T) {
	got := ComputeObligationTotals(TotalsInput{Lines: Lines{}, TaxRate: dec("0.15")})

	assert.True(t, got.GrandTotal.IsZero())
	assert.True(t, got.TotalDiscount.IsZero())
	assert.False(t, got.GrandTotal.IsNegative())
}
