package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiscountSetting(t *testing.T) {
	tests := []struct {
		name    string
		mode    DiscountMode
		value   string
		wantErr bool
	}{
		{"valid percentage", DiscountPercentage, "10", false},
		{"valid fixed", DiscountFixed, "250", false},
		{"percentage at bound", DiscountPercentage, "100", false},
		{"percentage over 100", DiscountPercentage, "101", true},
		{"negative value", DiscountFixed, "-1", true},
		{"unknown mode", "BOGUS", "10", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewDiscountSetting(tt.mode, dec(tt.value))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.mode, s.Mode)
		})
	}
}

func TestDistributeDiscount_Percentage(t *testing.T) {
	lines := Lines{
		{Quantity: 3, UnitPrice: dec("100")},
		{Quantity: 2, UnitPrice: dec("50")},
	}

	got := DistributeDiscount(lines, DiscountSetting{Mode: DiscountPercentage, Value: dec("10")})

	require.Len(t, got, 2)
	for _, l := range got {
		assert.Equal(t, DiscountPercentage, l.DiscountMode)
		assertDecimalEqual(t, "10", l.DiscountValue)
	}
	// input untouched
	assert.True(t, lines[0].DiscountValue.IsZero())
}

func TestDistributeDiscount_FixedProportional(t *testing.T) {
	// raw subtotals 300 and 100; a 100 fixed discount splits 75 / 25
	lines := Lines{
		{Quantity: 3, UnitPrice: dec("100")},
		{Quantity: 2, UnitPrice: dec("50")},
	}

	got := DistributeDiscount(lines, DiscountSetting{Mode: DiscountFixed, Value: dec("100")})

	require.Len(t, got, 2)
	assert.Equal(t, DiscountFixed, got[0].DiscountMode)
	assertDecimalEqual(t, "75", got[0].DiscountValue)
	assertDecimalEqual(t, "25", got[1].DiscountValue)
}

func TestDistributeDiscount_FixedClampedPerLine(t *testing.T) {
	// the discount exceeds the whole subtotal; each share is capped at its line
	lines := Lines{
		{Quantity: 1, UnitPrice: dec("30")},
		{Quantity: 1, UnitPrice: dec("10")},
	}

	got := DistributeDiscount(lines, DiscountSetting{Mode: DiscountFixed, Value: dec("400")})

	assertDecimalEqual(t, "30", got[0].DiscountValue)
	assertDecimalEqual(t, "10", got[1].DiscountValue)
}

func TestDistributeDiscount_ZeroSubtotal(t *testing.T) {
	lines := Lines{
		{Quantity: 0, UnitPrice: dec("100")},
		{Quantity: 5, UnitPrice: decimal.Zero},
	}

	got := DistributeDiscount(lines, DiscountSetting{Mode: DiscountFixed, Value: dec("50")})

	for _, l := range got {
		assert.True(t, l.DiscountValue.IsZero())
	}
}

func TestDistributeDiscount_FixedSharesSumExactly(t *testing.T) {
	// three equal lines sharing 100: 33.34 + 33.33 + 33.33, never 99.99
	lines := Lines{
		{Quantity: 1, UnitPrice: dec("100")},
		{Quantity: 1, UnitPrice: dec("100")},
		{Quantity: 1, UnitPrice: dec("100")},
	}

	got := DistributeDiscount(lines, DiscountSetting{Mode: DiscountFixed, Value: dec("100")})

	assertDecimalEqual(t, "33.34", got[0].DiscountValue)
	assertDecimalEqual(t, "33.33", got[1].DiscountValue)
	assertDecimalEqual(t, "33.33", got[2].DiscountValue)

	sum := decimal.Zero
	for _, l := range got {
		sum = sum.Add(l.DiscountValue)
	}
	assertDecimalEqual(t, "100", sum)
}

func TestDistributeDiscount_RemainderFollowsLargestShare(t *testing.T) {
	// raw subtotals 200 and 100 sharing 50: exact shares 33.333/16.666;
	// the leftover cent lands on the larger remainder
	lines := Lines{
		{Quantity: 2, UnitPrice: dec("100")},
		{Quantity: 1, UnitPrice: dec("100")},
	}

	got := DistributeDiscount(lines, DiscountSetting{Mode: DiscountFixed, Value: dec("50")})

	assertDecimalEqual(t, "33.33", got[0].DiscountValue)
	assertDecimalEqual(t, "16.67", got[1].DiscountValue)
}

func TestClearLineDiscounts(t *testing.T) {
	lines := Lines{
		{Quantity: 1, UnitPrice: dec("100"), DiscountMode: DiscountFixed, DiscountValue: dec("20")},
		{Quantity: 2, UnitPrice: dec("50"), DiscountMode: DiscountPercentage, DiscountValue: dec("15")},
	}

	got := ClearLineDiscounts(lines)

	for _, l := range got {
		assert.True(t, l.DiscountValue.IsZero())
		assert.Equal(t, DiscountPercentage, l.DiscountMode)
	}
	// input untouched
	assertDecimalEqual(t, "20", lines[0].DiscountValue)
}
