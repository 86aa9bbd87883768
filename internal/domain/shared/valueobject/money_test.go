package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		currency Currency
		wantErr  bool
	}{
		{
			name:     "valid SAR amount",
			amount:   decimal.NewFromFloat(100.50),
			currency: SAR,
			wantErr:  false,
		},
		{
			name:     "zero amount",
			amount:   decimal.Zero,
			currency: SAR,
			wantErr:  false,
		},
		{
			name:     "negative amount allowed",
			amount:   decimal.NewFromFloat(-25),
			currency: SAR,
			wantErr:  false,
		},
		{
			name:     "empty currency",
			amount:   decimal.NewFromFloat(10),
			currency: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoney(tt.amount, tt.currency)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, m.Amount().Equal(tt.amount))
			assert.Equal(t, tt.currency, m.Currency())
		})
	}
}

func TestMoney_AddSubtract(t *testing.T) {
	a := NewMoneySARFromFloat(100.25)
	b := NewMoneySARFromFloat(50.75)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "151.00", sum.StringFixed(2))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "49.50", diff.StringFixed(2))

	other, err := NewMoney(decimal.NewFromInt(10), "USD")
	require.NoError(t, err)
	_, err = a.Add(other)
	assert.Error(t, err)
	_, err = a.Subtract(other)
	assert.Error(t, err)
}

func TestMoney_MultiplyAndPercentage(t *testing.T) {
	m := NewMoneySARFromFloat(300)

	tripled := m.Multiply(decimal.NewFromInt(3))
	assert.Equal(t, "900.00", tripled.StringFixed(2))

	tenPct := m.CalculatePercentage(decimal.NewFromInt(10))
	assert.Equal(t, "30.00", tenPct.StringFixed(2))
}

func TestMoney_RoundHalfUp(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{"round up at half", 10.005, "10.01"},
		{"round down below half", 10.004, "10.00"},
		{"already two places", 10.25, "10.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMoneySARFromFloat(tt.input)
			assert.Equal(t, tt.want, m.Round(2).StringFixed(2))
		})
	}
}

func TestMoney_Comparisons(t *testing.T) {
	a := NewMoneySARFromFloat(10)
	b := NewMoneySARFromFloat(20)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, gt)

	assert.True(t, a.Equals(NewMoneySARFromFloat(10)))
	assert.False(t, a.Equals(b))
	assert.True(t, ZeroSAR().IsZero())
	assert.True(t, a.IsPositive())
	assert.True(t, a.Negate().IsNegative())
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneySARFromFloat(1234.56)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"1234.56","currency":"SAR"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("99.90"))
	assert.Equal(t, "99.90", m.StringFixed(2))
	assert.Equal(t, DefaultCurrency, m.Currency())

	var fromBytes Money
	require.NoError(t, fromBytes.Scan([]byte("12.34")))
	assert.Equal(t, "12.34", fromBytes.StringFixed(2))

	var fromNil Money
	require.NoError(t, fromNil.Scan(nil))
	assert.True(t, fromNil.IsZero())

	var bad Money
	assert.Error(t, bad.Scan(42))
}
