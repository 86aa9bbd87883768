package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decs(ss ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(ss))
	for i, s := range ss {
		out[i] = dec(s)
	}
	return out
}

func TestReconcilePayments(t *testing.T) {
	today := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	tests := []struct {
		name          string
		grandTotal    string
		payments      []decimal.Decimal
		legacyPaid    string
		dueDate       *time.Time
		wantPaid      string
		wantRemaining string
		wantStatus    ObligationStatus
		wantClamped   bool
	}{
		{
			name:          "fully paid across two payments",
			grandTotal:    "1000",
			payments:      decs("400", "600"),
			legacyPaid:    "0",
			wantPaid:      "1000",
			wantRemaining: "0",
			wantStatus:    StatusPaid,
		},
		{
			name:          "partial payment wins over past due date",
			grandTotal:    "1000",
			payments:      decs("300"),
			legacyPaid:    "0",
			dueDate:       &yesterday,
			wantPaid:      "300",
			wantRemaining: "700",
			wantStatus:    StatusPartial,
		},
		{
			name:          "unpaid past due date is overdue",
			grandTotal:    "500",
			payments:      nil,
			legacyPaid:    "0",
			dueDate:       &yesterday,
			wantPaid:      "0",
			wantRemaining: "500",
			wantStatus:    StatusOverdue,
		},
		{
			name:          "unpaid with future due date is pending",
			grandTotal:    "500",
			payments:      nil,
			legacyPaid:    "0",
			dueDate:       &tomorrow,
			wantPaid:      "0",
			wantRemaining: "500",
			wantStatus:    StatusPending,
		},
		{
			name:          "unpaid without due date is pending",
			grandTotal:    "500",
			payments:      nil,
			legacyPaid:    "0",
			wantPaid:      "0",
			wantRemaining: "500",
			wantStatus:    StatusPending,
		},
		{
			name:          "legacy paid amount honored when no payment records",
			grandTotal:    "800",
			payments:      nil,
			legacyPaid:    "200",
			wantPaid:      "200",
			wantRemaining: "600",
			wantStatus:    StatusPartial,
		},
		{
			name:          "payment records override legacy paid amount",
			grandTotal:    "800",
			payments:      decs("100"),
			legacyPaid:    "500",
			wantPaid:      "100",
			wantRemaining: "700",
			wantStatus:    StatusPartial,
		},
		{
			name:          "overpayment clamped to grand total",
			grandTotal:    "1000",
			payments:      decs("600", "600"),
			legacyPaid:    "0",
			wantPaid:      "1000",
			wantRemaining: "0",
			wantStatus:    StatusPaid,
			wantClamped:   true,
		},
		{
			name:          "negligible remainder rounds to zero",
			grandTotal:    "100",
			payments:      decs("99.995"),
			legacyPaid:    "0",
			wantPaid:      "100",
			wantRemaining: "0",
			wantStatus:    StatusPaid,
		},
		{
			name:          "zero grand total stays pending",
			grandTotal:    "0",
			payments:      nil,
			legacyPaid:    "0",
			wantPaid:      "0",
			wantRemaining: "0",
			wantStatus:    StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReconcilePayments(dec(tt.grandTotal), tt.payments, dec(tt.legacyPaid), tt.dueDate, today)

			assertDecimalEqual(t, tt.wantPaid, got.PaidAmount)
			assertDecimalEqual(t, tt.wantRemaining, got.RemainingAmount)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantClamped, got.OverpaymentClamped)
		})
	}
}

func TestReconcilePayments_Conservation(t *testing.T) {
	// paid + remaining == grandTotal within a cent, for a spread of inputs
	today := time.Now()
	cases := []struct {
		grandTotal string
		payments   []decimal.Decimal
	}{
		{"1000", decs("333.33", "333.33")},
		{"99.99", decs("33.33", "33.33", "33.33")},
		{"0.01", nil},
		{"750.50", decs("750.50")},
	}

	for _, c := range cases {
		got := ReconcilePayments(dec(c.grandTotal), c.payments, decimal.Zero, nil, today)
		diff := got.PaidAmount.Add(got.RemainingAmount).Sub(dec(c.grandTotal))
		assert.True(t, IsNegligible(diff), "grandTotal=%s: paid=%s remaining=%s", c.grandTotal, got.PaidAmount, got.RemainingAmount)
		assert.False(t, got.RemainingAmount.IsNegative())
	}
}

func TestReconcilePayments_Idempotent(t *testing.T) {
	today := time.Now()
	due := today.AddDate(0, 0, -3)

	first := ReconcilePayments(dec("1000"), decs("250", "250"), decimal.Zero, &due, today)
	second := ReconcilePayments(dec("1000"), decs("250", "250"), decimal.Zero, &due, today)

	assert.True(t, first.PaidAmount.Equal(second.PaidAmount))
	assert.True(t, first.RemainingAmount.Equal(second.RemainingAmount))
	assert.Equal(t, first.Status, second.Status)
}

func TestBeforeDay(t *testing.T) {
	base := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)

	assert.True(t, beforeDay(base.AddDate(0, 0, -1), base))
	assert.False(t, beforeDay(base, base))
	// same day, earlier clock time is not "before"
	assert.False(t, beforeDay(time.Date(2025, 6, 15, 0, 1, 0, 0, time.UTC), base))
	assert.False(t, beforeDay(base.AddDate(0, 0, 1), base))
	assert.True(t, beforeDay(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), base))
}

func TestValidatePaymentAmount(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		remaining string
		wantErr   bool
	}{
		{"valid partial payment", "100", "500", false},
		{"exact remaining balance", "500", "500", false},
		{"within tolerance", "500.00005", "500", false},
		{"zero amount", "0", "500", true},
		{"negative amount", "-10", "500", true},
		{"exceeds remaining", "500.01", "500", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePaymentAmount(dec(tt.amount), dec(tt.remaining))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
