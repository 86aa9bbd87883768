package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizan/backend/internal/domain/shared"
)

// Reconciliation is the derived payment state of one obligation
type Reconciliation struct {
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
	Status          ObligationStatus
	// OverpaymentClamped is set when the recorded payments summed above the
	// grand total and the paid amount was capped. Callers should log it.
	OverpaymentClamped bool
}

// ReconcilePayments computes paid amount, remaining amount and status for one
// obligation from its grand total and the amounts of its recorded payments,
// oldest first.
//
// legacyPaid is the paid amount persisted by the old system; it is only
// honored when no payment records exist at all. The sum of payment records is
// authoritative otherwise.
//
// Overpayment beyond the tolerance is clamped to the grand total rather than
// rejected: the condition arises from drift in migrated data, not corruption.
func ReconcilePayments(grandTotal decimal.Decimal, paymentAmounts []decimal.Decimal, legacyPaid decimal.Decimal, dueDate *time.Time, today time.Time) Reconciliation {
	paid := decimal.Zero
	if len(paymentAmounts) == 0 {
		paid = legacyPaid
	} else {
		for _, amount := range paymentAmounts {
			paid = paid.Add(amount)
		}
	}

	clamped := false
	if paid.Sub(grandTotal).GreaterThan(paymentTolerance) {
		paid = grandTotal
		clamped = true
	}

	remaining := RoundCurrency(ClampNonNegative(grandTotal.Sub(paid)))
	if IsNegligible(remaining) {
		remaining = decimal.Zero
	}

	return Reconciliation{
		PaidAmount:         RoundCurrency(paid),
		RemainingAmount:    remaining,
		Status:             deriveStatus(grandTotal, RoundCurrency(paid), remaining, dueDate, today),
		OverpaymentClamped: clamped,
	}
}

// deriveStatus classifies an obligation. Partial takes precedence over
// Overdue: once any payment exists, a past due date no longer flips the
// status.
func deriveStatus(grandTotal, paid, remaining decimal.Decimal, dueDate *time.Time, today time.Time) ObligationStatus {
	if remaining.IsZero() && grandTotal.IsPositive() {
		return StatusPaid
	}
	if paid.IsPositive() {
		return StatusPartial
	}
	if dueDate != nil && beforeDay(*dueDate, today) {
		return StatusOverdue
	}
	return StatusPending
}

// beforeDay reports whether a falls on a calendar day strictly before b,
// ignoring time of day.
func beforeDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

// ValidatePaymentAmount checks that a new payment is positive and does not
// exceed the obligation's remaining balance beyond the rounding tolerance.
func ValidatePaymentAmount(amount, remaining decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_PAYMENT_AMOUNT", "payment amount must be positive")
	}
	if amount.Sub(remaining).GreaterThan(paymentTolerance) {
		return shared.NewDomainError("PAYMENT_EXCEEDS_BALANCE", "payment amount exceeds remaining balance")
	}
	return nil
}
