package ledger

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mizan/backend/internal/domain/shared"
)

// ObligationUpdate is one per-obligation result of an allocation run
type ObligationUpdate struct {
	ObligationID       uuid.UUID
	Applied            decimal.Decimal
	NewPaidAmount      decimal.Decimal
	NewRemainingAmount decimal.Decimal
	NewStatus          ObligationStatus
}

// AllocationOutcome is the full result of spreading one payment
type AllocationOutcome struct {
	Updates      []ObligationUpdate
	TotalApplied decimal.Decimal
	// LeftoverCredit is the part of the payment no open obligation could
	// absorb. It is booked against the counterparty's balance.
	LeftoverCredit decimal.Decimal
	// NewCreditBalance is the counterparty balance after booking the
	// leftover. Credit is a negative adjustment to the balance owed, so it
	// offsets future obligations automatically.
	NewCreditBalance decimal.Decimal
}

// AllocationStrategy decides how one lump payment spreads across a
// counterparty's open obligations
type AllocationStrategy interface {
	Name() string
	Allocate(paymentAmount decimal.Decimal, open []*Obligation, creditBalance decimal.Decimal) (*AllocationOutcome, error)
}

// FIFOAllocator applies the payment to the oldest open obligations first.
// It never mutates its inputs; callers apply the returned updates.
type FIFOAllocator struct{}

// NewFIFOAllocator creates a FIFOAllocator
func NewFIFOAllocator() *FIFOAllocator {
	return &FIFOAllocator{}
}

// Name returns the strategy name
func (a *FIFOAllocator) Name() string {
	return "fifo"
}

// Allocate spreads the payment oldest-first. Each obligation absorbs
// min(its remaining, what is left of the payment); amounts are rounded at
// every step so applied totals plus leftover equal the payment exactly.
func (a *FIFOAllocator) Allocate(paymentAmount decimal.Decimal, open []*Obligation, creditBalance decimal.Decimal) (*AllocationOutcome, error) {
	if !paymentAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_AMOUNT", "payment amount must be positive")
	}

	ordered := make([]*Obligation, len(open))
	copy(ordered, open)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return strings.Compare(ordered[i].ID.String(), ordered[j].ID.String()) < 0
	})

	remaining := RoundCurrency(paymentAmount)
	outcome := &AllocationOutcome{
		Updates:      make([]ObligationUpdate, 0, len(ordered)),
		TotalApplied: decimal.Zero,
	}

	for _, o := range ordered {
		if !remaining.IsPositive() {
			break
		}
		if !o.RemainingAmount.IsPositive() {
			continue
		}

		applied := decimal.Min(o.RemainingAmount, remaining)
		newPaid := RoundCurrency(o.PaidAmount.Add(applied))
		newRemaining := RoundCurrency(o.RemainingAmount.Sub(applied))

		status := o.Status
		if !newRemaining.IsPositive() {
			newRemaining = decimal.Zero
			status = StatusPaid
		} else if newPaid.IsPositive() {
			status = StatusPartial
		}

		outcome.Updates = append(outcome.Updates, ObligationUpdate{
			ObligationID:       o.ID,
			Applied:            applied,
			NewPaidAmount:      newPaid,
			NewRemainingAmount: newRemaining,
			NewStatus:          status,
		})
		outcome.TotalApplied = RoundCurrency(outcome.TotalApplied.Add(applied))
		remaining = RoundCurrency(remaining.Sub(applied))
	}

	outcome.LeftoverCredit = remaining
	outcome.NewCreditBalance = RoundCurrency(creditBalance.Sub(remaining))
	return outcome, nil
}
