package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mizan/backend/internal/domain/shared"
)

// DefaultTaxRate is the flat VAT rate applied when tax is enabled
var DefaultTaxRate = decimal.NewFromFloat(0.15)

// Obligation is a billable or payable record: a customer invoice or a
// supplier purchase order. It is the aggregate root for lines, totals and
// payment state. Lines and plan amount may be edited before the first
// payment only; the grand total is derived and persisted for later
// comparison against payments.
type Obligation struct {
	shared.BaseAggregateRoot
	Kind             ObligationKind
	SequenceOrdinal  int
	SequenceLabel    string
	CounterpartyID   uuid.UUID
	CounterpartyName string
	Lines            Lines
	PlanAmount       *decimal.Decimal
	TaxEnabled       bool
	TaxRate          decimal.Decimal
	DiscountEntry    DiscountEntryMode
	GlobalDiscount   *DiscountSetting
	InvoiceDiscount  *DiscountSetting
	Totals           ObligationTotals
	PaidAmount       decimal.Decimal
	RemainingAmount  decimal.Decimal
	Status           ObligationStatus
	DueDate          *time.Time
	PaidAt           *time.Time
	Remark           string
}

// NewObligation creates an obligation for a counterparty with empty lines,
// tax enabled at the default rate and individual discount entry.
func NewObligation(kind ObligationKind, counterpartyID uuid.UUID, counterpartyName string, dueDate *time.Time, remark string) (*Obligation, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "unknown obligation kind: "+kind.String())
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY", "counterparty id is required")
	}

	o := &Obligation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		CounterpartyID:    counterpartyID,
		CounterpartyName:  counterpartyName,
		Lines:             Lines{},
		TaxEnabled:        true,
		TaxRate:           DefaultTaxRate,
		DiscountEntry:     DiscountEntryIndividual,
		PaidAmount:        decimal.Zero,
		Status:            StatusPending,
		DueDate:           dueDate,
		Remark:            remark,
	}
	o.recalculate()
	o.AddDomainEvent(NewObligationCreatedEvent(o))
	return o, nil
}

// EffectiveTaxRate returns the tax rate to apply, zero when tax is disabled
func (o *Obligation) EffectiveTaxRate() decimal.Decimal {
	if !o.TaxEnabled {
		return decimal.Zero
	}
	return o.TaxRate
}

// CanEditLines reports whether the obligation's lines and discounts may
// still change. Edits are locked once any payment has been recorded.
func (o *Obligation) CanEditLines() bool {
	return o.PaidAmount.IsZero()
}

// ReplaceLines swaps the obligation's line set and recomputes totals
func (o *Obligation) ReplaceLines(lines Lines) error {
	if !o.CanEditLines() {
		return shared.NewDomainError("OBLIGATION_LOCKED", "lines cannot change after a payment is recorded")
	}
	for _, l := range lines {
		if l.Quantity < 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "quantity cannot be negative")
		}
		if l.UnitPrice.IsNegative() {
			return shared.NewDomainError("INVALID_UNIT_PRICE", "unit price cannot be negative")
		}
	}
	o.Lines = lines
	o.PlanAmount = nil
	if o.DiscountEntry == DiscountEntryGlobal && o.GlobalDiscount != nil {
		o.Lines = DistributeDiscount(o.Lines, *o.GlobalDiscount)
	}
	o.recalculate()
	o.IncrementVersion()
	o.Touch()
	return nil
}

// SetPlanAmount turns the obligation into a plan-driven one (fixed recurring
// amount, no line items)
func (o *Obligation) SetPlanAmount(amount decimal.Decimal) error {
	if !o.CanEditLines() {
		return shared.NewDomainError("OBLIGATION_LOCKED", "plan amount cannot change after a payment is recorded")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_PLAN_AMOUNT", "plan amount cannot be negative")
	}
	o.PlanAmount = &amount
	o.Lines = Lines{}
	o.recalculate()
	o.IncrementVersion()
	o.Touch()
	return nil
}

// SetTax enables or disables tax and sets the rate
func (o *Obligation) SetTax(enabled bool, rate decimal.Decimal) error {
	if !o.CanEditLines() {
		return shared.NewDomainError("OBLIGATION_LOCKED", "tax cannot change after a payment is recorded")
	}
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_TAX_RATE", "tax rate cannot be negative")
	}
	o.TaxEnabled = enabled
	o.TaxRate = rate
	o.recalculate()
	o.IncrementVersion()
	o.Touch()
	return nil
}

// UseGlobalDiscount switches to global discount entry: every line's prior
// discount is cleared, then the setting is distributed over the line set.
func (o *Obligation) UseGlobalDiscount(setting DiscountSetting) error {
	if !o.CanEditLines() {
		return shared.NewDomainError("OBLIGATION_LOCKED", "discounts cannot change after a payment is recorded")
	}
	if _, err := NewDiscountSetting(setting.Mode, setting.Value); err != nil {
		return err
	}
	o.DiscountEntry = DiscountEntryGlobal
	o.GlobalDiscount = &setting
	o.Lines = DistributeDiscount(ClearLineDiscounts(o.Lines), setting)
	o.recalculate()
	o.IncrementVersion()
	o.Touch()
	return nil
}

// UseIndividualDiscounts switches back to per-line discount entry, clearing
// the global setting and any distributed per-line discounts.
func (o *Obligation) UseIndividualDiscounts() error {
	if !o.CanEditLines() {
		return shared.NewDomainError("OBLIGATION_LOCKED", "discounts cannot change after a payment is recorded")
	}
	o.DiscountEntry = DiscountEntryIndividual
	o.GlobalDiscount = nil
	o.Lines = ClearLineDiscounts(o.Lines)
	o.recalculate()
	o.IncrementVersion()
	o.Touch()
	return nil
}

// SetInvoiceDiscount sets or clears the obligation-level discount applied on
// top of the post-line-discount subtotal
func (o *Obligation) SetInvoiceDiscount(setting *DiscountSetting) error {
	if !o.CanEditLines() {
		return shared.NewDomainError("OBLIGATION_LOCKED", "discounts cannot change after a payment is recorded")
	}
	if setting != nil {
		if _, err := NewDiscountSetting(setting.Mode, setting.Value); err != nil {
			return err
		}
	}
	o.InvoiceDiscount = setting
	o.recalculate()
	o.IncrementVersion()
	o.Touch()
	return nil
}

// AssignSequence records the persisted display number for this obligation
func (o *Obligation) AssignSequence(ordinal int, label string) {
	o.SequenceOrdinal = ordinal
	o.SequenceLabel = label
}

// Reschedule moves the due date and re-derives the status
func (o *Obligation) Reschedule(dueDate *time.Time) {
	o.DueDate = dueDate
	o.refreshPaymentState(time.Now())
	o.IncrementVersion()
	o.Touch()
}

// SetRemark replaces the free-text remark
func (o *Obligation) SetRemark(remark string) {
	o.Remark = remark
	o.IncrementVersion()
	o.Touch()
}

// ApplyPayment records a payment amount against the obligation. The amount
// must be positive and must not exceed the remaining balance beyond the
// rounding tolerance. Totals, status and version are updated.
func (o *Obligation) ApplyPayment(amount decimal.Decimal, paidAt time.Time) error {
	if !o.Status.CanApplyPayment() {
		return shared.NewDomainError("ALREADY_PAID", "obligation is fully paid")
	}
	if err := ValidatePaymentAmount(amount, o.RemainingAmount); err != nil {
		return err
	}

	o.PaidAmount = RoundCurrency(o.PaidAmount.Add(amount))
	if o.PaidAmount.GreaterThan(o.Totals.GrandTotal) {
		o.PaidAmount = o.Totals.GrandTotal
	}
	o.refreshPaymentState(paidAt)
	o.IncrementVersion()
	o.Touch()

	if o.Status == StatusPaid {
		o.AddDomainEvent(NewObligationPaidEvent(o))
	} else {
		o.AddDomainEvent(NewObligationPartiallyPaidEvent(o, amount))
	}
	return nil
}

// Reconcile replaces the obligation's payment state with the result of a
// fresh reconciliation over its payment records. Used when payment records,
// not the running paid amount, are the source of truth.
func (o *Obligation) Reconcile(rec Reconciliation, paidAt time.Time) {
	o.PaidAmount = rec.PaidAmount
	o.RemainingAmount = rec.RemainingAmount
	o.Status = rec.Status
	if o.Status == StatusPaid && o.PaidAt == nil {
		at := paidAt
		o.PaidAt = &at
	}
	o.IncrementVersion()
	o.Touch()
}

// recalculate derives totals and payment state from the current lines,
// discounts and paid amount
func (o *Obligation) recalculate() {
	o.Totals = ComputeObligationTotals(TotalsInput{
		Lines:              o.Lines,
		PlanAmount:         o.PlanAmount,
		TaxRate:            o.EffectiveTaxRate(),
		ObligationDiscount: o.InvoiceDiscount,
	})
	o.refreshPaymentState(time.Now())
}

func (o *Obligation) refreshPaymentState(paidAt time.Time) {
	remaining := RoundCurrency(ClampNonNegative(o.Totals.GrandTotal.Sub(o.PaidAmount)))
	if IsNegligible(remaining) {
		remaining = decimal.Zero
	}
	o.RemainingAmount = remaining
	o.Status = deriveStatus(o.Totals.GrandTotal, o.PaidAmount, remaining, o.DueDate, time.Now())
	if o.Status == StatusPaid && o.PaidAt == nil {
		at := paidAt
		o.PaidAt = &at
	}
}
