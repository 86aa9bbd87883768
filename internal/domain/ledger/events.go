package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mizan/backend/internal/domain/shared"
)

const obligationAggregateType = "Obligation"

// ObligationCreatedEvent is raised when a new obligation is created
type ObligationCreatedEvent struct {
	shared.BaseDomainEvent
	Kind           ObligationKind  `json:"kind"`
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

// NewObligationCreatedEvent creates an ObligationCreatedEvent
func NewObligationCreatedEvent(o *Obligation) *ObligationCreatedEvent {
	return &ObligationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("obligation.created", obligationAggregateType, o.ID),
		Kind:            o.Kind,
		CounterpartyID:  o.CounterpartyID,
		GrandTotal:      o.Totals.GrandTotal,
	}
}

// ObligationPaidEvent is raised when an obligation becomes fully settled
type ObligationPaidEvent struct {
	shared.BaseDomainEvent
	Kind           ObligationKind  `json:"kind"`
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
}

// NewObligationPaidEvent creates an ObligationPaidEvent
func NewObligationPaidEvent(o *Obligation) *ObligationPaidEvent {
	return &ObligationPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("obligation.paid", obligationAggregateType, o.ID),
		Kind:            o.Kind,
		CounterpartyID:  o.CounterpartyID,
		PaidAmount:      o.PaidAmount,
	}
}

// ObligationPartiallyPaidEvent is raised when a payment leaves a balance open
type ObligationPartiallyPaidEvent struct {
	shared.BaseDomainEvent
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

// NewObligationPartiallyPaidEvent creates an ObligationPartiallyPaidEvent
func NewObligationPartiallyPaidEvent(o *Obligation, amount decimal.Decimal) *ObligationPartiallyPaidEvent {
	return &ObligationPartiallyPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("obligation.partially_paid", obligationAggregateType, o.ID),
		Amount:          amount,
		PaidAmount:      o.PaidAmount,
		RemainingAmount: o.RemainingAmount,
	}
}

// PaymentRecordedEvent is raised when a payment record is created
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	ObligationID *uuid.UUID      `json:"obligation_id,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Method       PaymentMethod   `json:"method"`
}

// NewPaymentRecordedEvent creates a PaymentRecordedEvent
func NewPaymentRecordedEvent(p *Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("payment.recorded", "Payment", p.ID),
		ObligationID:    p.ObligationID,
		Amount:          p.Amount.Amount(),
		Method:          p.Method,
	}
}
