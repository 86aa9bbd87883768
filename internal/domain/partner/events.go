package partner

import (
	"github.com/shopspring/decimal"

	"github.com/mizan/backend/internal/domain/shared"
)

const counterpartyAggregateType = "Counterparty"

// CounterpartyCreatedEvent is raised when a counterparty is created
type CounterpartyCreatedEvent struct {
	shared.BaseDomainEvent
	Kind CounterpartyKind `json:"kind"`
	Name string           `json:"name"`
}

// NewCounterpartyCreatedEvent creates a CounterpartyCreatedEvent
func NewCounterpartyCreatedEvent(c *Counterparty) *CounterpartyCreatedEvent {
	return &CounterpartyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("counterparty.created", counterpartyAggregateType, c.ID),
		Kind:            c.Kind,
		Name:            c.Name,
	}
}

// CreditAccruedEvent is raised when unabsorbed payment money becomes credit
type CreditAccruedEvent struct {
	shared.BaseDomainEvent
	Amount     decimal.Decimal `json:"amount"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// NewCreditAccruedEvent creates a CreditAccruedEvent
func NewCreditAccruedEvent(c *Counterparty, amount decimal.Decimal) *CreditAccruedEvent {
	return &CreditAccruedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("counterparty.credit_accrued", counterpartyAggregateType, c.ID),
		Amount:          amount,
		NewBalance:      c.CreditBalance,
	}
}
