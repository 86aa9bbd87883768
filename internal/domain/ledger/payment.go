package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mizan/backend/internal/domain/shared"
	"github.com/mizan/backend/internal/domain/shared/valueobject"
)

// PaymentMethod is how a payment was made
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCard         PaymentMethod = "CARD"
	MethodCheque       PaymentMethod = "CHEQUE"
	MethodCredit       PaymentMethod = "CREDIT" // settled from the counterparty's credit balance
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodCard, MethodCheque, MethodCredit:
		return true
	}
	return false
}

// String returns the string representation
func (m PaymentMethod) String() string {
	return string(m)
}

// Payment is one recorded payment. Payments are immutable: corrections are
// new payments, never edits or deletions. ObligationID is nil for a
// counterparty-level payment that has not yet been allocated.
type Payment struct {
	shared.BaseEntity
	ObligationID   *uuid.UUID
	CounterpartyID uuid.UUID
	Amount         valueobject.Money
	Method         PaymentMethod
	PaidAt         time.Time
	Reference      string
}

// NewPayment creates a payment against a single obligation
func NewPayment(obligationID, counterpartyID uuid.UUID, amount decimal.Decimal, method PaymentMethod, paidAt time.Time, reference string) (*Payment, error) {
	if obligationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OBLIGATION", "obligation id is required")
	}
	p, err := newPayment(counterpartyID, amount, method, paidAt, reference)
	if err != nil {
		return nil, err
	}
	p.ObligationID = &obligationID
	return p, nil
}

// NewCounterpartyPayment creates a lump payment from a counterparty that the
// allocator will spread across open obligations
func NewCounterpartyPayment(counterpartyID uuid.UUID, amount decimal.Decimal, method PaymentMethod, paidAt time.Time, reference string) (*Payment, error) {
	return newPayment(counterpartyID, amount, method, paidAt, reference)
}

func newPayment(counterpartyID uuid.UUID, amount decimal.Decimal, method PaymentMethod, paidAt time.Time, reference string) (*Payment, error) {
	if counterpartyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY", "counterparty id is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_AMOUNT", "payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "unknown payment method: "+method.String())
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	return &Payment{
		BaseEntity:     shared.NewBaseEntity(),
		CounterpartyID: counterpartyID,
		Amount:         valueobject.NewMoneySAR(RoundCurrency(amount)),
		Method:         method,
		PaidAt:         paidAt,
		Reference:      reference,
	}, nil
}

// AllocateTo binds an unallocated counterparty payment to an obligation
func (p *Payment) AllocateTo(obligationID uuid.UUID) error {
	if p.ObligationID != nil {
		return shared.NewDomainError("ALREADY_ALLOCATED", "payment is already allocated to an obligation")
	}
	if obligationID == uuid.Nil {
		return shared.NewDomainError("INVALID_OBLIGATION", "obligation id is required")
	}
	p.ObligationID = &obligationID
	p.Touch()
	return nil
}
