package partner

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mizan/backend/internal/domain/shared"
)

// CounterpartyKind distinguishes customers from suppliers
type CounterpartyKind string

const (
	KindCustomer CounterpartyKind = "CUSTOMER"
	KindSupplier CounterpartyKind = "SUPPLIER"
)

// IsValid checks if the counterparty kind is valid
func (k CounterpartyKind) IsValid() bool {
	return k == KindCustomer || k == KindSupplier
}

// String returns the string representation
func (k CounterpartyKind) String() string {
	return string(k)
}

// Counterparty is the customer or supplier on the other side of an
// obligation. CreditBalance is a signed amount owed: positive means the
// counterparty owes money beyond its open obligations, negative means it has
// pre-paid credit that offsets future obligations.
type Counterparty struct {
	shared.BaseAggregateRoot
	Kind          CounterpartyKind
	Name          string
	Phone         string
	Email         string
	Address       string
	TaxNumber     string
	CreditBalance decimal.Decimal
	Notes         string
}

// NewCounterparty creates a counterparty with a zero balance
func NewCounterparty(kind CounterpartyKind, name string) (*Counterparty, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "unknown counterparty kind: "+kind.String())
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "counterparty name is required")
	}

	c := &Counterparty{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		Name:              name,
		CreditBalance:     decimal.Zero,
	}
	c.AddDomainEvent(NewCounterpartyCreatedEvent(c))
	return c, nil
}

// UpdateContact updates the counterparty's contact details
func (c *Counterparty) UpdateContact(phone, email, address string) {
	c.Phone = phone
	c.Email = email
	c.Address = address
	c.IncrementVersion()
	c.Touch()
}

// Rename changes the counterparty's display name
func (c *Counterparty) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "counterparty name is required")
	}
	c.Name = name
	c.IncrementVersion()
	c.Touch()
	return nil
}

// AvailableCredit returns the pre-paid credit available for consumption,
// zero when the counterparty owes money
func (c *Counterparty) AvailableCredit() decimal.Decimal {
	if c.CreditBalance.IsNegative() {
		return c.CreditBalance.Neg()
	}
	return decimal.Zero
}

// AccrueCredit books a pre-payment that no obligation absorbed, lowering the
// balance owed. Returns the resulting credit transaction.
func (c *Counterparty) AccrueCredit(amount decimal.Decimal, reference string) (*CreditTransaction, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "credit amount must be positive")
	}

	before := c.CreditBalance
	c.CreditBalance = c.CreditBalance.Sub(amount).Round(2)
	c.IncrementVersion()
	c.Touch()

	txn := NewCreditTransaction(c.ID, CreditAccrual, amount, before, c.CreditBalance, reference)
	c.AddDomainEvent(NewCreditAccruedEvent(c, amount))
	return txn, nil
}

// ConsumeCredit spends pre-paid credit against a new obligation, raising the
// balance owed back toward zero. Fails when the available credit is short.
func (c *Counterparty) ConsumeCredit(amount decimal.Decimal, reference string) (*CreditTransaction, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "credit amount must be positive")
	}
	if amount.GreaterThan(c.AvailableCredit()) {
		return nil, shared.ErrInsufficientCredit
	}

	before := c.CreditBalance
	c.CreditBalance = c.CreditBalance.Add(amount).Round(2)
	c.IncrementVersion()
	c.Touch()

	txn := NewCreditTransaction(c.ID, CreditConsumption, amount, before, c.CreditBalance, reference)
	return txn, nil
}

// SetCreditBalance overwrites the balance from an allocation run that already
// computed the new figure. Returns the adjustment transaction, or nil when
// nothing changed.
func (c *Counterparty) SetCreditBalance(newBalance decimal.Decimal, reference string) *CreditTransaction {
	if c.CreditBalance.Equal(newBalance) {
		return nil
	}

	before := c.CreditBalance
	c.CreditBalance = newBalance.Round(2)
	c.IncrementVersion()
	c.Touch()

	kind := CreditAccrual
	delta := before.Sub(newBalance)
	if delta.IsNegative() {
		kind = CreditConsumption
		delta = delta.Neg()
	}
	if kind == CreditAccrual {
		c.AddDomainEvent(NewCreditAccruedEvent(c, delta))
	}
	return NewCreditTransaction(c.ID, kind, delta, before, c.CreditBalance, reference)
}
