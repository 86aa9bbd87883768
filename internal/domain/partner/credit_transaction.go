package partner

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mizan/backend/internal/domain/shared"
)

// CreditTransactionKind is the direction of a credit balance change
type CreditTransactionKind string

const (
	CreditAccrual     CreditTransactionKind = "ACCRUAL"     // balance owed decreased (pre-payment booked)
	CreditConsumption CreditTransactionKind = "CONSUMPTION" // credit spent against an obligation
)

// IsValid checks if the transaction kind is valid
func (k CreditTransactionKind) IsValid() bool {
	return k == CreditAccrual || k == CreditConsumption
}

// String returns the string representation
func (k CreditTransactionKind) String() string {
	return string(k)
}

// CreditTransaction is an immutable audit record of one credit balance
// change. It captures the balance before and after so the ledger can be
// replayed and verified.
type CreditTransaction struct {
	shared.BaseEntity
	CounterpartyID uuid.UUID
	Kind           CreditTransactionKind
	Amount         decimal.Decimal
	BalanceBefore  decimal.Decimal
	BalanceAfter   decimal.Decimal
	Reference      string
}

// NewCreditTransaction creates a credit transaction record
func NewCreditTransaction(counterpartyID uuid.UUID, kind CreditTransactionKind, amount, balanceBefore, balanceAfter decimal.Decimal, reference string) *CreditTransaction {
	return &CreditTransaction{
		BaseEntity:     shared.NewBaseEntity(),
		CounterpartyID: counterpartyID,
		Kind:           kind,
		Amount:         amount,
		BalanceBefore:  balanceBefore,
		BalanceAfter:   balanceAfter,
		Reference:      reference,
	}
}

// Verify checks that the recorded amounts are internally consistent
func (t *CreditTransaction) Verify() error {
	var expected decimal.Decimal
	switch t.Kind {
	case CreditAccrual:
		expected = t.BalanceBefore.Sub(t.Amount)
	case CreditConsumption:
		expected = t.BalanceBefore.Add(t.Amount)
	default:
		return shared.NewDomainError("INVALID_KIND", "unknown credit transaction kind: "+t.Kind.String())
	}
	if !expected.Round(2).Equal(t.BalanceAfter.Round(2)) {
		return shared.NewDomainError("INCONSISTENT_TRANSACTION", "balance after does not match amount and balance before")
	}
	return nil
}
