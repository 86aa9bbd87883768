package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/mizan/backend/internal/domain/shared"
)

// CounterpartyFilter narrows counterparty queries
type CounterpartyFilter struct {
	shared.Filter
	Kind       *CounterpartyKind
	WithCredit bool // only counterparties holding pre-paid credit
}

// CounterpartyRepository persists counterparties
type CounterpartyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Counterparty, error)
	FindAll(ctx context.Context, filter CounterpartyFilter) (*shared.Paginated[*Counterparty], error)
	FindByName(ctx context.Context, kind CounterpartyKind, name string) (*Counterparty, error)
	Save(ctx context.Context, c *Counterparty) error
	SaveWithLock(ctx context.Context, c *Counterparty, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreditTransactionRepository persists the append-only credit audit trail
type CreditTransactionRepository interface {
	FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID) ([]*CreditTransaction, error)
	Save(ctx context.Context, t *CreditTransaction) error
}
