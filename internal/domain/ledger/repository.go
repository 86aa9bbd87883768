package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mizan/backend/internal/domain/shared"
)

// ObligationFilter narrows obligation queries
type ObligationFilter struct {
	shared.Filter
	Kind           *ObligationKind
	Status         *ObligationStatus
	CounterpartyID *uuid.UUID
	DueBefore      *time.Time
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
}

// ObligationRepository persists obligations
type ObligationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Obligation, error)
	FindAll(ctx context.Context, filter ObligationFilter) (*shared.Paginated[*Obligation], error)
	// FindOpenByCounterparty returns the counterparty's unsettled
	// obligations of one kind, oldest first, for FIFO allocation.
	FindOpenByCounterparty(ctx context.Context, counterpartyID uuid.UUID, kind ObligationKind) ([]*Obligation, error)
	// FindOverdue returns unpaid obligations whose due date falls strictly
	// before the given day.
	FindOverdue(ctx context.Context, kind ObligationKind, before time.Time) ([]*Obligation, error)
	FindByKind(ctx context.Context, kind ObligationKind) ([]*Obligation, error)
	SumOutstandingByCounterparty(ctx context.Context, counterpartyID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, o *Obligation) error
	// SaveWithLock persists only when the stored version still matches,
	// guarding concurrent payment submissions against lost updates.
	SaveWithLock(ctx context.Context, o *Obligation, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
	// NextSequence atomically increments and returns the per-kind, per-year
	// display-number counter.
	NextSequence(ctx context.Context, kind ObligationKind, year int) (int, error)
}

// PaymentFilter narrows payment queries
type PaymentFilter struct {
	shared.Filter
	ObligationID   *uuid.UUID
	CounterpartyID *uuid.UUID
	Method         *PaymentMethod
	PaidFrom       *time.Time
	PaidTo         *time.Time
}

// PaymentRepository persists payment records. Payments are append-only:
// there is no update or delete.
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindAll(ctx context.Context, filter PaymentFilter) (*shared.Paginated[*Payment], error)
	// FindByObligation returns the obligation's payments oldest first.
	FindByObligation(ctx context.Context, obligationID uuid.UUID) ([]*Payment, error)
	FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID) ([]*Payment, error)
	Save(ctx context.Context, p *Payment) error
}
