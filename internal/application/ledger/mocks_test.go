package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/mizan/backend/internal/domain/ledger"
	"github.com/mizan/backend/internal/domain/partner"
	"github.com/mizan/backend/internal/domain/shared"
)

type mockObligationRepo struct {
	mock.Mock
}

func (m *mockObligationRepo) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Obligation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Obligation), args.Error(1)
}

func (m *mockObligationRepo) FindAll(ctx context.Context, filter ledger.ObligationFilter) (*shared.Paginated[*ledger.Obligation], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*ledger.Obligation]), args.Error(1)
}

func (m *mockObligationRepo) FindOpenByCounterparty(ctx context.Context, counterpartyID uuid.UUID, kind ledger.ObligationKind) ([]*ledger.Obligation, error) {
	args := m.Called(ctx, counterpartyID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Obligation), args.Error(1)
}

func (m *mockObligationRepo) FindOverdue(ctx context.Context, kind ledger.ObligationKind, before time.Time) ([]*ledger.Obligation, error) {
	args := m.Called(ctx, kind, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Obligation), args.Error(1)
}

func (m *mockObligationRepo) FindByKind(ctx context.Context, kind ledger.ObligationKind) ([]*ledger.Obligation, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Obligation), args.Error(1)
}

func (m *mockObligationRepo) SumOutstandingByCounterparty(ctx context.Context, counterpartyID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, counterpartyID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockObligationRepo) Save(ctx context.Context, o *ledger.Obligation) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockObligationRepo) SaveWithLock(ctx context.Context, o *ledger.Obligation, expectedVersion int) error {
	args := m.Called(ctx, o, expectedVersion)
	return args.Error(0)
}

func (m *mockObligationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockObligationRepo) NextSequence(ctx context.Context, kind ledger.ObligationKind, year int) (int, error) {
	args := m.Called(ctx, kind, year)
	return args.Int(0), args.Error(1)
}

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Payment), args.Error(1)
}

func (m *mockPaymentRepo) FindAll(ctx context.Context, filter ledger.PaymentFilter) (*shared.Paginated[*ledger.Payment], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*ledger.Payment]), args.Error(1)
}

func (m *mockPaymentRepo) FindByObligation(ctx context.Context, obligationID uuid.UUID) ([]*ledger.Payment, error) {
	args := m.Called(ctx, obligationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Payment), args.Error(1)
}

func (m *mockPaymentRepo) FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID) ([]*ledger.Payment, error) {
	args := m.Called(ctx, counterpartyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Payment), args.Error(1)
}

func (m *mockPaymentRepo) Save(ctx context.Context, p *ledger.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// fakeTxManager runs the function without a real transaction
type fakeTxManager struct{}

func (fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockCounterpartyRepo struct {
	mock.Mock
}

func (m *mockCounterpartyRepo) FindByID(ctx context.Context, id uuid.UUID) (*partner.Counterparty, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Counterparty), args.Error(1)
}

func (m *mockCounterpartyRepo) FindAll(ctx context.Context, filter partner.CounterpartyFilter) (*shared.Paginated[*partner.Counterparty], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*partner.Counterparty]), args.Error(1)
}

func (m *mockCounterpartyRepo) FindByName(ctx context.Context, kind partner.CounterpartyKind, name string) (*partner.Counterparty, error) {
	args := m.Called(ctx, kind, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Counterparty), args.Error(1)
}

func (m *mockCounterpartyRepo) Save(ctx context.Context, c *partner.Counterparty) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCounterpartyRepo) SaveWithLock(ctx context.Context, c *partner.Counterparty, expectedVersion int) error {
	args := m.Called(ctx, c, expectedVersion)
	return args.Error(0)
}

func (m *mockCounterpartyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCreditTxRepo struct {
	mock.Mock
}

func (m *mockCreditTxRepo) FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID) ([]*partner.CreditTransaction, error) {
	args := m.Called(ctx, counterpartyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*partner.CreditTransaction), args.Error(1)
}

func (m *mockCreditTxRepo) Save(ctx context.Context, t *partner.CreditTransaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
