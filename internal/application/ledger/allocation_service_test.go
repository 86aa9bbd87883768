package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mizan/backend/internal/domain/ledger"
	"github.com/mizan/backend/internal/domain/partner"
)

func openPO(t *testing.T, counterpartyID uuid.UUID, createdAt time.Time, remaining string) *ledger.Obligation {
	t.Helper()
	o, err := ledger.NewObligation(ledger.KindPurchaseOrder, counterpartyID, "Supplier Co", nil, "")
	require.NoError(t, err)
	require.NoError(t, o.SetTax(false, ledger.DefaultTaxRate))
	require.NoError(t, o.ReplaceLines(ledger.Lines{{Quantity: 1, UnitPrice: dec(remaining)}}))
	o.CreatedAt = createdAt
	return o
}

func newAllocationService(obligationRepo *mockObligationRepo, paymentRepo *mockPaymentRepo, counterpartyRepo *mockCounterpartyRepo, creditTxRepo *mockCreditTxRepo) *AllocationService {
	return NewAllocationService(obligationRepo, paymentRepo, counterpartyRepo, creditTxRepo, fakeTxManager{}, zap.NewNop())
}

func TestAllocationService_AllocatePayment(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("spreads payment and updates obligations", func(t *testing.T) {
		obligationRepo := new(mockObligationRepo)
		paymentRepo := new(mockPaymentRepo)
		counterpartyRepo := new(mockCounterpartyRepo)
		creditTxRepo := new(mockCreditTxRepo)
		svc := newAllocationService(obligationRepo, paymentRepo, counterpartyRepo, creditTxRepo)

		supplier := testCounterparty(t, partner.KindSupplier)
		older := openPO(t, supplier.ID, base, "200")
		newer := openPO(t, supplier.ID, base.Add(time.Hour), "400")

		counterpartyRepo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		obligationRepo.On("FindOpenByCounterparty", mock.Anything, supplier.ID, ledger.KindPurchaseOrder).
			Return([]*ledger.Obligation{older, newer}, nil)
		paymentRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.Payment")).Return(nil)
		obligationRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*ledger.Obligation"), mock.AnythingOfType("int")).Return(nil)

		got, err := svc.AllocatePayment(ctx, AllocatePaymentRequest{
			CounterpartyID: supplier.ID,
			Kind:           ledger.KindPurchaseOrder,
			Amount:         dec("500"),
			Method:         ledger.MethodBankTransfer,
		})
		require.NoError(t, err)

		require.Len(t, got.Updates, 2)
		assert.True(t, got.TotalApplied.Equal(dec("500")))
		assert.True(t, got.LeftoverCredit.IsZero())
		assert.Len(t, got.PaymentIDs, 2)

		// obligations were actually mutated and saved
		assert.Equal(t, ledger.StatusPaid, older.Status)
		assert.True(t, older.RemainingAmount.IsZero())
		assert.Equal(t, ledger.StatusPartial, newer.Status)
		assert.True(t, newer.RemainingAmount.Equal(dec("100")))

		// no credit was touched
		counterpartyRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
		creditTxRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("leftover books counterparty credit", func(t *testing.T) {
		obligationRepo := new(mockObligationRepo)
		paymentRepo := new(mockPaymentRepo)
		counterpartyRepo := new(mockCounterpartyRepo)
		creditTxRepo := new(mockCreditTxRepo)
		svc := newAllocationService(obligationRepo, paymentRepo, counterpartyRepo, creditTxRepo)

		supplier := testCounterparty(t, partner.KindSupplier)
		only := openPO(t, supplier.ID, base, "300")

		var savedTx *partner.CreditTransaction
		counterpartyRepo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		obligationRepo.On("FindOpenByCounterparty", mock.Anything, supplier.ID, ledger.KindPurchaseOrder).
			Return([]*ledger.Obligation{only}, nil)
		paymentRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.Payment")).Return(nil)
		obligationRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*ledger.Obligation"), mock.AnythingOfType("int")).Return(nil)
		counterpartyRepo.On("SaveWithLock", mock.Anything, supplier, mock.AnythingOfType("int")).Return(nil)
		creditTxRepo.On("Save", mock.Anything, mock.AnythingOfType("*partner.CreditTransaction")).Run(func(args mock.Arguments) {
			savedTx = args.Get(1).(*partner.CreditTransaction)
		}).Return(nil)

		got, err := svc.AllocatePayment(ctx, AllocatePaymentRequest{
			CounterpartyID: supplier.ID,
			Kind:           ledger.KindPurchaseOrder,
			Amount:         dec("500"),
			Method:         ledger.MethodCash,
		})
		require.NoError(t, err)

		assert.True(t, got.LeftoverCredit.Equal(dec("200")))
		assert.True(t, got.NewCreditBalance.Equal(dec("-200")))
		assert.True(t, supplier.CreditBalance.Equal(dec("-200")))
		require.NotNil(t, savedTx)
		assert.Equal(t, partner.CreditAccrual, savedTx.Kind)
		assert.NoError(t, savedTx.Verify())
	})

	t.Run("conservation across persistence", func(t *testing.T) {
		obligationRepo := new(mockObligationRepo)
		paymentRepo := new(mockPaymentRepo)
		counterpartyRepo := new(mockCounterpartyRepo)
		creditTxRepo := new(mockCreditTxRepo)
		svc := newAllocationService(obligationRepo, paymentRepo, counterpartyRepo, creditTxRepo)

		supplier := testCounterparty(t, partner.KindSupplier)
		open := []*ledger.Obligation{
			openPO(t, supplier.ID, base, "333.33"),
			openPO(t, supplier.ID, base.Add(time.Hour), "333.33"),
			openPO(t, supplier.ID, base.Add(2*time.Hour), "333.33"),
		}

		var savedAmounts []decimal.Decimal
		counterpartyRepo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		obligationRepo.On("FindOpenByCounterparty", mock.Anything, supplier.ID, ledger.KindPurchaseOrder).Return(open, nil)
		paymentRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.Payment")).Run(func(args mock.Arguments) {
			savedAmounts = append(savedAmounts, args.Get(1).(*ledger.Payment).Amount.Amount())
		}).Return(nil)
		obligationRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*ledger.Obligation"), mock.AnythingOfType("int")).Return(nil)
		counterpartyRepo.On("SaveWithLock", mock.Anything, supplier, mock.AnythingOfType("int")).Return(nil)
		creditTxRepo.On("Save", mock.Anything, mock.AnythingOfType("*partner.CreditTransaction")).Return(nil)

		got, err := svc.AllocatePayment(ctx, AllocatePaymentRequest{
			CounterpartyID: supplier.ID,
			Kind:           ledger.KindPurchaseOrder,
			Amount:         dec("1000"),
			Method:         ledger.MethodCash,
		})
		require.NoError(t, err)

		sum := decimal.Zero
		for _, a := range savedAmounts {
			sum = sum.Add(a)
		}
		assert.True(t, sum.Add(got.LeftoverCredit).Equal(dec("1000")),
			"payments %s + leftover %s != 1000", sum, got.LeftoverCredit)
	})

	t.Run("unknown counterparty", func(t *testing.T) {
		obligationRepo := new(mockObligationRepo)
		paymentRepo := new(mockPaymentRepo)
		counterpartyRepo := new(mockCounterpartyRepo)
		creditTxRepo := new(mockCreditTxRepo)
		svc := newAllocationService(obligationRepo, paymentRepo, counterpartyRepo, creditTxRepo)

		id := uuid.New()
		counterpartyRepo.On("FindByID", mock.Anything, id).Return(nil, nil)

		_, err := svc.AllocatePayment(ctx, AllocatePaymentRequest{
			CounterpartyID: id,
			Kind:           ledger.KindPurchaseOrder,
			Amount:         dec("100"),
			Method:         ledger.MethodCash,
		})
		assert.Error(t, err)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		obligationRepo := new(mockObligationRepo)
		paymentRepo := new(mockPaymentRepo)
		counterpartyRepo := new(mockCounterpartyRepo)
		creditTxRepo := new(mockCreditTxRepo)
		svc := newAllocationService(obligationRepo, paymentRepo, counterpartyRepo, creditTxRepo)

		supplier := testCounterparty(t, partner.KindSupplier)
		counterpartyRepo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		obligationRepo.On("FindOpenByCounterparty", mock.Anything, supplier.ID, ledger.KindPurchaseOrder).
			Return([]*ledger.Obligation{}, nil)

		_, err := svc.AllocatePayment(ctx, AllocatePaymentRequest{
			CounterpartyID: supplier.ID,
			Kind:           ledger.KindPurchaseOrder,
			Amount:         decimal.Zero,
			Method:         ledger.MethodCash,
		})
		assert.Error(t, err)
		paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
