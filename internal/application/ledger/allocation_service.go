package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mizan/backend/internal/domain/ledger"
	"github.com/mizan/backend/internal/domain/partner"
	"github.com/mizan/backend/internal/domain/shared"
	"github.com/mizan/backend/internal/infrastructure/telemetry"
)

// AllocationService spreads one lump payment from a counterparty across its
// open obligations oldest-first, booking any leftover as counterparty
// credit.
type AllocationService struct {
	obligationRepo   ledger.ObligationRepository
	paymentRepo      ledger.PaymentRepository
	counterpartyRepo partner.CounterpartyRepository
	creditTxRepo     partner.CreditTransactionRepository
	txManager        shared.TransactionManager
	strategy         ledger.AllocationStrategy
	logger           *zap.Logger
}

// NewAllocationService creates a new AllocationService using FIFO allocation
func NewAllocationService(
	obligationRepo ledger.ObligationRepository,
	paymentRepo ledger.PaymentRepository,
	counterpartyRepo partner.CounterpartyRepository,
	creditTxRepo partner.CreditTransactionRepository,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *AllocationService {
	return &AllocationService{
		obligationRepo:   obligationRepo,
		paymentRepo:      paymentRepo,
		counterpartyRepo: counterpartyRepo,
		creditTxRepo:     creditTxRepo,
		txManager:        txManager,
		strategy:         ledger.NewFIFOAllocator(),
		logger:           logger,
	}
}

// AllocatePaymentRequest is one lump payment to spread across a
// counterparty's open obligations
type AllocatePaymentRequest struct {
	CounterpartyID uuid.UUID
	Kind           ledger.ObligationKind
	Amount         decimal.Decimal
	Method         ledger.PaymentMethod
	PaidAt         time.Time
	Reference      string
}

// AllocationResult reports what an allocation run did
type AllocationResult struct {
	Updates          []ledger.ObligationUpdate `json:"updates"`
	TotalApplied     decimal.Decimal           `json:"total_applied"`
	LeftoverCredit   decimal.Decimal           `json:"leftover_credit"`
	NewCreditBalance decimal.Decimal           `json:"new_credit_balance"`
	PaymentIDs       []uuid.UUID               `json:"payment_ids"`
}

// AllocatePayment runs the FIFO allocation and persists its outcome: one
// payment record per obligation that absorbed money, each obligation updated
// under an optimistic lock, and the counterparty's credit balance adjusted
// with an audit transaction when money is left over.
func (s *AllocationService) AllocatePayment(ctx context.Context, req AllocatePaymentRequest) (*AllocationResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "allocation", "allocate_payment")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCounterpartyID, req.CounterpartyID.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
		telemetry.SpanAttrKind, string(req.Kind),
	)

	counterparty, err := s.counterpartyRepo.FindByID(ctx, req.CounterpartyID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load counterparty: %w", err)
	}
	if counterparty == nil {
		err := shared.NewDomainError("COUNTERPARTY_NOT_FOUND", "counterparty not found")
		telemetry.RecordError(span, err)
		return nil, err
	}

	open, err := s.obligationRepo.FindOpenByCounterparty(ctx, req.CounterpartyID, req.Kind)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load open obligations: %w", err)
	}

	outcome, err := s.strategy.Allocate(req.Amount, open, counterparty.CreditBalance)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	paidAt := req.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	byID := make(map[uuid.UUID]*ledger.Obligation, len(open))
	for _, o := range open {
		byID[o.ID] = o
	}

	result := &AllocationResult{
		Updates:          outcome.Updates,
		TotalApplied:     outcome.TotalApplied,
		LeftoverCredit:   outcome.LeftoverCredit,
		NewCreditBalance: outcome.NewCreditBalance,
		PaymentIDs:       make([]uuid.UUID, 0, len(outcome.Updates)),
	}

	// All writes commit together; a lock conflict on any obligation rolls
	// the whole allocation back.
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, update := range outcome.Updates {
			o := byID[update.ObligationID]
			if o == nil {
				continue
			}

			payment, err := ledger.NewPayment(o.ID, req.CounterpartyID, update.Applied, req.Method, paidAt, req.Reference)
			if err != nil {
				return err
			}
			if err := s.paymentRepo.Save(ctx, payment); err != nil {
				return fmt.Errorf("failed to save payment: %w", err)
			}
			result.PaymentIDs = append(result.PaymentIDs, payment.ID)

			expectedVersion := o.GetVersion()
			if err := o.ApplyPayment(update.Applied, paidAt); err != nil {
				return err
			}
			if err := s.obligationRepo.SaveWithLock(ctx, o, expectedVersion); err != nil {
				return err
			}
		}

		if outcome.LeftoverCredit.IsPositive() {
			expectedVersion := counterparty.GetVersion()
			txn := counterparty.SetCreditBalance(outcome.NewCreditBalance, req.Reference)
			if err := s.counterpartyRepo.SaveWithLock(ctx, counterparty, expectedVersion); err != nil {
				return err
			}
			if txn != nil {
				if err := s.creditTxRepo.Save(ctx, txn); err != nil {
					return fmt.Errorf("failed to save credit transaction: %w", err)
				}
			}
			s.logger.Info("leftover payment booked as credit",
				zap.String("counterparty_id", counterparty.ID.String()),
				zap.String("leftover", outcome.LeftoverCredit.String()),
				zap.String("new_balance", outcome.NewCreditBalance.String()))
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("payment allocated",
		zap.String("counterparty_id", req.CounterpartyID.String()),
		zap.String("amount", req.Amount.String()),
		zap.Int("obligations", len(result.Updates)),
		zap.String("total_applied", result.TotalApplied.String()))
	return result, nil
}
