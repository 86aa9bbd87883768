package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mizan/backend/internal/domain/ledger"
	"github.com/mizan/backend/internal/domain/shared"
	"github.com/mizan/backend/internal/infrastructure/telemetry"
)

// PaymentService records payments against single obligations and keeps the
// obligation's derived paid amount, remaining amount and status in sync with
// its payment records.
type PaymentService struct {
	obligationRepo ledger.ObligationRepository
	paymentRepo    ledger.PaymentRepository
	logger         *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	obligationRepo ledger.ObligationRepository,
	paymentRepo ledger.PaymentRepository,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		obligationRepo: obligationRepo,
		paymentRepo:    paymentRepo,
		logger:         logger,
	}
}

// RecordPaymentRequest is one payment against one obligation
type RecordPaymentRequest struct {
	ObligationID uuid.UUID
	Amount       decimal.Decimal
	Method       ledger.PaymentMethod
	PaidAt       time.Time
	Reference    string
}

// RecordPayment validates and stores a payment, then reconciles the
// obligation from its full payment history and persists it with an
// optimistic lock. Two concurrent submissions against the same obligation
// cannot both win the version check.
func (s *PaymentService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*ledger.Payment, *ledger.Obligation, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "record")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrObligationID, req.ObligationID.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
	)

	o, err := s.obligationRepo.FindByID(ctx, req.ObligationID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, nil, fmt.Errorf("failed to load obligation: %w", err)
	}
	if o == nil {
		telemetry.RecordError(span, shared.ErrNotFound)
		return nil, nil, shared.ErrNotFound
	}

	if !o.Status.CanApplyPayment() {
		err := shared.NewDomainError("ALREADY_PAID", "obligation is fully paid")
		telemetry.RecordError(span, err)
		return nil, nil, err
	}
	if err := ledger.ValidatePaymentAmount(req.Amount, o.RemainingAmount); err != nil {
		telemetry.RecordError(span, err)
		return nil, nil, err
	}

	payment, err := ledger.NewPayment(o.ID, o.CounterpartyID, req.Amount, req.Method, req.PaidAt, req.Reference)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		telemetry.RecordError(span, err)
		return nil, nil, fmt.Errorf("failed to save payment: %w", err)
	}
	o.AddDomainEvent(ledger.NewPaymentRecordedEvent(payment))

	expectedVersion := o.GetVersion()
	if err := s.reconcileObligation(ctx, o, payment.PaidAt); err != nil {
		telemetry.RecordError(span, err)
		return nil, nil, err
	}
	if err := s.obligationRepo.SaveWithLock(ctx, o, expectedVersion); err != nil {
		telemetry.RecordError(span, err)
		return nil, nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("obligation_id", o.ID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("status", o.Status.String()))
	return payment, o, nil
}

// Reconcile recomputes one obligation's payment state from its payment
// records and persists the result. Used after data imports and as a repair
// step.
func (s *PaymentService) Reconcile(ctx context.Context, obligationID uuid.UUID) (*ledger.Obligation, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "reconcile")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrObligationID, obligationID.String())

	o, err := s.obligationRepo.FindByID(ctx, obligationID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load obligation: %w", err)
	}
	if o == nil {
		return nil, shared.ErrNotFound
	}

	expectedVersion := o.GetVersion()
	if err := s.reconcileObligation(ctx, o, time.Now()); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.obligationRepo.SaveWithLock(ctx, o, expectedVersion); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return o, nil
}

// ListByObligation returns an obligation's payments oldest first
func (s *PaymentService) ListByObligation(ctx context.Context, obligationID uuid.UUID) ([]*ledger.Payment, error) {
	return s.paymentRepo.FindByObligation(ctx, obligationID)
}

// List returns a filtered, paginated page of payments
func (s *PaymentService) List(ctx context.Context, filter ledger.PaymentFilter) (*shared.Paginated[*ledger.Payment], error) {
	return s.paymentRepo.FindAll(ctx, filter)
}

// reconcileObligation recomputes the obligation's payment state from its
// stored payment records. An overpayment clamp is logged, not failed: it
// arises from drift in migrated data.
func (s *PaymentService) reconcileObligation(ctx context.Context, o *ledger.Obligation, paidAt time.Time) error {
	payments, err := s.paymentRepo.FindByObligation(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("failed to load payments: %w", err)
	}

	amounts := make([]decimal.Decimal, len(payments))
	for i, p := range payments {
		amounts[i] = p.Amount.Amount()
	}

	rec := ledger.ReconcilePayments(o.Totals.GrandTotal, amounts, o.PaidAmount, o.DueDate, time.Now())
	if rec.OverpaymentClamped {
		s.logger.Warn("payments exceed grand total, paid amount clamped",
			zap.String("obligation_id", o.ID.String()),
			zap.String("grand_total", o.Totals.GrandTotal.String()))
	}
	o.Reconcile(rec, paidAt)
	return nil
}
