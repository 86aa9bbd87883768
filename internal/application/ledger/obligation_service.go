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

// ObligationService manages invoices and purchase orders: creation with
// derived totals and a persisted sequence number, edits before first
// payment, and listing.
type ObligationService struct {
	obligationRepo   ledger.ObligationRepository
	counterpartyRepo partner.CounterpartyRepository
	logger           *zap.Logger
}

// NewObligationService creates a new ObligationService
func NewObligationService(
	obligationRepo ledger.ObligationRepository,
	counterpartyRepo partner.CounterpartyRepository,
	logger *zap.Logger,
) *ObligationService {
	return &ObligationService{
		obligationRepo:   obligationRepo,
		counterpartyRepo: counterpartyRepo,
		logger:           logger,
	}
}

// LineInput is one line of a create or update request
type LineInput struct {
	Description   string
	Quantity      int
	UnitPrice     decimal.Decimal
	DiscountMode  ledger.DiscountMode
	DiscountValue decimal.Decimal
}

// CreateObligationRequest carries everything needed to create an obligation
type CreateObligationRequest struct {
	Kind            ledger.ObligationKind
	CounterpartyID  uuid.UUID
	Lines           []LineInput
	PlanAmount      *decimal.Decimal
	TaxEnabled      bool
	TaxRate         *decimal.Decimal
	DiscountEntry   ledger.DiscountEntryMode
	GlobalDiscount  *ledger.DiscountSetting
	InvoiceDiscount *ledger.DiscountSetting
	DueDate         *time.Time
	Remark          string
}

// Create builds an obligation, computes its totals, assigns a persisted
// sequence number from the per-kind yearly counter and stores it.
func (s *ObligationService) Create(ctx context.Context, req CreateObligationRequest) (*ledger.Obligation, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "obligation", "create")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCounterpartyID, req.CounterpartyID.String(),
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

	o, err := ledger.NewObligation(req.Kind, counterparty.ID, counterparty.Name, req.DueDate, req.Remark)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if req.TaxRate != nil {
		if err := o.SetTax(req.TaxEnabled, *req.TaxRate); err != nil {
			return nil, err
		}
	} else if err := o.SetTax(req.TaxEnabled, ledger.DefaultTaxRate); err != nil {
		return nil, err
	}

	if req.PlanAmount != nil {
		if err := o.SetPlanAmount(*req.PlanAmount); err != nil {
			return nil, err
		}
	} else {
		lines, err := buildLines(req.Lines)
		if err != nil {
			return nil, err
		}
		if err := o.ReplaceLines(lines); err != nil {
			return nil, err
		}
	}

	if req.DiscountEntry == ledger.DiscountEntryGlobal && req.GlobalDiscount != nil {
		if err := o.UseGlobalDiscount(*req.GlobalDiscount); err != nil {
			return nil, err
		}
	}
	if req.InvoiceDiscount != nil {
		if err := o.SetInvoiceDiscount(req.InvoiceDiscount); err != nil {
			return nil, err
		}
	}

	year := o.CreatedAt.Year()
	ordinal, err := s.obligationRepo.NextSequence(ctx, o.Kind, year)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to allocate sequence number: %w", err)
	}
	o.AssignSequence(ordinal, ledger.FormatSequenceLabel(o.Kind.SequencePrefix(), year, ordinal))

	if err := s.obligationRepo.Save(ctx, o); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save obligation: %w", err)
	}

	s.logger.Info("obligation created",
		zap.String("obligation_id", o.ID.String()),
		zap.String("sequence", o.SequenceLabel),
		zap.String("grand_total", o.Totals.GrandTotal.String()))
	return o, nil
}

// UpdateObligationRequest carries the editable fields of an obligation.
// Nil fields are left unchanged.
type UpdateObligationRequest struct {
	Lines                []LineInput
	PlanAmount           *decimal.Decimal
	TaxEnabled           *bool
	TaxRate              *decimal.Decimal
	DiscountEntry        *ledger.DiscountEntryMode
	GlobalDiscount       *ledger.DiscountSetting
	InvoiceDiscount      *ledger.DiscountSetting
	ClearInvoiceDiscount bool
	DueDate              *time.Time
	Remark               *string
}

// Update edits an obligation's lines, discounts or tax. Edits are rejected
// once a payment has been recorded.
func (s *ObligationService) Update(ctx context.Context, id uuid.UUID, req UpdateObligationRequest) (*ledger.Obligation, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "obligation", "update")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrObligationID, id.String())

	o, err := s.findObligation(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	// each mutator bumps the version; the lock must check the loaded one
	expectedVersion := o.GetVersion()

	if req.TaxEnabled != nil || req.TaxRate != nil {
		enabled := o.TaxEnabled
		rate := o.TaxRate
		if req.TaxEnabled != nil {
			enabled = *req.TaxEnabled
		}
		if req.TaxRate != nil {
			rate = *req.TaxRate
		}
		if err := o.SetTax(enabled, rate); err != nil {
			return nil, err
		}
	}

	switch {
	case req.PlanAmount != nil:
		if err := o.SetPlanAmount(*req.PlanAmount); err != nil {
			return nil, err
		}
	case req.Lines != nil:
		lines, err := buildLines(req.Lines)
		if err != nil {
			return nil, err
		}
		if err := o.ReplaceLines(lines); err != nil {
			return nil, err
		}
	}

	if req.DiscountEntry != nil {
		switch *req.DiscountEntry {
		case ledger.DiscountEntryGlobal:
			if req.GlobalDiscount == nil {
				return nil, shared.NewDomainError("INVALID_DISCOUNT", "global discount entry requires a discount setting")
			}
			if err := o.UseGlobalDiscount(*req.GlobalDiscount); err != nil {
				return nil, err
			}
		case ledger.DiscountEntryIndividual:
			if err := o.UseIndividualDiscounts(); err != nil {
				return nil, err
			}
		default:
			return nil, shared.NewDomainError("INVALID_DISCOUNT", "unknown discount entry mode")
		}
	}

	if req.ClearInvoiceDiscount {
		if err := o.SetInvoiceDiscount(nil); err != nil {
			return nil, err
		}
	} else if req.InvoiceDiscount != nil {
		if err := o.SetInvoiceDiscount(req.InvoiceDiscount); err != nil {
			return nil, err
		}
	}

	if req.DueDate != nil {
		o.Reschedule(req.DueDate)
	}
	if req.Remark != nil {
		o.SetRemark(*req.Remark)
	}

	if err := s.obligationRepo.SaveWithLock(ctx, o, expectedVersion); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return o, nil
}

// Get returns one obligation by id
func (s *ObligationService) Get(ctx context.Context, id uuid.UUID) (*ledger.Obligation, error) {
	return s.findObligation(ctx, id)
}

// List returns a filtered, paginated page of obligations. Records that
// predate persisted sequence numbers get read-time labels computed from the
// whole collection of their kind.
func (s *ObligationService) List(ctx context.Context, filter ledger.ObligationFilter) (*shared.Paginated[*ledger.Obligation], error) {
	page, err := s.obligationRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	var legacyKinds map[ledger.ObligationKind]bool
	for _, o := range page.Items {
		if o.SequenceOrdinal == 0 {
			if legacyKinds == nil {
				legacyKinds = make(map[ledger.ObligationKind]bool)
			}
			legacyKinds[o.Kind] = true
		}
	}
	for kind := range legacyKinds {
		if err := s.backfillSequence(ctx, kind, page.Items); err != nil {
			s.logger.Warn("failed to backfill sequence labels", zap.Error(err))
		}
	}
	return page, nil
}

// backfillSequence computes read-time labels for legacy records of one kind
func (s *ObligationService) backfillSequence(ctx context.Context, kind ledger.ObligationKind, items []*ledger.Obligation) error {
	all, err := s.obligationRepo.FindByKind(ctx, kind)
	if err != nil {
		return err
	}
	assigned := ledger.AssignSequence(kind.SequencePrefix(), all)
	for _, o := range items {
		if o.Kind == kind && o.SequenceOrdinal == 0 {
			if seq, ok := assigned[o.ID]; ok {
				o.AssignSequence(seq.Ordinal, seq.Label)
			}
		}
	}
	return nil
}

// ListOverdue returns unpaid obligations past their due date
func (s *ObligationService) ListOverdue(ctx context.Context, kind ledger.ObligationKind) ([]*ledger.Obligation, error) {
	return s.obligationRepo.FindOverdue(ctx, kind, time.Now())
}

// OutstandingBalance totals a counterparty's open obligation balances
func (s *ObligationService) OutstandingBalance(ctx context.Context, counterpartyID uuid.UUID) (decimal.Decimal, error) {
	return s.obligationRepo.SumOutstandingByCounterparty(ctx, counterpartyID)
}

// Delete removes an obligation. Obligations with recorded payments cannot be
// deleted.
func (s *ObligationService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "obligation", "delete")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrObligationID, id.String())

	o, err := s.findObligation(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if !o.PaidAmount.IsZero() {
		err := shared.NewDomainError("OBLIGATION_LOCKED", "obligations with payments cannot be deleted")
		telemetry.RecordError(span, err)
		return err
	}
	return s.obligationRepo.Delete(ctx, id)
}

func (s *ObligationService) findObligation(ctx context.Context, id uuid.UUID) (*ledger.Obligation, error) {
	o, err := s.obligationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load obligation: %w", err)
	}
	if o == nil {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func buildLines(inputs []LineInput) (ledger.Lines, error) {
	lines := make(ledger.Lines, 0, len(inputs))
	for _, in := range inputs {
		line, err := ledger.NewLine(in.Description, in.Quantity, in.UnitPrice)
		if err != nil {
			return nil, err
		}
		if in.DiscountMode != "" {
			line, err = line.WithDiscount(in.DiscountMode, in.DiscountValue)
			if err != nil {
				return nil, err
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}
