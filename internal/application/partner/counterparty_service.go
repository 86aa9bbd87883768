package partner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mizan/backend/internal/domain/partner"
	"github.com/mizan/backend/internal/domain/shared"
	"github.com/mizan/backend/internal/infrastructure/telemetry"
)

// CounterpartyService manages customers and suppliers and their credit
// balances
type CounterpartyService struct {
	counterpartyRepo partner.CounterpartyRepository
	creditTxRepo     partner.CreditTransactionRepository
	logger           *zap.Logger
}

// NewCounterpartyService creates a new CounterpartyService
func NewCounterpartyService(
	counterpartyRepo partner.CounterpartyRepository,
	creditTxRepo partner.CreditTransactionRepository,
	logger *zap.Logger,
) *CounterpartyService {
	return &CounterpartyService{
		counterpartyRepo: counterpartyRepo,
		creditTxRepo:     creditTxRepo,
		logger:           logger,
	}
}

// CreateCounterpartyRequest carries the fields of a new counterparty
type CreateCounterpartyRequest struct {
	Kind      partner.CounterpartyKind
	Name      string
	Phone     string
	Email     string
	Address   string
	TaxNumber string
	Notes     string
}

// Create stores a new counterparty. Names are unique per kind.
func (s *CounterpartyService) Create(ctx context.Context, req CreateCounterpartyRequest) (*partner.Counterparty, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "counterparty", "create")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrKind, string(req.Kind))

	existing, err := s.counterpartyRepo.FindByName(ctx, req.Kind, req.Name)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to check name: %w", err)
	}
	if existing != nil {
		err := shared.ErrAlreadyExists
		telemetry.RecordError(span, err)
		return nil, err
	}

	c, err := partner.NewCounterparty(req.Kind, req.Name)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	c.UpdateContact(req.Phone, req.Email, req.Address)
	c.TaxNumber = req.TaxNumber
	c.Notes = req.Notes

	if err := s.counterpartyRepo.Save(ctx, c); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save counterparty: %w", err)
	}

	s.logger.Info("counterparty created",
		zap.String("counterparty_id", c.ID.String()),
		zap.String("kind", c.Kind.String()),
		zap.String("name", c.Name))
	return c, nil
}

// UpdateCounterpartyRequest carries the editable fields. Nil fields are left
// unchanged.
type UpdateCounterpartyRequest struct {
	Name      *string
	Phone     *string
	Email     *string
	Address   *string
	TaxNumber *string
	Notes     *string
}

// Update edits a counterparty's details
func (s *CounterpartyService) Update(ctx context.Context, id uuid.UUID, req UpdateCounterpartyRequest) (*partner.Counterparty, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	expectedVersion := c.GetVersion()

	if req.Name != nil {
		if err := c.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	phone, email, address := c.Phone, c.Email, c.Address
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Address != nil {
		address = *req.Address
	}
	c.UpdateContact(phone, email, address)
	if req.TaxNumber != nil {
		c.TaxNumber = *req.TaxNumber
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}

	if err := s.counterpartyRepo.SaveWithLock(ctx, c, expectedVersion); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save counterparty: %w", err)
	}
	return c, nil
}

// Get returns one counterparty by id
func (s *CounterpartyService) Get(ctx context.Context, id uuid.UUID) (*partner.Counterparty, error) {
	return s.find(ctx, id)
}

// List returns a filtered, paginated page of counterparties
func (s *CounterpartyService) List(ctx context.Context, filter partner.CounterpartyFilter) (*shared.Paginated[*partner.Counterparty], error) {
	return s.counterpartyRepo.FindAll(ctx, filter)
}

// Delete removes a counterparty
func (s *CounterpartyService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	return s.counterpartyRepo.Delete(ctx, id)
}

// ConsumeCredit spends a counterparty's pre-paid credit, e.g. against a new
// obligation, and records the audit transaction.
func (s *CounterpartyService) ConsumeCredit(ctx context.Context, id uuid.UUID, amount decimal.Decimal, reference string) (*partner.Counterparty, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "counterparty", "consume_credit")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCounterpartyID, id.String(),
		telemetry.SpanAttrAmount, amount.String(),
	)

	c, err := s.find(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	expectedVersion := c.GetVersion()
	txn, err := c.ConsumeCredit(amount, reference)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.counterpartyRepo.SaveWithLock(ctx, c, expectedVersion); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.creditTxRepo.Save(ctx, txn); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save credit transaction: %w", err)
	}

	s.logger.Info("credit consumed",
		zap.String("counterparty_id", c.ID.String()),
		zap.String("amount", amount.String()),
		zap.String("new_balance", c.CreditBalance.String()))
	return c, nil
}

// CreditHistory returns the counterparty's credit audit trail
func (s *CounterpartyService) CreditHistory(ctx context.Context, id uuid.UUID) ([]*partner.CreditTransaction, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	return s.creditTxRepo.FindByCounterparty(ctx, id)
}

func (s *CounterpartyService) find(ctx context.Context, id uuid.UUID) (*partner.Counterparty, error) {
	c, err := s.counterpartyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load counterparty: %w", err)
	}
	if c == nil {
		return nil, shared.ErrNotFound
	}
	return c, nil
}
