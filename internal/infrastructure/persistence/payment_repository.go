package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mizan/backend/internal/domain/ledger"
	"github.com/mizan/backend/internal/domain/shared"
	"github.com/mizan/backend/internal/infrastructure/persistence/models"
)

// PaymentRepository is the GORM implementation of ledger.PaymentRepository.
// Payment rows are append-only.
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// FindByID returns one payment, nil when absent
func (r *PaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Payment, error) {
	var m models.PaymentModel
	err := session(ctx, r.db).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll returns a filtered, paginated page of payments
func (r *PaymentRepository) FindAll(ctx context.Context, filter ledger.PaymentFilter) (*shared.Paginated[*ledger.Payment], error) {
	query := session(ctx, r.db).Model(&models.PaymentModel{})

	if filter.ObligationID != nil {
		query = query.Where("obligation_id = ?", *filter.ObligationID)
	}
	if filter.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *filter.CounterpartyID)
	}
	if filter.Method != nil {
		query = query.Where("method = ?", filter.Method.String())
	}
	if filter.PaidFrom != nil {
		query = query.Where("paid_at >= ?", *filter.PaidFrom)
	}
	if filter.PaidTo != nil {
		query = query.Where("paid_at <= ?", *filter.PaidTo)
	}
	if filter.Search != "" {
		query = query.Where("reference LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var records []models.PaymentModel
	err := query.
		Order("paid_at DESC, id DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	items := make([]*ledger.Payment, len(records))
	for i := range records {
		items[i] = records[i].ToDomain()
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// FindByObligation returns the obligation's payments oldest first
func (r *PaymentRepository) FindByObligation(ctx context.Context, obligationID uuid.UUID) ([]*ledger.Payment, error) {
	var records []models.PaymentModel
	err := session(ctx, r.db).
		Where("obligation_id = ?", obligationID).
		Order("paid_at ASC, created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	items := make([]*ledger.Payment, len(records))
	for i := range records {
		items[i] = records[i].ToDomain()
	}
	return items, nil
}

// FindByCounterparty returns the counterparty's payments, newest first
func (r *PaymentRepository) FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID) ([]*ledger.Payment, error) {
	var records []models.PaymentModel
	err := session(ctx, r.db).
		Where("counterparty_id = ?", counterpartyID).
		Order("paid_at DESC, created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	items := make([]*ledger.Payment, len(records))
	for i := range records {
		items[i] = records[i].ToDomain()
	}
	return items, nil
}

// Save inserts a payment record
func (r *PaymentRepository) Save(ctx context.Context, p *ledger.Payment) error {
	return session(ctx, r.db).Create(models.PaymentFromDomain(p)).Error
}
