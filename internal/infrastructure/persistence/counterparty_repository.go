package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mizan/backend/internal/domain/partner"
	"github.com/mizan/backend/internal/domain/shared"
	"github.com/mizan/backend/internal/infrastructure/persistence/models"
)

// CounterpartyRepository is the GORM implementation of
// partner.CounterpartyRepository
type CounterpartyRepository struct {
	db *gorm.DB
}

// NewCounterpartyRepository creates a new CounterpartyRepository
func NewCounterpartyRepository(db *gorm.DB) *CounterpartyRepository {
	return &CounterpartyRepository{db: db}
}

// FindByID returns one counterparty, nil when absent
func (r *CounterpartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Counterparty, error) {
	var m models.CounterpartyModel
	err := session(ctx, r.db).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll returns a filtered, paginated page of counterparties
func (r *CounterpartyRepository) FindAll(ctx context.Context, filter partner.CounterpartyFilter) (*shared.Paginated[*partner.Counterparty], error) {
	query := session(ctx, r.db).Model(&models.CounterpartyModel{})

	if filter.Kind != nil {
		query = query.Where("kind = ?", filter.Kind.String())
	}
	if filter.WithCredit {
		query = query.Where("credit_balance < 0")
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ? OR email LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var records []models.CounterpartyModel
	err := query.
		Order(orderClause(filter.Filter, "name", "ASC")).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	items := make([]*partner.Counterparty, len(records))
	for i := range records {
		items[i] = records[i].ToDomain()
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// FindByName returns the counterparty of one kind with the exact name, nil
// when absent
func (r *CounterpartyRepository) FindByName(ctx context.Context, kind partner.CounterpartyKind, name string) (*partner.Counterparty, error) {
	var m models.CounterpartyModel
	err := session(ctx, r.db).Where("kind = ? AND name = ?", kind.String(), name).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// Save inserts or fully updates a counterparty
func (r *CounterpartyRepository) Save(ctx context.Context, c *partner.Counterparty) error {
	return session(ctx, r.db).Save(models.CounterpartyFromDomain(c)).Error
}

// SaveWithLock updates the counterparty only when the stored version still
// matches expectedVersion
func (r *CounterpartyRepository) SaveWithLock(ctx context.Context, c *partner.Counterparty, expectedVersion int) error {
	m := models.CounterpartyFromDomain(c)
	result := session(ctx, r.db).
		Model(&models.CounterpartyModel{}).
		Where("id = ? AND version = ?", c.ID, expectedVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes a counterparty
func (r *CounterpartyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := session(ctx, r.db).Where("id = ?", id).Delete(&models.CounterpartyModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CreditTransactionRepository is the GORM implementation of
// partner.CreditTransactionRepository. Rows are append-only.
type CreditTransactionRepository struct {
	db *gorm.DB
}

// NewCreditTransactionRepository creates a new CreditTransactionRepository
func NewCreditTransactionRepository(db *gorm.DB) *CreditTransactionRepository {
	return &CreditTransactionRepository{db: db}
}

// FindByCounterparty returns the counterparty's credit history, newest first
func (r *CreditTransactionRepository) FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID) ([]*partner.CreditTransaction, error) {
	var records []models.CreditTransactionModel
	err := session(ctx, r.db).
		Where("counterparty_id = ?", counterpartyID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	items := make([]*partner.CreditTransaction, len(records))
	for i := range records {
		items[i] = records[i].ToDomain()
	}
	return items, nil
}

// Save inserts a credit transaction record
func (r *CreditTransactionRepository) Save(ctx context.Context, t *partner.CreditTransaction) error {
	return session(ctx, r.db).Create(models.CreditTransactionFromDomain(t)).Error
}
