package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mizan/backend/internal/domain/ledger"
	"github.com/mizan/backend/internal/domain/shared"
	"github.com/mizan/backend/internal/infrastructure/persistence/models"
)

// ObligationRepository is the GORM implementation of
// ledger.ObligationRepository
type ObligationRepository struct {
	db *gorm.DB
}

// NewObligationRepository creates a new ObligationRepository
func NewObligationRepository(db *gorm.DB) *ObligationRepository {
	return &ObligationRepository{db: db}
}

// FindByID returns one obligation, nil when absent
func (r *ObligationRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Obligation, error) {
	var m models.ObligationModel
	err := session(ctx, r.db).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll returns a filtered, paginated page of obligations
func (r *ObligationRepository) FindAll(ctx context.Context, filter ledger.ObligationFilter) (*shared.Paginated[*ledger.Obligation], error) {
	query := session(ctx, r.db).Model(&models.ObligationModel{})

	if filter.Kind != nil {
		query = query.Where("kind = ?", filter.Kind.String())
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *filter.CounterpartyID)
	}
	if filter.DueBefore != nil {
		query = query.Where("due_date < ?", *filter.DueBefore)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("counterparty_name LIKE ? OR sequence_label LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var records []models.ObligationModel
	err := query.
		Order(orderClause(filter.Filter, "created_at", "DESC")).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	items := make([]*ledger.Obligation, len(records))
	for i := range records {
		items[i] = records[i].ToDomain()
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// FindOpenByCounterparty returns the counterparty's unsettled obligations of
// one kind, oldest first
func (r *ObligationRepository) FindOpenByCounterparty(ctx context.Context, counterpartyID uuid.UUID, kind ledger.ObligationKind) ([]*ledger.Obligation, error) {
	var records []models.ObligationModel
	err := session(ctx, r.db).
		Where("counterparty_id = ? AND kind = ? AND remaining_amount > 0", counterpartyID, kind.String()).
		Order("created_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(records), nil
}

// FindOverdue returns unpaid obligations whose due date falls strictly
// before the given day
func (r *ObligationRepository) FindOverdue(ctx context.Context, kind ledger.ObligationKind, before time.Time) ([]*ledger.Obligation, error) {
	day := time.Date(before.Year(), before.Month(), before.Day(), 0, 0, 0, 0, before.Location())
	var records []models.ObligationModel
	err := session(ctx, r.db).
		Where("kind = ? AND remaining_amount > 0 AND due_date IS NOT NULL AND due_date < ?", kind.String(), day).
		Order("due_date ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(records), nil
}

// FindByKind returns every obligation of one kind, creation order
func (r *ObligationRepository) FindByKind(ctx context.Context, kind ledger.ObligationKind) ([]*ledger.Obligation, error) {
	var records []models.ObligationModel
	err := session(ctx, r.db).
		Where("kind = ?", kind.String()).
		Order("created_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(records), nil
}

// SumOutstandingByCounterparty totals the counterparty's open balances
func (r *ObligationRepository) SumOutstandingByCounterparty(ctx context.Context, counterpartyID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := session(ctx, r.db).Model(&models.ObligationModel{}).
		Select("SUM(remaining_amount)").
		Where("counterparty_id = ?", counterpartyID).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// Save inserts or fully updates an obligation
func (r *ObligationRepository) Save(ctx context.Context, o *ledger.Obligation) error {
	return session(ctx, r.db).Save(models.ObligationFromDomain(o)).Error
}

// SaveWithLock updates the obligation only when the stored version still
// matches expectedVersion, returning ErrConcurrencyConflict otherwise
func (r *ObligationRepository) SaveWithLock(ctx context.Context, o *ledger.Obligation, expectedVersion int) error {
	m := models.ObligationFromDomain(o)
	result := session(ctx, r.db).
		Model(&models.ObligationModel{}).
		Where("id = ? AND version = ?", o.ID, expectedVersion).
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

// Delete removes an obligation
func (r *ObligationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := session(ctx, r.db).Where("id = ?", id).Delete(&models.ObligationModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// NextSequence atomically increments and returns the per-kind, per-year
// counter. The increment is a single UPDATE so concurrent creates cannot
// read the same value.
func (r *ObligationRepository) NextSequence(ctx context.Context, kind ledger.ObligationKind, year int) (int, error) {
	var next int
	err := session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.SequenceCounterModel{}).
			Where("kind = ? AND year = ?", kind.String(), year).
			UpdateColumn("counter", gorm.Expr("counter + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			counter := models.SequenceCounterModel{Kind: kind.String(), Year: year, Counter: 1}
			if err := tx.Create(&counter).Error; err != nil {
				return fmt.Errorf("failed to seed sequence counter: %w", err)
			}
			next = 1
			return nil
		}

		var m models.SequenceCounterModel
		if err := tx.Where("kind = ? AND year = ?", kind.String(), year).First(&m).Error; err != nil {
			return err
		}
		next = m.Counter
		return nil
	})
	return next, err
}

func toDomainSlice(records []models.ObligationModel) []*ledger.Obligation {
	out := make([]*ledger.Obligation, len(records))
	for i := range records {
		out[i] = records[i].ToDomain()
	}
	return out
}

// orderClause builds a safe ORDER BY from the filter, falling back to the
// given column and direction
func orderClause(f shared.Filter, defaultBy, defaultDir string) string {
	column := defaultBy
	switch f.OrderBy {
	case "created_at", "updated_at", "due_date", "grand_total", "remaining_amount", "paid_at", "name":
		column = f.OrderBy
	}
	dir := defaultDir
	switch f.OrderDir {
	case "asc", "ASC":
		dir = "ASC"
	case "desc", "DESC":
		dir = "DESC"
	}
	return column + " " + dir
}
