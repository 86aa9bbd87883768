package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mizan/backend/internal/domain/partner"
	"github.com/mizan/backend/internal/domain/shared"
)

// CounterpartyModel is the database record for partner.Counterparty
type CounterpartyModel struct {
	VersionedModel
	Kind          string          `gorm:"size:16;not null;uniqueIndex:idx_counterparties_kind_name"`
	Name          string          `gorm:"size:255;not null;uniqueIndex:idx_counterparties_kind_name"`
	Phone         string          `gorm:"size:64"`
	Email         string          `gorm:"size:255"`
	Address       string          `gorm:"size:512"`
	TaxNumber     string          `gorm:"size:64"`
	CreditBalance decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Notes         string          `gorm:"type:text"`
}

// TableName returns the table name
func (CounterpartyModel) TableName() string {
	return "counterparties"
}

// CounterpartyFromDomain converts a domain counterparty to its database record
func CounterpartyFromDomain(c *partner.Counterparty) *CounterpartyModel {
	return &CounterpartyModel{
		VersionedModel: VersionedModel{
			BaseModel: BaseModel{
				ID:        c.ID,
				CreatedAt: c.CreatedAt,
				UpdatedAt: c.UpdatedAt,
			},
			Version: c.Version,
		},
		Kind:          c.Kind.String(),
		Name:          c.Name,
		Phone:         c.Phone,
		Email:         c.Email,
		Address:       c.Address,
		TaxNumber:     c.TaxNumber,
		CreditBalance: c.CreditBalance,
		Notes:         c.Notes,
	}
}

// ToDomain converts the database record back to the domain counterparty
func (m *CounterpartyModel) ToDomain() *partner.Counterparty {
	return &partner.Counterparty{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Kind:          partner.CounterpartyKind(m.Kind),
		Name:          m.Name,
		Phone:         m.Phone,
		Email:         m.Email,
		Address:       m.Address,
		TaxNumber:     m.TaxNumber,
		CreditBalance: m.CreditBalance,
		Notes:         m.Notes,
	}
}

// CreditTransactionModel is the database record for partner.CreditTransaction
type CreditTransactionModel struct {
	BaseModel
	CounterpartyID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind           string          `gorm:"size:16;not null"`
	Amount         decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	BalanceBefore  decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	BalanceAfter   decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Reference      string          `gorm:"size:255"`
}

// TableName returns the table name
func (CreditTransactionModel) TableName() string {
	return "credit_transactions"
}

// CreditTransactionFromDomain converts a domain credit transaction to its
// database record
func CreditTransactionFromDomain(t *partner.CreditTransaction) *CreditTransactionModel {
	return &CreditTransactionModel{
		BaseModel: BaseModel{
			ID:        t.ID,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		},
		CounterpartyID: t.CounterpartyID,
		Kind:           t.Kind.String(),
		Amount:         t.Amount,
		BalanceBefore:  t.BalanceBefore,
		BalanceAfter:   t.BalanceAfter,
		Reference:      t.Reference,
	}
}

// ToDomain converts the database record back to the domain credit transaction
func (m *CreditTransactionModel) ToDomain() *partner.CreditTransaction {
	return &partner.CreditTransaction{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		CounterpartyID: m.CounterpartyID,
		Kind:           partner.CreditTransactionKind(m.Kind),
		Amount:         m.Amount,
		BalanceBefore:  m.BalanceBefore,
		BalanceAfter:   m.BalanceAfter,
		Reference:      m.Reference,
	}
}
