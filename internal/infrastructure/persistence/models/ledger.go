package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mizan/backend/internal/domain/ledger"
	"github.com/mizan/backend/internal/domain/shared"
	"github.com/mizan/backend/internal/domain/shared/valueobject"
)

// ObligationModel is the database record for ledger.Obligation
type ObligationModel struct {
	VersionedModel
	Kind                string           `gorm:"size:32;not null;index:idx_obligations_kind_status"`
	SequenceOrdinal     int              `gorm:"not null;default:0"`
	SequenceLabel       string           `gorm:"size:64;index"`
	CounterpartyID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	CounterpartyName    string           `gorm:"size:255;not null"`
	Lines               ledger.Lines     `gorm:"type:jsonb"`
	PlanAmount          *decimal.Decimal `gorm:"type:numeric(18,2)"`
	TaxEnabled          bool             `gorm:"not null;default:true"`
	TaxRate             decimal.Decimal  `gorm:"type:numeric(8,4);not null"`
	DiscountEntry       string           `gorm:"size:16;not null"`
	GlobalDiscountMode  *string          `gorm:"size:16"`
	GlobalDiscountValue *decimal.Decimal `gorm:"type:numeric(18,2)"`
	InvoiceDiscountMode *string          `gorm:"size:16"`
	InvoiceDiscountVal  *decimal.Decimal `gorm:"type:numeric(18,2);column:invoice_discount_value"`
	TotalBeforeDiscount decimal.Decimal  `gorm:"type:numeric(18,2);not null"`
	LineDiscount        decimal.Decimal  `gorm:"type:numeric(18,2);not null"`
	ObligationDiscount  decimal.Decimal  `gorm:"type:numeric(18,2);not null"`
	TotalDiscount       decimal.Decimal  `gorm:"type:numeric(18,2);not null"`
	TotalAfterDiscount  decimal.Decimal  `gorm:"type:numeric(18,2);not null"`
	TotalTax            decimal.Decimal  `gorm:"type:numeric(18,2);not null"`
	GrandTotal          decimal.Decimal  `gorm:"type:numeric(18,2);not null"`
	PaidAmount          decimal.Decimal  `gorm:"type:numeric(18,2);not null"`
	RemainingAmount     decimal.Decimal  `gorm:"type:numeric(18,2);not null"`
	Status              string           `gorm:"size:16;not null;index:idx_obligations_kind_status"`
	DueDate             *time.Time       `gorm:"index"`
	PaidAt              *time.Time
	Remark              string `gorm:"type:text"`
}

// TableName returns the table name
func (ObligationModel) TableName() string {
	return "obligations"
}

// ObligationFromDomain converts a domain obligation to its database record
func ObligationFromDomain(o *ledger.Obligation) *ObligationModel {
	m := &ObligationModel{
		VersionedModel: VersionedModel{
			BaseModel: BaseModel{
				ID:        o.ID,
				CreatedAt: o.CreatedAt,
				UpdatedAt: o.UpdatedAt,
			},
			Version: o.Version,
		},
		Kind:                o.Kind.String(),
		SequenceOrdinal:     o.SequenceOrdinal,
		SequenceLabel:       o.SequenceLabel,
		CounterpartyID:      o.CounterpartyID,
		CounterpartyName:    o.CounterpartyName,
		Lines:               o.Lines,
		PlanAmount:          o.PlanAmount,
		TaxEnabled:          o.TaxEnabled,
		TaxRate:             o.TaxRate,
		DiscountEntry:       o.DiscountEntry.String(),
		TotalBeforeDiscount: o.Totals.TotalBeforeDiscount,
		LineDiscount:        o.Totals.LineDiscount,
		ObligationDiscount:  o.Totals.ObligationDiscount,
		TotalDiscount:       o.Totals.TotalDiscount,
		TotalAfterDiscount:  o.Totals.TotalAfterDiscount,
		TotalTax:            o.Totals.TotalTax,
		GrandTotal:          o.Totals.GrandTotal,
		PaidAmount:          o.PaidAmount,
		RemainingAmount:     o.RemainingAmount,
		Status:              o.Status.String(),
		DueDate:             o.DueDate,
		PaidAt:              o.PaidAt,
		Remark:              o.Remark,
	}
	if o.GlobalDiscount != nil {
		mode := o.GlobalDiscount.Mode.String()
		value := o.GlobalDiscount.Value
		m.GlobalDiscountMode = &mode
		m.GlobalDiscountValue = &value
	}
	if o.InvoiceDiscount != nil {
		mode := o.InvoiceDiscount.Mode.String()
		value := o.InvoiceDiscount.Value
		m.InvoiceDiscountMode = &mode
		m.InvoiceDiscountVal = &value
	}
	return m
}

// ToDomain converts the database record back to the domain obligation
func (m *ObligationModel) ToDomain() *ledger.Obligation {
	o := &ledger.Obligation{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Kind:             ledger.ObligationKind(m.Kind),
		SequenceOrdinal:  m.SequenceOrdinal,
		SequenceLabel:    m.SequenceLabel,
		CounterpartyID:   m.CounterpartyID,
		CounterpartyName: m.CounterpartyName,
		Lines:            m.Lines,
		PlanAmount:       m.PlanAmount,
		TaxEnabled:       m.TaxEnabled,
		TaxRate:          m.TaxRate,
		DiscountEntry:    ledger.DiscountEntryMode(m.DiscountEntry),
		Totals: ledger.ObligationTotals{
			TotalBeforeDiscount: m.TotalBeforeDiscount,
			LineDiscount:        m.LineDiscount,
			ObligationDiscount:  m.ObligationDiscount,
			TotalDiscount:       m.TotalDiscount,
			TotalAfterDiscount:  m.TotalAfterDiscount,
			TotalTax:            m.TotalTax,
			GrandTotal:          m.GrandTotal,
		},
		PaidAmount:      m.PaidAmount,
		RemainingAmount: m.RemainingAmount,
		Status:          ledger.ObligationStatus(m.Status),
		DueDate:         m.DueDate,
		PaidAt:          m.PaidAt,
		Remark:          m.Remark,
	}
	if m.GlobalDiscountMode != nil && m.GlobalDiscountValue != nil {
		o.GlobalDiscount = &ledger.DiscountSetting{
			Mode:  ledger.DiscountMode(*m.GlobalDiscountMode),
			Value: *m.GlobalDiscountValue,
		}
	}
	if m.InvoiceDiscountMode != nil && m.InvoiceDiscountVal != nil {
		o.InvoiceDiscount = &ledger.DiscountSetting{
			Mode:  ledger.DiscountMode(*m.InvoiceDiscountMode),
			Value: *m.InvoiceDiscountVal,
		}
	}
	return o
}

// PaymentModel is the database record for ledger.Payment
type PaymentModel struct {
	BaseModel
	ObligationID   *uuid.UUID        `gorm:"type:uuid;index"`
	CounterpartyID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Amount         valueobject.Money `gorm:"type:numeric(18,2);not null"`
	Method         string            `gorm:"size:32;not null"`
	PaidAt         time.Time         `gorm:"not null;index"`
	Reference      string            `gorm:"size:255"`
}

// TableName returns the table name
func (PaymentModel) TableName() string {
	return "payments"
}

// PaymentFromDomain converts a domain payment to its database record
func PaymentFromDomain(p *ledger.Payment) *PaymentModel {
	return &PaymentModel{
		BaseModel: BaseModel{
			ID:        p.ID,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		},
		ObligationID:   p.ObligationID,
		CounterpartyID: p.CounterpartyID,
		Amount:         p.Amount,
		Method:         p.Method.String(),
		PaidAt:         p.PaidAt,
		Reference:      p.Reference,
	}
}

// ToDomain converts the database record back to the domain payment
func (m *PaymentModel) ToDomain() *ledger.Payment {
	return &ledger.Payment{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ObligationID:   m.ObligationID,
		CounterpartyID: m.CounterpartyID,
		Amount:         m.Amount,
		Method:         ledger.PaymentMethod(m.Method),
		PaidAt:         m.PaidAt,
		Reference:      m.Reference,
	}
}

// SequenceCounterModel is the per-kind, per-year display-number counter
type SequenceCounterModel struct {
	Kind    string `gorm:"size:32;primaryKey"`
	Year    int    `gorm:"primaryKey"`
	Counter int    `gorm:"not null;default:0"`
}

// TableName returns the table name
func (SequenceCounterModel) TableName() string {
	return "sequence_counters"
}
