package ledger

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mizan/backend/internal/domain/shared"
)

// DiscountMode determines how a discount value is interpreted
type DiscountMode string

const (
	DiscountPercentage DiscountMode = "PERCENTAGE" // value is a percentage in [0,100]
	DiscountFixed      DiscountMode = "FIXED"      // value is an absolute SAR amount
)

// IsValid checks if the discount mode is valid
func (m DiscountMode) IsValid() bool {
	return m == DiscountPercentage || m == DiscountFixed
}

// String returns the string representation
func (m DiscountMode) String() string {
	return string(m)
}

// Line is one priced item row within an obligation
type Line struct {
	ID            uuid.UUID       `json:"id"`
	Description   string          `json:"description"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	DiscountMode  DiscountMode    `json:"discount_mode"`
	DiscountValue decimal.Decimal `json:"discount_value"`
}

// NewLine creates a line with a generated identifier
func NewLine(description string, quantity int, unitPrice decimal.Decimal) (Line, error) {
	if quantity < 0 {
		return Line{}, shared.NewDomainError("INVALID_QUANTITY", "quantity cannot be negative")
	}
	if unitPrice.IsNegative() {
		return Line{}, shared.NewDomainError("INVALID_UNIT_PRICE", "unit price cannot be negative")
	}
	return Line{
		ID:            uuid.New(),
		Description:   description,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		DiscountMode:  DiscountPercentage,
		DiscountValue: decimal.Zero,
	}, nil
}

// WithDiscount returns a copy of the line carrying the given discount
func (l Line) WithDiscount(mode DiscountMode, value decimal.Decimal) (Line, error) {
	if !mode.IsValid() {
		return Line{}, shared.NewDomainError("INVALID_DISCOUNT_MODE", fmt.Sprintf("unknown discount mode: %s", mode))
	}
	if value.IsNegative() {
		return Line{}, shared.NewDomainError("INVALID_DISCOUNT", "discount value cannot be negative")
	}
	l.DiscountMode = mode
	l.DiscountValue = value
	return l, nil
}

// WithoutDiscount returns a copy of the line with its discount cleared
func (l Line) WithoutDiscount() Line {
	l.DiscountMode = DiscountPercentage
	l.DiscountValue = decimal.Zero
	return l
}

// RawSubtotal returns quantity × unit price before any discount
func (l Line) RawSubtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineTotals holds the computed amounts for one line
type LineTotals struct {
	RawSubtotal        decimal.Decimal `json:"raw_subtotal"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	PriceAfterDiscount decimal.Decimal `json:"price_after_discount"`
	LineSubtotal       decimal.Decimal `json:"line_subtotal"`
	TaxAmount          decimal.Decimal `json:"tax_amount"`
	LineTotal          decimal.Decimal `json:"line_total"`
}

var oneHundred = decimal.NewFromInt(100)

// ComputeLineTotals calculates subtotal, discount, tax and total for one line.
// taxRate is the effective rate, 0 when tax is disabled.
func ComputeLineTotals(line Line, taxRate decimal.Decimal) LineTotals {
	raw := line.RawSubtotal()
	if raw.IsZero() {
		return LineTotals{
			RawSubtotal:        decimal.Zero,
			DiscountAmount:     decimal.Zero,
			PriceAfterDiscount: decimal.Zero,
			LineSubtotal:       decimal.Zero,
			TaxAmount:          decimal.Zero,
			LineTotal:          decimal.Zero,
		}
	}

	var discountAmount, priceAfterDiscount decimal.Decimal
	switch line.DiscountMode {
	case DiscountFixed:
		fixed := ClampNonNegative(line.DiscountValue)
		discountAmount = decimal.Min(raw, fixed)
		priceAfterDiscount = line.UnitPrice.Sub(decimal.Min(line.UnitPrice, line.DiscountValue))
	default:
		pct := line.DiscountValue
		if pct.IsNegative() {
			pct = decimal.Zero
		} else if pct.GreaterThan(oneHundred) {
			pct = oneHundred
		}
		discountAmount = raw.Mul(pct).Div(oneHundred)
		priceAfterDiscount = line.UnitPrice.Mul(decimal.NewFromInt(1).Sub(pct.Div(oneHundred)))
	}

	qty := decimal.NewFromInt(int64(line.Quantity))
	lineSubtotal := priceAfterDiscount.Mul(qty)
	taxAmount := lineSubtotal.Mul(taxRate)

	return LineTotals{
		RawSubtotal:        raw,
		DiscountAmount:     discountAmount,
		PriceAfterDiscount: priceAfterDiscount,
		LineSubtotal:       lineSubtotal,
		TaxAmount:          taxAmount,
		LineTotal:          lineSubtotal.Add(taxAmount),
	}
}

// Lines is an ordered sequence of lines, stored as a JSON column
type Lines []Line

// Value implements driver.Valuer for database storage
func (ls Lines) Value() (driver.Value, error) {
	if ls == nil {
		ls = Lines{}
	}
	return json.Marshal(ls)
}

// Scan implements sql.Scanner for database retrieval
func (ls *Lines) Scan(value any) error {
	if value == nil {
		*ls = Lines{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Lines", value)
	}
	return json.Unmarshal(data, ls)
}

// TotalRawSubtotal sums the pre-discount subtotals of all lines
func (ls Lines) TotalRawSubtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range ls {
		total = total.Add(l.RawSubtotal())
	}
	return total
}
