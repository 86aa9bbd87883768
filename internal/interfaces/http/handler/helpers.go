package handler

import "github.com/shopspring/decimal"

// Request bodies carry money as JSON numbers. Conversion to decimal happens
// here at the boundary so the application layer only ever sees decimals.

func moneyFrom(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func moneyPtrFrom(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}
