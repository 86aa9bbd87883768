package ledger

// ObligationKind distinguishes receivables from payables
type ObligationKind string

const (
	KindInvoice       ObligationKind = "INVOICE"        // customer invoice (receivable)
	KindPurchaseOrder ObligationKind = "PURCHASE_ORDER" // supplier purchase order (payable)
)

// IsValid checks if the obligation kind is valid
func (k ObligationKind) IsValid() bool {
	return k == KindInvoice || k == KindPurchaseOrder
}

// String returns the string representation
func (k ObligationKind) String() string {
	return string(k)
}

// SequencePrefix returns the display-number prefix for this kind
func (k ObligationKind) SequencePrefix() string {
	switch k {
	case KindPurchaseOrder:
		return "PO"
	default:
		return "INV"
	}
}

// ObligationStatus represents the payment state of an obligation.
// It is derived from the grand total and the recorded payments, never
// entered by hand.
type ObligationStatus string

const (
	StatusPending ObligationStatus = "PENDING" // no payment recorded yet
	StatusPartial ObligationStatus = "PARTIAL" // some payment recorded, balance open
	StatusPaid    ObligationStatus = "PAID"    // fully settled
	StatusOverdue ObligationStatus = "OVERDUE" // unpaid and past its due date
)

// IsValid checks if the status is valid
func (s ObligationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPartial, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// String returns the string representation
func (s ObligationStatus) String() string {
	return string(s)
}

// IsTerminal returns true when no further payment can be applied
func (s ObligationStatus) IsTerminal() bool {
	return s == StatusPaid
}

// CanApplyPayment returns true if a payment may be recorded in this status
func (s ObligationStatus) CanApplyPayment() bool {
	return s != StatusPaid
}
