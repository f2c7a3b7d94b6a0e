package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase status labels. The checkout path records Completed and never
// mutates the record afterwards.
const (
	StatusCompleted = "Completed"
	StatusRefunded  = "Refunded"
)

// DefaultPaymentMethod is the label recorded when none is chosen. Payment is
// not processed; the method is informational only.
const DefaultPaymentMethod = "Cash"

// PurchaseItem is an immutable snapshot of one purchased line. It is fully
// decoupled from the live product so history stays accurate even if the
// product is later edited or deleted.
type PurchaseItem struct {
	ProductID int
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// PurchaseRecord is one completed checkout.
type PurchaseRecord struct {
	ID            string
	CustomerID    string
	Timestamp     time.Time
	Items         []PurchaseItem
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	Status        string
}

func (r PurchaseRecord) clone() PurchaseRecord {
	items := make([]PurchaseItem, len(r.Items))
	copy(items, r.Items)
	r.Items = items
	return r
}
