package checkout

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/supershop/supershop/internal/cart"
	"github.com/supershop/supershop/internal/inventory"
	"github.com/supershop/supershop/internal/ledger"
)

// ErrEmptyCart indicates checkout was attempted with no lines.
var ErrEmptyCart = errors.New("checkout: cart is empty")

// ErrInventoryUpdate indicates the stock decrement during commit failed.
var ErrInventoryUpdate = errors.New("checkout: inventory update failed")

// Checkout attempt phases, for failure reporting.
const (
	phaseValidating = "validating"
	phaseCommitting = "committing"
	phaseRecording  = "recording"
)

// CartPort is the cart surface the coordinator drives.
type CartPort interface {
	IsEmpty() bool
	Items() []cart.LineItem
	SetDiscountRate(rate decimal.Decimal) error
	Subtotal() decimal.Decimal
	Discount() decimal.Decimal
	Total() decimal.Decimal
	Clear() error
}

// InventoryPort is the inventory surface the coordinator drives.
type InventoryPort interface {
	FindByID(id int) (inventory.Product, error)
	ApplyDeltas(deltas map[int]int) error
}

// LedgerPort records completed purchases.
type LedgerPort interface {
	Append(record ledger.PurchaseRecord) error
}

// ReceiptWriter emits the durable receipt artifact.
type ReceiptWriter interface {
	Write(record ledger.PurchaseRecord) (string, error)
}

// Result is a successful checkout.
type Result struct {
	Record      ledger.PurchaseRecord
	ReceiptPath string
}

// Coordinator orchestrates a checkout attempt: re-validate stock, decrement
// inventory, record the purchase, clear the cart, emit a receipt.
type Coordinator struct {
	cart        CartPort
	catalog     InventoryPort
	ledger      LedgerPort
	receipts    ReceiptWriter
	vipDiscount decimal.Decimal
	logger      *slog.Logger
}

// NewCoordinator builds a Coordinator. vipDiscount is the fraction applied
// to subtotal for VIP customers.
func NewCoordinator(c CartPort, catalog InventoryPort, l LedgerPort, receipts ReceiptWriter, vipDiscount decimal.Decimal, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		cart:        c,
		catalog:     catalog,
		ledger:      l,
		receipts:    receipts,
		vipDiscount: vipDiscount,
		logger:      logger,
	}
}

// Checkout runs one checkout attempt for the customer. Validation failures
// are side-effect free; once the batched inventory decrement succeeds the
// purchase is recorded and the cart cleared.
func (co *Coordinator) Checkout(customerID string, vip bool) (Result, error) {
	// Validating. Stock may have changed since items were added to the
	// cart, so every line is re-checked against the live product.
	if co.cart.IsEmpty() {
		return Result{}, ErrEmptyCart
	}
	items := co.cart.Items()
	for _, item := range items {
		product, err := co.catalog.FindByID(item.ProductID)
		if err != nil || product.Quantity < item.Quantity {
			co.logger.Info("checkout rejected",
				slog.String("phase", phaseValidating),
				slog.Int("product_id", item.ProductID))
			return Result{}, fmt.Errorf("%s: %w", item.Name, inventory.ErrInsufficientStock)
		}
	}

	// Committing. The discount rate is set from the VIP flag before pricing
	// and all decrements are applied as one all-or-none batch.
	rate := decimal.Zero
	if vip {
		rate = co.vipDiscount
	}
	if err := co.cart.SetDiscountRate(rate); err != nil {
		return Result{}, err
	}
	subtotal := co.cart.Subtotal()
	discount := co.cart.Discount()
	total := co.cart.Total()

	deltas := make(map[int]int, len(items))
	for _, item := range items {
		deltas[item.ProductID] = -item.Quantity
	}
	if err := co.catalog.ApplyDeltas(deltas); err != nil {
		// A failed save here means memory and disk may disagree about
		// stock levels. Operationally critical, not a retryable user error.
		co.logger.Error("inventory decrement failed",
			slog.String("phase", phaseCommitting),
			slog.String("customer", customerID),
			slog.Any("error", err))
		return Result{}, fmt.Errorf("%w: %v", ErrInventoryUpdate, err)
	}

	// Recording.
	record := ledger.PurchaseRecord{
		ID:            newPurchaseID(),
		CustomerID:    customerID,
		Timestamp:     time.Now().Truncate(time.Second),
		Items:         toPurchaseItems(items),
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         total,
		PaymentMethod: ledger.DefaultPaymentMethod,
		Status:        ledger.StatusCompleted,
	}
	if err := co.ledger.Append(record); err != nil {
		co.logger.Warn("purchase not durably recorded",
			slog.String("phase", phaseRecording),
			slog.String("purchase_id", record.ID),
			slog.Any("error", err))
	}
	receiptPath, err := co.receipts.Write(record)
	if err != nil {
		co.logger.Warn("receipt not written",
			slog.String("purchase_id", record.ID),
			slog.Any("error", err))
	}

	// Completed.
	if err := co.cart.Clear(); err != nil {
		co.logger.Warn("cart not cleared on disk", slog.Any("error", err))
	}
	if err := co.cart.SetDiscountRate(decimal.Zero); err != nil {
		return Result{}, err
	}
	return Result{Record: record, ReceiptPath: receiptPath}, nil
}

func toPurchaseItems(items []cart.LineItem) []ledger.PurchaseItem {
	out := make([]ledger.PurchaseItem, len(items))
	for i, item := range items {
		out[i] = ledger.PurchaseItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		}
	}
	return out
}

// newPurchaseID derives an id from the wall clock plus a random
// disambiguator so two checkouts in the same second stay distinct.
func newPurchaseID() string {
	return fmt.Sprintf("PUR-%s-%s", time.Now().Format("20060102150405"), uuid.NewString()[:8])
}
