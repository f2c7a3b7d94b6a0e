package cart

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/supershop/supershop/internal/inventory"
	"github.com/supershop/supershop/internal/platform/recordstore"
)

// ErrNotInCart indicates the product has no line in the cart.
var ErrNotInCart = errors.New("cart: product not in cart")

// ErrInvalidQuantity indicates a non-positive quantity.
var ErrInvalidQuantity = errors.New("cart: quantity must be positive")

// ErrInvalidDiscountRate indicates a rate outside [0,1].
var ErrInvalidDiscountRate = errors.New("cart: discount rate must be within [0,1]")

// LineItem is one product-and-quantity entry. Name and price are snapshots
// taken when the line is created, not live links to the catalog.
type LineItem struct {
	ProductID int
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// LineTotal returns price times quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// ProductFinder is the slice of the inventory store the cart needs.
type ProductFinder interface {
	FindByID(id int) (inventory.Product, error)
}

// Cart holds the line items of the active session. Additions and updates are
// validated against live stock at mutation time; stock can still change
// between a mutation and checkout, which is why checkout re-validates.
//
// Mutations persist after applying in memory. A failed save is reported to
// the caller without rolling back the in-memory change.
type Cart struct {
	mu           sync.Mutex
	items        map[int]LineItem
	discountRate decimal.Decimal

	catalog ProductFinder
	file    *recordstore.Store
	logger  *slog.Logger
}

// New builds an empty cart over the given catalog and backing file.
func New(catalog ProductFinder, file *recordstore.Store, logger *slog.Logger) *Cart {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cart{
		items:   make(map[int]LineItem),
		catalog: catalog,
		file:    file,
		logger:  logger,
	}
}

// Load restores persisted line items from disk.
func (c *Cart) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	records, err := c.file.Load()
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	c.items = make(map[int]LineItem, len(records))
	for _, rec := range records {
		item, err := decodeLineItem(rec)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		c.items[item.ProductID] = item
	}
	return nil
}

// Add puts quantity units of a product into the cart, creating a new line
// with a name/price snapshot or increasing an existing line. The combined
// quantity must not exceed the product's current stock.
func (c *Cart) Add(productID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	product, err := c.catalog.FindByID(productID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	line, exists := c.items[productID]
	want := quantity
	if exists {
		want += line.Quantity
	}
	if want > product.Quantity {
		return fmt.Errorf("%s: %d available: %w", product.Name, product.Quantity, inventory.ErrInsufficientStock)
	}
	if exists {
		line.Quantity = want
	} else {
		line = LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
		}
	}
	c.items[productID] = line
	return c.saveLocked()
}

// Update sets a line to a new quantity, re-validated against current stock.
// A quantity of zero removes the line.
func (c *Cart) Update(productID, newQuantity int) error {
	if newQuantity < 0 {
		return ErrInvalidQuantity
	}
	if newQuantity == 0 {
		return c.Remove(productID)
	}
	product, err := c.catalog.FindByID(productID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	line, exists := c.items[productID]
	if !exists {
		return fmt.Errorf("product %d: %w", productID, ErrNotInCart)
	}
	if newQuantity > product.Quantity {
		return fmt.Errorf("%s: %d available: %w", product.Name, product.Quantity, inventory.ErrInsufficientStock)
	}
	line.Quantity = newQuantity
	c.items[productID] = line
	return c.saveLocked()
}

// Remove drops the line for a product. Removing an absent product is
// reported with ErrNotInCart, not treated as fatal.
func (c *Cart) Remove(productID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[productID]; !exists {
		return fmt.Errorf("product %d: %w", productID, ErrNotInCart)
	}
	delete(c.items, productID)
	return c.saveLocked()
}

// Clear empties all lines and persists the empty state.
func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[int]LineItem)
	return c.saveLocked()
}

// Items returns the line items ordered by product ID.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LineItem, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

// SetDiscountRate sets the rate applied by Discount. It is only assigned as
// a side effect of a checkout attempt and defaults to zero.
func (c *Cart) SetDiscountRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.Cmp(decimal.NewFromInt(1)) > 0 {
		return ErrInvalidDiscountRate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discountRate = rate
	return nil
}

// DiscountRate returns the current discount rate.
func (c *Cart) DiscountRate() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.discountRate
}

// Subtotal sums line totals using the snapshotted prices.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotalLocked()
}

// Discount returns subtotal times the discount rate, rounded to cents.
func (c *Cart) Discount() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotalLocked().Mul(c.discountRate).Round(2)
}

// Total returns subtotal minus discount.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	subtotal := c.subtotalLocked()
	return subtotal.Sub(subtotal.Mul(c.discountRate).Round(2))
}

func (c *Cart) subtotalLocked() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

func (c *Cart) saveLocked() error {
	out := make([]LineItem, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	records := make([]recordstore.Record, len(out))
	for i, item := range out {
		records[i] = encodeLineItem(item)
	}
	if err := c.file.SaveAll(records); err != nil {
		c.logger.Warn("cart state not persisted", slog.Any("error", err))
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
