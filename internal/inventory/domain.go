package inventory

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategoryID is assigned when a product references an unknown category.
const DefaultCategoryID = 1

// Product is a catalog entry with live stock.
type Product struct {
	ID         int
	CategoryID int
	Name       string
	Price      decimal.Decimal
	Quantity   int
	InStock    bool
	DateAdded  time.Time
}

// Category is a named product grouping.
type Category struct {
	ID   int
	Name string
}

// ErrNegativeStock triggered when an adjustment would result in negative qty.
var ErrNegativeStock = errors.New("inventory: negative stock not allowed")

// ErrInsufficientStock indicates a requested quantity exceeds live stock.
var ErrInsufficientStock = errors.New("inventory: insufficient stock")

// ErrInvalidQuantity indicates invalid qty.
var ErrInvalidQuantity = errors.New("inventory: quantity must not be negative")

// ErrInvalidPrice indicates a non-positive price.
var ErrInvalidPrice = errors.New("inventory: price must be positive")

func (p Product) validate() error {
	if p.ID <= 0 {
		return errors.New("inventory: product id must be positive")
	}
	if p.CategoryID <= 0 {
		return errors.New("inventory: category id must be positive")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("inventory: product name is required")
	}
	if !p.Price.IsPositive() {
		return ErrInvalidPrice
	}
	if p.Quantity < 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// LowStock reports whether the product is in stock but at or below threshold.
func (p Product) LowStock(threshold int) bool {
	return p.InStock && p.Quantity <= threshold
}
