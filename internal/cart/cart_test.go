package cart

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/supershop/supershop/internal/inventory"
	"github.com/supershop/supershop/internal/platform/recordstore"
	"github.com/supershop/supershop/internal/shared"
)

func newTestCatalog(t *testing.T) *inventory.Store {
	t.Helper()
	dir := t.TempDir()
	s := inventory.NewStore(
		recordstore.New(filepath.Join(dir, "products.dat")),
		recordstore.New(filepath.Join(dir, "categories.dat")),
		nil,
	)
	require.NoError(t, s.Load())
	return s
}

func newTestCart(t *testing.T, catalog *inventory.Store) *Cart {
	t.Helper()
	c := New(catalog, recordstore.New(filepath.Join(t.TempDir(), "cart.dat")), nil)
	require.NoError(t, c.Load())
	return c
}

func addProduct(t *testing.T, catalog *inventory.Store, id int, name, price string, qty int) {
	t.Helper()
	_, err := catalog.Insert(inventory.Product{
		ID:         id,
		CategoryID: 1,
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Quantity:   qty,
	})
	require.NoError(t, err)
}

func TestAddUpdateRemoveScenario(t *testing.T) {
	catalog := newTestCatalog(t)
	addProduct(t, catalog, 5, "Milk", "10.00", 3)
	c := newTestCart(t, catalog)

	require.NoError(t, c.Add(5, 2))
	items := c.Items()
	require.Len(t, items, 1)
	require.Equal(t, 2, items[0].Quantity)

	// 2 + 2 exceeds the stock of 3: line stays unchanged
	err := c.Add(5, 2)
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)
	items = c.Items()
	require.Len(t, items, 1)
	require.Equal(t, 2, items[0].Quantity)

	require.NoError(t, c.Update(5, 0))
	require.True(t, c.IsEmpty())
}

func TestAddValidation(t *testing.T) {
	catalog := newTestCatalog(t)
	addProduct(t, catalog, 1, "Tea", "4.00", 10)
	c := newTestCart(t, catalog)

	require.ErrorIs(t, c.Add(1, 0), ErrInvalidQuantity)
	require.ErrorIs(t, c.Add(1, -3), ErrInvalidQuantity)
	require.ErrorIs(t, c.Add(99, 1), shared.ErrNotFound)
	require.ErrorIs(t, c.Add(1, 11), inventory.ErrInsufficientStock)
	require.True(t, c.IsEmpty())
}

func TestUpdateRevalidatesStock(t *testing.T) {
	catalog := newTestCatalog(t)
	addProduct(t, catalog, 1, "Tea", "4.00", 10)
	c := newTestCart(t, catalog)

	require.NoError(t, c.Add(1, 2))
	require.NoError(t, c.Update(1, 10))
	require.ErrorIs(t, c.Update(1, 11), inventory.ErrInsufficientStock)
	require.ErrorIs(t, c.Update(2, 1), ErrNotInCart)

	items := c.Items()
	require.Equal(t, 10, items[0].Quantity)
}

func TestRemoveAbsentIsReported(t *testing.T) {
	catalog := newTestCatalog(t)
	c := newTestCart(t, catalog)
	require.ErrorIs(t, c.Remove(7), ErrNotInCart)
}

func TestSnapshotPriceIsDecoupled(t *testing.T) {
	catalog := newTestCatalog(t)
	addProduct(t, catalog, 1, "Tea", "4.00", 10)
	c := newTestCart(t, catalog)

	require.NoError(t, c.Add(1, 1))
	require.NoError(t, catalog.UpdatePrice(1, decimal.RequireFromString("9.99")))

	items := c.Items()
	require.Equal(t, "4.00", items[0].Price.StringFixed(2))
	require.Equal(t, "4.00", c.Subtotal().StringFixed(2))
}

func TestTotalsForDiscountRates(t *testing.T) {
	catalog := newTestCatalog(t)
	addProduct(t, catalog, 1, "A", "10.00", 10)
	addProduct(t, catalog, 2, "B", "5.00", 10)
	c := newTestCart(t, catalog)

	require.NoError(t, c.Add(1, 2))
	require.NoError(t, c.Add(2, 1))
	require.Equal(t, "25.00", c.Subtotal().StringFixed(2))

	for _, rate := range []string{"0", "0.1", "0.25", "1"} {
		require.NoError(t, c.SetDiscountRate(decimal.RequireFromString(rate)))
		require.True(t, c.Total().Equal(c.Subtotal().Sub(c.Discount())))
	}

	require.NoError(t, c.SetDiscountRate(decimal.RequireFromString("0.1")))
	require.Equal(t, "2.50", c.Discount().StringFixed(2))
	require.Equal(t, "22.50", c.Total().StringFixed(2))

	require.ErrorIs(t, c.SetDiscountRate(decimal.RequireFromString("1.1")), ErrInvalidDiscountRate)
	require.ErrorIs(t, c.SetDiscountRate(decimal.RequireFromString("-0.1")), ErrInvalidDiscountRate)
}

func TestCartPersistenceRoundTrip(t *testing.T) {
	catalog := newTestCatalog(t)
	addProduct(t, catalog, 1, "Rice, 5kg", "12.50", 10)
	file := recordstore.New(filepath.Join(t.TempDir(), "cart.dat"))

	c := New(catalog, file, nil)
	require.NoError(t, c.Load())
	require.NoError(t, c.Add(1, 3))

	reloaded := New(catalog, file, nil)
	require.NoError(t, reloaded.Load())
	items := reloaded.Items()
	require.Len(t, items, 1)
	require.Equal(t, "Rice, 5kg", items[0].Name)
	require.Equal(t, "12.50", items[0].Price.StringFixed(2))
	require.Equal(t, 3, items[0].Quantity)
}
