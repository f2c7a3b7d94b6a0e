package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/supershop/supershop/internal/ledger"
)

type memoryLedger struct {
	records []ledger.PurchaseRecord
}

func (m *memoryLedger) FindByDateRange(start, end time.Time) []ledger.PurchaseRecord {
	var out []ledger.PurchaseRecord
	for _, r := range m.records {
		if !r.Timestamp.Before(start) && !r.Timestamp.After(end) {
			out = append(out, r)
		}
	}
	return out
}

func item(productID int, name, unitPrice string, qty int) ledger.PurchaseItem {
	price := decimal.RequireFromString(unitPrice)
	return ledger.PurchaseItem{
		ProductID: productID,
		Name:      name,
		UnitPrice: price,
		Quantity:  qty,
		LineTotal: price.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func TestSalesSummary(t *testing.T) {
	day := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	l := &memoryLedger{records: []ledger.PurchaseRecord{
		{
			ID: "PUR-1", Timestamp: day,
			Items: []ledger.PurchaseItem{item(1, "Rice", "12.00", 2), item(2, "Tea", "4.00", 1)},
			Total: decimal.RequireFromString("28.00"),
		},
		{
			ID: "PUR-2", Timestamp: day.Add(time.Hour),
			Items: []ledger.PurchaseItem{item(1, "Rice", "12.00", 3)},
			Total: decimal.RequireFromString("36.00"),
		},
		{
			ID: "PUR-3", Timestamp: day.Add(48 * time.Hour), // out of range
			Items: []ledger.PurchaseItem{item(2, "Tea", "4.00", 5)},
			Total: decimal.RequireFromString("20.00"),
		},
	}}
	svc := NewService(l)

	summary := svc.SalesSummary(day, day.Add(24*time.Hour))
	require.Equal(t, 2, summary.Transactions)
	require.Equal(t, 6, summary.ItemsSold)
	require.Equal(t, "64.00", summary.Revenue.StringFixed(2))

	require.Len(t, summary.Products, 2)
	require.Equal(t, 1, summary.Products[0].ProductID)
	require.Equal(t, 5, summary.Products[0].QuantitySold)
	require.Equal(t, "60.00", summary.Products[0].Revenue.StringFixed(2))
	require.Equal(t, 2, summary.Products[1].ProductID)
	require.Equal(t, 1, summary.Products[1].QuantitySold)
}

func TestSalesSummaryEmptyRange(t *testing.T) {
	svc := NewService(&memoryLedger{})
	summary := svc.SalesSummary(time.Now(), time.Now().Add(time.Hour))
	require.Equal(t, 0, summary.Transactions)
	require.Equal(t, 0, summary.ItemsSold)
	require.True(t, summary.Revenue.IsZero())
	require.Empty(t, summary.Products)
}
