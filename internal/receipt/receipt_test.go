package receipt

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/supershop/supershop/internal/ledger"
)

func sampleRecord(discount string) ledger.PurchaseRecord {
	return ledger.PurchaseRecord{
		ID:         "PUR-20240301123045-abcd1234",
		CustomerID: "01712345678",
		Timestamp:  time.Date(2024, 3, 1, 12, 30, 45, 0, time.Local),
		Items: []ledger.PurchaseItem{
			{ProductID: 1, Name: "Rice", UnitPrice: decimal.RequireFromString("12.50"), Quantity: 2, LineTotal: decimal.RequireFromString("25.00")},
		},
		Subtotal:      decimal.RequireFromString("25.00"),
		Discount:      decimal.RequireFromString(discount),
		Total:         decimal.RequireFromString("25.00").Sub(decimal.RequireFromString(discount)),
		PaymentMethod: ledger.DefaultPaymentMethod,
		Status:        ledger.StatusCompleted,
	}
}

func TestRenderContainsAllFields(t *testing.T) {
	text := Render(sampleRecord("2.50"))
	require.Contains(t, text, "PUR-20240301123045-abcd1234")
	require.Contains(t, text, "2024-03-01 12:30:45")
	require.Contains(t, text, "01712345678")
	require.Contains(t, text, "Rice")
	require.Contains(t, text, "12.50")
	require.Contains(t, text, "Subtotal")
	require.Contains(t, text, "Discount")
	require.Contains(t, text, "22.50")
	require.Contains(t, text, "Cash")
}

func TestRenderHidesZeroDiscount(t *testing.T) {
	text := Render(sampleRecord("0"))
	require.NotContains(t, text, "Discount")
	require.Contains(t, text, "25.00")
}

func TestWriterKeysFileByPurchaseID(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "transactions")
	w := NewWriter(dir)

	rec := sampleRecord("2.50")
	path, err := w.Write(rec)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "receipt_PUR-20240301123045-abcd1234.txt"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, Render(rec), string(content))
}
