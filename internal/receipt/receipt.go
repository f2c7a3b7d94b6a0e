package receipt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/supershop/supershop/internal/ledger"
)

const timeLayout = "2006-01-02 15:04:05"

var printer = message.NewPrinter(language.English)

// money renders an amount with grouped digits and two decimals.
func money(d decimal.Decimal) string {
	f, _ := d.Float64()
	return printer.Sprintf("%.2f", f)
}

// Render builds the human-readable receipt text for a purchase.
func Render(p ledger.PurchaseRecord) string {
	var b strings.Builder
	b.WriteString("================ RECEIPT ================\n")
	fmt.Fprintf(&b, "Transaction ID: %s\n", p.ID)
	fmt.Fprintf(&b, "Date: %s\n", p.Timestamp.Format(timeLayout))
	fmt.Fprintf(&b, "Customer: %s\n\n", p.CustomerID)
	fmt.Fprintf(&b, "%-5s %-25s %10s %6s %12s\n", "ID", "ITEM", "PRICE", "QTY", "TOTAL")
	b.WriteString(strings.Repeat("-", 62) + "\n")
	for _, item := range p.Items {
		fmt.Fprintf(&b, "%-5d %-25s %10s %6d %12s\n",
			item.ProductID, item.Name, money(item.UnitPrice), item.Quantity, money(item.LineTotal))
	}
	b.WriteString(strings.Repeat("-", 62) + "\n")
	fmt.Fprintf(&b, "%44s: %12s\n", "Subtotal", money(p.Subtotal))
	if p.Discount.IsPositive() {
		fmt.Fprintf(&b, "%44s: %12s\n", "Discount", money(p.Discount))
	}
	fmt.Fprintf(&b, "%44s: %12s\n", "TOTAL", money(p.Total))
	fmt.Fprintf(&b, "Payment Method: %s\n", p.PaymentMethod)
	b.WriteString("========= THANK YOU FOR SHOPPING! =========\n")
	return b.String()
}

// Writer persists receipt artifacts, one text file per purchase id.
type Writer struct {
	dir string
}

// NewWriter returns a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Write renders the receipt and stores it keyed by the purchase id,
// returning the file path.
func (w *Writer) Write(p ledger.PurchaseRecord) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", w.dir, err)
	}
	path := filepath.Join(w.dir, fmt.Sprintf("receipt_%s.txt", p.ID))
	if err := os.WriteFile(path, []byte(Render(p)), 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}
