package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/supershop/supershop/internal/ledger"
)

// ProductSales aggregates one product's sales over a period.
type ProductSales struct {
	ProductID    int
	Name         string
	QuantitySold int
	Revenue      decimal.Decimal
}

// Summary is a sales report over a date range.
type Summary struct {
	From         time.Time
	To           time.Time
	Transactions int
	ItemsSold    int
	Revenue      decimal.Decimal
	Products     []ProductSales
}

// LedgerPort is the ledger surface reporting reads from.
type LedgerPort interface {
	FindByDateRange(start, end time.Time) []ledger.PurchaseRecord
}

// Service builds sales reports from the purchase ledger.
type Service struct {
	ledger LedgerPort
}

// NewService constructs a Service.
func NewService(l LedgerPort) *Service {
	return &Service{ledger: l}
}

// SalesSummary aggregates totals and per-product quantities for the
// inclusive date range, products sorted by quantity sold descending.
func (s *Service) SalesSummary(from, to time.Time) Summary {
	purchases := s.ledger.FindByDateRange(from, to)

	summary := Summary{From: from, To: to, Transactions: len(purchases), Revenue: decimal.Zero}
	perProduct := make(map[int]*ProductSales)
	for _, p := range purchases {
		summary.Revenue = summary.Revenue.Add(p.Total)
		for _, item := range p.Items {
			summary.ItemsSold += item.Quantity
			agg, ok := perProduct[item.ProductID]
			if !ok {
				agg = &ProductSales{ProductID: item.ProductID, Name: item.Name, Revenue: decimal.Zero}
				perProduct[item.ProductID] = agg
			}
			agg.QuantitySold += item.Quantity
			agg.Revenue = agg.Revenue.Add(item.LineTotal)
		}
	}

	summary.Products = make([]ProductSales, 0, len(perProduct))
	for _, agg := range perProduct {
		summary.Products = append(summary.Products, *agg)
	}
	sort.Slice(summary.Products, func(i, j int) bool {
		if summary.Products[i].QuantitySold != summary.Products[j].QuantitySold {
			return summary.Products[i].QuantitySold > summary.Products[j].QuantitySold
		}
		return summary.Products[i].ProductID < summary.Products[j].ProductID
	})
	return summary
}
