package ledger

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/supershop/supershop/internal/platform/recordstore"
)

const timeLayout = "2006-01-02 15:04:05"

// A purchase record is eight header fields followed by five fields per item.
const (
	headerFields = 8
	itemFields   = 5
)

func encodePurchase(p PurchaseRecord) recordstore.Record {
	rec := make(recordstore.Record, 0, headerFields+len(p.Items)*itemFields)
	rec = append(rec,
		p.ID,
		p.CustomerID,
		p.Timestamp.Format(timeLayout),
		p.Subtotal.StringFixed(2),
		p.Discount.StringFixed(2),
		p.Total.StringFixed(2),
		p.PaymentMethod,
		p.Status,
	)
	for _, item := range p.Items {
		rec = append(rec,
			strconv.Itoa(item.ProductID),
			item.Name,
			item.UnitPrice.StringFixed(2),
			strconv.Itoa(item.Quantity),
			item.LineTotal.StringFixed(2),
		)
	}
	return rec
}

func decodePurchase(rec recordstore.Record) (PurchaseRecord, error) {
	if len(rec) < headerFields || (len(rec)-headerFields)%itemFields != 0 {
		return PurchaseRecord{}, fmt.Errorf("ledger: purchase record has %d fields", len(rec))
	}
	ts, err := time.ParseInLocation(timeLayout, rec[2], time.Local)
	if err != nil {
		return PurchaseRecord{}, fmt.Errorf("ledger: purchase timestamp: %w", err)
	}
	subtotal, err := decimal.NewFromString(rec[3])
	if err != nil {
		return PurchaseRecord{}, fmt.Errorf("ledger: subtotal: %w", err)
	}
	discount, err := decimal.NewFromString(rec[4])
	if err != nil {
		return PurchaseRecord{}, fmt.Errorf("ledger: discount: %w", err)
	}
	total, err := decimal.NewFromString(rec[5])
	if err != nil {
		return PurchaseRecord{}, fmt.Errorf("ledger: total: %w", err)
	}

	p := PurchaseRecord{
		ID:            rec[0],
		CustomerID:    rec[1],
		Timestamp:     ts,
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         total,
		PaymentMethod: rec[6],
		Status:        rec[7],
	}
	for i := headerFields; i < len(rec); i += itemFields {
		item, err := decodePurchaseItem(rec[i : i+itemFields])
		if err != nil {
			return PurchaseRecord{}, err
		}
		p.Items = append(p.Items, item)
	}
	return p, nil
}

func decodePurchaseItem(fields []string) (PurchaseItem, error) {
	productID, err := strconv.Atoi(fields[0])
	if err != nil {
		return PurchaseItem{}, fmt.Errorf("ledger: item product id: %w", err)
	}
	unitPrice, err := decimal.NewFromString(fields[2])
	if err != nil {
		return PurchaseItem{}, fmt.Errorf("ledger: item unit price: %w", err)
	}
	quantity, err := strconv.Atoi(fields[3])
	if err != nil {
		return PurchaseItem{}, fmt.Errorf("ledger: item quantity: %w", err)
	}
	lineTotal, err := decimal.NewFromString(fields[4])
	if err != nil {
		return PurchaseItem{}, fmt.Errorf("ledger: item line total: %w", err)
	}
	return PurchaseItem{
		ProductID: productID,
		Name:      fields[1],
		UnitPrice: unitPrice,
		Quantity:  quantity,
		LineTotal: lineTotal,
	}, nil
}
