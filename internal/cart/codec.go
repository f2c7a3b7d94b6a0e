package cart

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/supershop/supershop/internal/platform/recordstore"
)

func encodeLineItem(item LineItem) recordstore.Record {
	return recordstore.Record{
		strconv.Itoa(item.ProductID),
		item.Name,
		item.Price.StringFixed(2),
		strconv.Itoa(item.Quantity),
	}
}

func decodeLineItem(rec recordstore.Record) (LineItem, error) {
	if len(rec) != 4 {
		return LineItem{}, fmt.Errorf("cart: line record has %d fields, want 4", len(rec))
	}
	productID, err := strconv.Atoi(rec[0])
	if err != nil {
		return LineItem{}, fmt.Errorf("cart: product id: %w", err)
	}
	price, err := decimal.NewFromString(rec[2])
	if err != nil {
		return LineItem{}, fmt.Errorf("cart: price: %w", err)
	}
	quantity, err := strconv.Atoi(rec[3])
	if err != nil {
		return LineItem{}, fmt.Errorf("cart: quantity: %w", err)
	}
	return LineItem{ProductID: productID, Name: rec[1], Price: price, Quantity: quantity}, nil
}
