package inventory

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/supershop/supershop/internal/platform/recordstore"
)

const timeLayout = "2006-01-02 15:04:05"

func encodeProduct(p Product) recordstore.Record {
	return recordstore.Record{
		strconv.Itoa(p.ID),
		strconv.Itoa(p.CategoryID),
		p.Name,
		p.Price.StringFixed(2),
		strconv.Itoa(p.Quantity),
		p.DateAdded.Format(timeLayout),
	}
}

func decodeProduct(rec recordstore.Record) (Product, error) {
	if len(rec) != 6 {
		return Product{}, fmt.Errorf("inventory: product record has %d fields, want 6", len(rec))
	}
	id, err := strconv.Atoi(rec[0])
	if err != nil {
		return Product{}, fmt.Errorf("inventory: product id: %w", err)
	}
	categoryID, err := strconv.Atoi(rec[1])
	if err != nil {
		return Product{}, fmt.Errorf("inventory: category id: %w", err)
	}
	price, err := decimal.NewFromString(rec[3])
	if err != nil {
		return Product{}, fmt.Errorf("inventory: product price: %w", err)
	}
	qty, err := strconv.Atoi(rec[4])
	if err != nil {
		return Product{}, fmt.Errorf("inventory: product quantity: %w", err)
	}
	added, err := time.ParseInLocation(timeLayout, rec[5], time.Local)
	if err != nil {
		return Product{}, fmt.Errorf("inventory: product date: %w", err)
	}
	return Product{
		ID:         id,
		CategoryID: categoryID,
		Name:       rec[2],
		Price:      price,
		Quantity:   qty,
		InStock:    qty > 0,
		DateAdded:  added,
	}, nil
}

func encodeCategory(c Category) recordstore.Record {
	return recordstore.Record{strconv.Itoa(c.ID), c.Name}
}

func decodeCategory(rec recordstore.Record) (Category, error) {
	if len(rec) != 2 {
		return Category{}, fmt.Errorf("inventory: category record has %d fields, want 2", len(rec))
	}
	id, err := strconv.Atoi(rec[0])
	if err != nil {
		return Category{}, fmt.Errorf("inventory: category id: %w", err)
	}
	return Category{ID: id, Name: rec[1]}, nil
}
