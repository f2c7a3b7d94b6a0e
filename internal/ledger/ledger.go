package ledger

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/supershop/supershop/internal/platform/recordstore"
)

// Ledger is the append-only collection of completed purchases. Appending
// always succeeds in memory; a failed save is logged and reported but the
// record is kept.
type Ledger struct {
	mu        sync.Mutex
	purchases []PurchaseRecord

	file   *recordstore.Store
	logger *slog.Logger
}

// New builds an empty ledger over the backing file.
func New(file *recordstore.Store, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{file: file, logger: logger}
}

// Load restores persisted purchase records from disk.
func (l *Ledger) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	records, err := l.file.Load()
	if err != nil {
		return fmt.Errorf("load purchases: %w", err)
	}
	l.purchases = make([]PurchaseRecord, 0, len(records))
	for _, rec := range records {
		p, err := decodePurchase(rec)
		if err != nil {
			return fmt.Errorf("load purchases: %w", err)
		}
		l.purchases = append(l.purchases, p)
	}
	return nil
}

// Append adds a purchase record and persists the ledger.
func (l *Ledger) Append(record PurchaseRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.purchases = append(l.purchases, record.clone())
	if err := l.saveLocked(); err != nil {
		l.logger.Warn("purchase recorded in memory only",
			slog.String("purchase_id", record.ID), slog.Any("error", err))
		return err
	}
	return nil
}

// FindByCustomer returns the customer's purchases, newest first.
func (l *Ledger) FindByCustomer(customerID string) []PurchaseRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []PurchaseRecord
	for _, p := range l.purchases {
		if p.CustomerID == customerID {
			out = append(out, p.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

// FindByDateRange returns purchases within [start, end], oldest first.
// Bounds are inclusive.
func (l *Ledger) FindByDateRange(start, end time.Time) []PurchaseRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []PurchaseRecord
	for _, p := range l.purchases {
		if p.Timestamp.Before(start) || p.Timestamp.After(end) {
			continue
		}
		out = append(out, p.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// Len returns the number of recorded purchases.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.purchases)
}

func (l *Ledger) saveLocked() error {
	records := make([]recordstore.Record, len(l.purchases))
	for i, p := range l.purchases {
		records[i] = encodePurchase(p)
	}
	if err := l.file.SaveAll(records); err != nil {
		return fmt.Errorf("save purchases: %w", err)
	}
	return nil
}
