package inventory

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/supershop/supershop/internal/platform/recordstore"
	"github.com/supershop/supershop/internal/shared"
)

// Store owns the product and category collections. All mutation happens
// through its methods; callers only ever see copies.
//
// Every mutating method applies the in-memory change first and then persists.
// A failed save is returned to the caller but the in-memory change is kept,
// so memory and disk can diverge until the next successful save.
type Store struct {
	mu         sync.Mutex
	products   []Product
	categories map[int]string

	productFile  *recordstore.Store
	categoryFile *recordstore.Store
	logger       *slog.Logger
}

// NewStore builds an empty Store over the two backing files.
func NewStore(productFile, categoryFile *recordstore.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		categories:   make(map[int]string),
		productFile:  productFile,
		categoryFile: categoryFile,
		logger:       logger,
	}
}

// Load reads products and categories from disk, seeding the default
// categories when none exist yet.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	catRecords, err := s.categoryFile.Load()
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	s.categories = make(map[int]string, len(catRecords))
	for _, rec := range catRecords {
		cat, err := decodeCategory(rec)
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		s.categories[cat.ID] = cat.Name
	}
	if len(s.categories) == 0 {
		s.categories = map[int]string{
			1: "Electronics",
			2: "Clothing",
			3: "Groceries",
			4: "Home Appliances",
		}
		if err := s.saveCategoriesLocked(); err != nil {
			s.logger.Warn("save default categories", slog.Any("error", err))
		}
	}

	prodRecords, err := s.productFile.Load()
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	s.products = make([]Product, 0, len(prodRecords))
	for _, rec := range prodRecords {
		p, err := decodeProduct(rec)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		s.products = append(s.products, p)
	}
	return nil
}

// FindByID returns a copy of the product or a wrapped shared.ErrNotFound.
func (s *Store) FindByID(id int) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return Product{}, fmt.Errorf("product %d: %w", id, shared.ErrNotFound)
	}
	return s.products[idx], nil
}

// FindByName returns the first product matching the name, case-insensitive.
func (s *Store) FindByName(name string) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name = strings.TrimSpace(name)
	for _, p := range s.products {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("product %q: %w", name, shared.ErrNotFound)
}

// AdjustQuantity applies a stock delta to one product. The adjustment is
// rejected with ErrNegativeStock when the result would drop below zero.
func (s *Store) AdjustQuantity(id, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("product %d: %w", id, shared.ErrNotFound)
	}
	next := s.products[idx].Quantity + delta
	if next < 0 {
		return fmt.Errorf("product %d: %w", id, ErrNegativeStock)
	}
	s.products[idx].Quantity = next
	s.products[idx].InStock = next > 0
	return s.saveProductsLocked()
}

// ApplyDeltas validates every delta against live stock and then applies them
// all inside the same critical section. Either every product moves or none
// does; a save failure is reported after the in-memory apply.
func (s *Store) ApplyDeltas(deltas map[int]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, delta := range deltas {
		idx := s.indexOf(id)
		if idx < 0 {
			return fmt.Errorf("product %d: %w", id, shared.ErrNotFound)
		}
		if s.products[idx].Quantity+delta < 0 {
			return fmt.Errorf("product %d (%s): %w", id, s.products[idx].Name, ErrInsufficientStock)
		}
	}
	for id, delta := range deltas {
		idx := s.indexOf(id)
		s.products[idx].Quantity += delta
		s.products[idx].InStock = s.products[idx].Quantity > 0
	}
	return s.saveProductsLocked()
}

// Insert adds a new product. A zero ID is assigned the next free one; an
// unknown category falls back to the default category.
func (s *Store) Insert(p Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextIDLocked()
	}
	if p.DateAdded.IsZero() {
		p.DateAdded = time.Now().Truncate(time.Second)
	}
	if _, ok := s.categories[p.CategoryID]; !ok {
		p.CategoryID = DefaultCategoryID
	}
	p.Name = strings.TrimSpace(p.Name)
	p.InStock = p.Quantity > 0
	if err := p.validate(); err != nil {
		return Product{}, err
	}
	if s.indexOf(p.ID) >= 0 {
		return Product{}, fmt.Errorf("product %d: %w", p.ID, shared.ErrDuplicate)
	}
	s.products = append(s.products, p)
	if err := s.saveProductsLocked(); err != nil {
		return p, err
	}
	return p, nil
}

// Update replaces the stored product with the same ID.
func (s *Store) Update(p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Name = strings.TrimSpace(p.Name)
	p.InStock = p.Quantity > 0
	if err := p.validate(); err != nil {
		return err
	}
	idx := s.indexOf(p.ID)
	if idx < 0 {
		return fmt.Errorf("product %d: %w", p.ID, shared.ErrNotFound)
	}
	if p.DateAdded.IsZero() {
		p.DateAdded = s.products[idx].DateAdded
	}
	s.products[idx] = p
	return s.saveProductsLocked()
}

// UpdatePrice changes a product price.
func (s *Store) UpdatePrice(id int, price decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !price.IsPositive() {
		return ErrInvalidPrice
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("product %d: %w", id, shared.ErrNotFound)
	}
	s.products[idx].Price = price
	return s.saveProductsLocked()
}

// Delete removes a product from the catalog.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("product %d: %w", id, shared.ErrNotFound)
	}
	s.products = append(s.products[:idx], s.products[idx+1:]...)
	return s.saveProductsLocked()
}

// List returns all products ordered by ID.
func (s *Store) List() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListByCategory returns the products in one category.
func (s *Store) ListByCategory(categoryID int) []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Product
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}

// ListByPriceRange returns products priced within [low, high].
func (s *Store) ListByPriceRange(low, high decimal.Decimal) []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Product
	for _, p := range s.products {
		if p.Price.Cmp(low) >= 0 && p.Price.Cmp(high) <= 0 {
			out = append(out, p)
		}
	}
	return out
}

// ListLowStock returns in-stock products at or below the threshold.
func (s *Store) ListLowStock(threshold int) ([]Product, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("inventory: %w: threshold must not be negative", ErrInvalidQuantity)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Product
	for _, p := range s.products {
		if p.LowStock(threshold) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Categories returns all categories ordered by ID.
func (s *Store) Categories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Category, 0, len(s.categories))
	for id, name := range s.categories {
		out = append(out, Category{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CategoryName resolves a category name.
func (s *Store) CategoryName(id int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.categories[id]
	return name, ok
}

// AddCategory registers a new category.
func (s *Store) AddCategory(id int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	name = strings.TrimSpace(name)
	if id <= 0 || name == "" {
		return fmt.Errorf("inventory: invalid category data")
	}
	if _, ok := s.categories[id]; ok {
		return fmt.Errorf("category %d: %w", id, shared.ErrDuplicate)
	}
	s.categories[id] = name
	return s.saveCategoriesLocked()
}

func (s *Store) indexOf(id int) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) nextIDLocked() int {
	next := 1
	for _, p := range s.products {
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	return next
}

func (s *Store) saveProductsLocked() error {
	records := make([]recordstore.Record, len(s.products))
	for i, p := range s.products {
		records[i] = encodeProduct(p)
	}
	if err := s.productFile.SaveAll(records); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	return nil
}

func (s *Store) saveCategoriesLocked() error {
	out := make([]Category, 0, len(s.categories))
	for id, name := range s.categories {
		out = append(out, Category{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	records := make([]recordstore.Record, len(out))
	for i, c := range out {
		records[i] = encodeCategory(c)
	}
	if err := s.categoryFile.SaveAll(records); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	return nil
}
