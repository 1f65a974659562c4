// Package store holds the shared in-memory product collection. It is the
// single source of truth read by the catalog view and the creation form's
// selector inputs.
package store

import (
	"sync"

	"github.com/merchkit/catalog-admin/internal/models"
)

// Facets are the distinct-value sets derived from the current collection.
// They are recomputed by a full scan on every mutation, never patched
// incrementally.
type Facets struct {
	Categories []string `json:"categories"`
	Vendors    []string `json:"vendors"`
	Inventory  []string `json:"inventory"`
	Types      []string `json:"types"`
}

// Store is a thread-safe product collection with exactly two mutation entry
// points: SetProducts (bulk replace) and AddProduct (append).
type Store struct {
	mu       sync.RWMutex
	products []models.Product
	facets   Facets
}

func New() *Store {
	return &Store{}
}

// SetProducts replaces the whole collection. Incoming records are
// normalized so the status/inventory invariants hold for hydrated data.
// Records without a single image cannot satisfy the collection invariant
// and are dropped.
func (s *Store) SetProducts(products []models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = make([]models.Product, 0, len(products))
	for _, p := range products {
		p.Normalize()
		if len(p.Images) == 0 {
			continue
		}
		s.products = append(s.products, p)
	}
	s.facets = computeFacets(s.products)
}

// AddProduct appends one committed product and returns it as stored. A zero
// or colliding id is bumped past the current maximum so ids stay unique.
func (s *Store) AddProduct(p models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.Normalize()
	var maxID int64
	for _, existing := range s.products {
		if existing.ID > maxID {
			maxID = existing.ID
		}
		if existing.ID == p.ID {
			p.ID = 0
		}
	}
	if p.ID == 0 {
		p.ID = maxID + 1
	}

	s.products = append(s.products, p)
	s.facets = computeFacets(s.products)
	return p
}

// Products returns a snapshot copy of the collection in insertion order.
func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) Get(id int64) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func (s *Store) Facets() Facets {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Facets{
		Categories: append([]string(nil), s.facets.Categories...),
		Vendors:    append([]string(nil), s.facets.Vendors...),
		Inventory:  append([]string(nil), s.facets.Inventory...),
		Types:      append([]string(nil), s.facets.Types...),
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

func computeFacets(products []models.Product) Facets {
	var f Facets
	f.Categories = distinct(products, func(p models.Product) string { return p.Category })
	f.Vendors = distinct(products, func(p models.Product) string { return p.Vendor })
	f.Inventory = distinct(products, func(p models.Product) string { return p.Inventory.String() })
	f.Types = distinct(products, func(p models.Product) string { return p.Type })
	return f
}

// distinct collects unique non-empty values in first-seen order.
func distinct(products []models.Product, value func(models.Product) string) []string {
	seen := make(map[string]struct{}, len(products))
	var out []string
	for _, p := range products {
		v := value(p)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
