// Package compare maintains bounded per-owner selections of products for
// side-by-side comparison.
package compare

import (
	"sync"
)

// MaxItems is the hard cap on a compare list.
const MaxItems = 4

// Product is the attribute snapshot held by a compare list.
type Product struct {
	ID    string             `json:"id"`
	Type  string             `json:"type"`
	Name  string             `json:"name"`
	Price float64            `json:"price"`
	Image string             `json:"image,omitempty"`
	Data  map[string]float64 `json:"data,omitempty"`
}

// List is a capped, deduplicated-by-id selection of products.
type List struct {
	mu    sync.Mutex
	items []Product
}

// Add appends a product. Duplicates and additions beyond the cap are no-ops;
// the return value reports whether the product was taken.
func (l *List) Add(p Product) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.items) >= MaxItems {
		return false
	}
	for _, existing := range l.items {
		if existing.ID == p.ID {
			return false
		}
	}
	l.items = append(l.items, p)
	return true
}

// Remove drops the product with the given id, if present.
func (l *List) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, p := range l.items {
		if p.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

// Clear empties the list.
func (l *List) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}

// Items returns a copy of the selection in insertion order.
func (l *List) Items() []Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Product, len(l.items))
	copy(out, l.items)
	return out
}

// ByType returns the selected products of one type, in insertion order.
func (l *List) ByType(productType string) []Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Product
	for _, p := range l.items {
		if p.Type == productType {
			out = append(out, p)
		}
	}
	return out
}

// Store keeps one compare list per owner.
type Store struct {
	mu    sync.Mutex
	lists map[string]*List
}

// NewStore builds an empty Store.
func NewStore() *Store {
	return &Store{lists: make(map[string]*List)}
}

// List returns the owner's compare list, creating it on first use.
func (s *Store) List(owner string) *List {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lists[owner]
	if !ok {
		l = &List{}
		s.lists[owner] = l
	}
	return l
}
