package app

import (
	"sync"

	"github.com/riceschool/storefront/internal/cart/domain"
)

// Store is the in-memory cart. Operations are total: they cannot fail, and
// each one observes a consistent snapshot. Line items keep insertion order
// for display.
type Store struct {
	mu    sync.Mutex
	items []domain.LineItem

	listeners []func()
}

func NewStore() *Store {
	return &Store{}
}

// OnChange registers a callback invoked after any mutation. Register during
// wiring, before concurrent use.
func (s *Store) OnChange(fn func()) {
	s.listeners = append(s.listeners, fn)
}

// Add increments the quantity of an existing line for the same product id,
// or appends a new line with quantity 1.
func (s *Store) Add(p domain.ProductInfo) {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == p.ID {
			s.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, domain.LineItem{ProductInfo: p, Quantity: 1})
	}
	s.mu.Unlock()
	s.notify()
}

// Remove deletes the line for the given product id. No-op when absent.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	s.removeLocked(productID)
	s.mu.Unlock()
	s.notify()
}

// SetQuantity updates a line's quantity in place. A quantity of zero or less
// removes the line.
func (s *Store) SetQuantity(productID string, qty int) {
	s.mu.Lock()
	if qty <= 0 {
		s.removeLocked(productID)
	} else {
		for i := range s.items {
			if s.items[i].ID == productID {
				s.items[i].Quantity = qty
				break
			}
		}
	}
	s.mu.Unlock()
	s.notify()
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	s.notify()
}

// Snapshot returns a copy of the current cart.
func (s *Store) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.LineItem, len(s.items))
	copy(items, s.items)
	return domain.Cart{Items: items}
}

// Total recomputes the cart total from the current lines.
func (s *Store) Total() float64 {
	return s.Snapshot().Total()
}

// Count recomputes the summed quantity from the current lines.
func (s *Store) Count() int {
	return s.Snapshot().Count()
}

func (s *Store) removeLocked(productID string) {
	for i := range s.items {
		if s.items[i].ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *Store) notify() {
	for _, fn := range s.listeners {
		fn()
	}
}
