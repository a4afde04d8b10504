package store

import (
	"slices"
	"strings"
	"sync"

	"github.com/abgdnv/productapi/internal/product/errors"
	"github.com/google/uuid"
)

// inMemory implements ProductStore using an insertion-ordered slice.
type inMemory struct {
	mu       sync.RWMutex
	products []Product
}

// NewInMemoryStore creates a new instance of ProductStore holding the given products.
func NewInMemoryStore(seed ...Product) ProductStore {
	return &inMemory{
		products: slices.Clone(seed),
	}
}

// List returns the products of one category, or all of them.
func (s *inMemory) List(category string) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if category == "" || p.Category == category {
			list = append(list, p)
		}
	}
	return list
}

// FindByID retrieves a product by its ID.
func (s *inMemory) FindByID(id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.ErrProductNotFound
	}
	p := s.products[i]
	return &p, nil
}

// FindIndexByID returns the position of a product, -1 when absent.
func (s *inMemory) FindIndexByID(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.indexOf(id)
}

// Insert appends a product under a new ID and returns it.
func (s *inMemory) Insert(p Product) Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.NewString()
	s.products = append(s.products, p)
	return p
}

// Replace overwrites a product in place, keeping its ID and position.
func (s *inMemory) Replace(id string, p Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.ErrProductNotFound
	}
	p.ID = id
	s.products[i] = p
	return &p, nil
}

// Remove deletes a product and returns it.
func (s *inMemory) Remove(id string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.ErrProductNotFound
	}
	removed := s.products[i]
	s.products = slices.Delete(s.products, i, i+1)
	return &removed, nil
}

// CountByCategory tallies products per category.
func (s *inMemory) CountByCategory() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, p := range s.products {
		counts[p.Category]++
	}
	return counts
}

// SearchByName returns products whose name contains term, case-insensitively.
func (s *inMemory) SearchByName(term string) ([]Product, error) {
	if term == "" {
		return nil, errors.ErrSearchTermRequired
	}
	needle := strings.ToLower(term)

	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make([]Product, 0)
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			found = append(found, p)
		}
	}
	return found, nil
}

// Len returns the number of products.
func (s *inMemory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.products)
}

// indexOf must be called with the lock held.
func (s *inMemory) indexOf(id string) int {
	return slices.IndexFunc(s.products, func(p Product) bool { return p.ID == id })
}
