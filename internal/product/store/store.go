// Package store provides an interface for product storage operations.
package store

// Product represents a product entity in the store.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     bool    `json:"inStock"`
}

// ProductStore is an interface for product storage operations.
// Records keep insertion order; every method returns copies.
type ProductStore interface {
	// List returns all products, or only those whose category equals category exactly.
	// An empty category means no filter.
	List(category string) []Product

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(id string) (*Product, error)

	// FindIndexByID returns the position of the product, or -1 when absent.
	FindIndexByID(id string) int

	// Insert assigns a fresh ID to p and appends it.
	Insert(p Product) Product

	// Replace overwrites every field but the ID of an existing product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Replace(id string, p Product) (*Product, error)

	// Remove deletes a product and returns it.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Remove(id string) (*Product, error)

	// CountByCategory returns the number of products per category.
	CountByCategory() map[string]int

	// SearchByName returns products whose name contains term, ignoring case.
	// Returns ErrSearchTermRequired when term is empty.
	SearchByName(term string) ([]Product, error)

	// Len returns the number of stored products.
	Len() int
}

// DefaultCatalog returns the products a fresh service starts with.
func DefaultCatalog() []Product {
	return []Product{
		{ID: "1", Name: "Laptop", Description: "High-performance laptop with 16GB RAM", Price: 1200, Category: "electronics", InStock: true},
		{ID: "2", Name: "Smartphone", Description: "Latest model with 128GB storage", Price: 800, Category: "electronics", InStock: true},
		{ID: "3", Name: "Coffee Maker", Description: "Programmable coffee maker with timer", Price: 50, Category: "kitchen", InStock: false},
	}
}

// Paginate returns the page-th window of size limit from seq, pages starting at 1.
// Windows outside seq, or a non-positive page or limit, yield an empty slice.
func Paginate(seq []Product, page, limit int) []Product {
	if page < 1 || limit < 1 {
		return []Product{}
	}
	start := (page - 1) * limit
	if start >= len(seq) {
		return []Product{}
	}
	end := min(start+limit, len(seq))
	out := make([]Product, end-start)
	copy(out, seq[start:end])
	return out
}
