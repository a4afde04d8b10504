// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/productapi/internal/product/store"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindAll returns one page of products, optionally filtered by category.
	FindAll(ctx context.Context, query ListQuery) PageDto

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*ProductDto, error)

	// Create adds a new product under a generated ID.
	Create(ctx context.Context, product ProductCreateDto) ProductDto

	// Update replaces every field of an existing product but its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id string, product ProductCreateDto) (*ProductDto, error)

	// DeleteByID removes a product and returns it.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id string) (*ProductDto, error)

	// Search returns products whose name contains term, ignoring case.
	// Returns ErrSearchTermRequired when term is empty.
	Search(ctx context.Context, term string) (*SearchDto, error)

	// Stats returns the number of products per category.
	Stats(ctx context.Context) StatsDto
}

// service implements ProductService and provides methods to manage products.
type service struct {
	repository store.ProductStore
	logger     *slog.Logger
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore, logger *slog.Logger) ProductService {
	return &service{
		repository: repo,
		logger:     logger.With("component", "service"),
	}
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     bool    `json:"inStock"`
}

// ProductCreateDto carries the client-supplied fields of a product.
type ProductCreateDto struct {
	Name        string
	Description string
	Price       float64
	Category    string
	InStock     bool
}

// ListQuery holds the optional list filters. Nil Page and Limit take their defaults.
type ListQuery struct {
	Category string
	Page     *int
	Limit    *int
}

// PageDto is one page of a filtered product list.
type PageDto struct {
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	Limit    int          `json:"limit"`
	Products []ProductDto `json:"products"`
}

// SearchDto is the result of a name search.
type SearchDto struct {
	Total    int          `json:"total"`
	Products []ProductDto `json:"products"`
}

// StatsDto holds per-category counts.
type StatsDto struct {
	CountByCategory map[string]int `json:"countByCategory"`
}

// DeletedDto is returned after a product has been removed.
type DeletedDto struct {
	Message string     `json:"message"`
	Product ProductDto `json:"product"`
}

// FindAll filters by category and then paginates.
// Page defaults to 1 and limit to the size of the filtered list.
func (s *service) FindAll(ctx context.Context, query ListQuery) PageDto {
	filtered := s.repository.List(query.Category)

	page := 1
	if query.Page != nil {
		page = *query.Page
	}
	limit := len(filtered)
	if query.Limit != nil {
		limit = *query.Limit
	}

	s.logger.DebugContext(ctx, "Listing products", "category", query.Category, "page", page, "limit", limit, "total", len(filtered))
	return PageDto{
		Total:    len(filtered),
		Page:     page,
		Limit:    limit,
		Products: toDtos(store.Paginate(filtered, page, limit)),
	}
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
func (s *service) FindByID(_ context.Context, id string) (*ProductDto, error) {
	product, err := s.repository.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}

	return toDto(product), nil
}

// Create creates a new product and returns it as a ProductDto.
func (s *service) Create(ctx context.Context, product ProductCreateDto) ProductDto {
	created := s.repository.Insert(fromDto(product))
	s.logger.DebugContext(ctx, "Product stored", "ID", created.ID)
	return *toDto(&created)
}

// Update replaces a product and returns the stored version.
func (s *service) Update(_ context.Context, id string, product ProductCreateDto) (*ProductDto, error) {
	updated, err := s.repository.Replace(id, fromDto(product))
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %s: %w", id, err)
	}

	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID and returns the removed record.
func (s *service) DeleteByID(_ context.Context, id string) (*ProductDto, error) {
	removed, err := s.repository.Remove(id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete product with ID %s: %w", id, err)
	}

	return toDto(removed), nil
}

// Search finds products by name.
func (s *service) Search(_ context.Context, term string) (*SearchDto, error) {
	found, err := s.repository.SearchByName(term)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return &SearchDto{Total: len(found), Products: toDtos(found)}, nil
}

// Stats counts products per category.
func (s *service) Stats(_ context.Context) StatsDto {
	return StatsDto{CountByCategory: s.repository.CountByCategory()}
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		InStock:     product.InStock,
	}
}

func toDtos(products []store.Product) []ProductDto {
	dtos := make([]ProductDto, len(products))
	for i := range products {
		dtos[i] = *toDto(&products[i])
	}
	return dtos
}

func fromDto(dto ProductCreateDto) store.Product {
	return store.Product{
		Name:        dto.Name,
		Description: dto.Description,
		Price:       dto.Price,
		Category:    dto.Category,
		InStock:     dto.InStock,
	}
}
