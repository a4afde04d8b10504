package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	perrors "github.com/abgdnv/productapi/internal/product/errors"
	"github.com/abgdnv/productapi/internal/product/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockProductStore is a mock implementation of the ProductStore interface
type mockProductStore struct {
	mock.Mock
}

func (m *mockProductStore) List(category string) []store.Product {
	args := m.Called(category)
	return args.Get(0).([]store.Product)
}

func (m *mockProductStore) FindByID(id string) (*store.Product, error) {
	args := m.Called(id)
	p, _ := args.Get(0).(*store.Product)
	return p, args.Error(1)
}

func (m *mockProductStore) FindIndexByID(id string) int {
	return m.Called(id).Int(0)
}

func (m *mockProductStore) Insert(p store.Product) store.Product {
	return m.Called(p).Get(0).(store.Product)
}

func (m *mockProductStore) Replace(id string, p store.Product) (*store.Product, error) {
	args := m.Called(id, p)
	out, _ := args.Get(0).(*store.Product)
	return out, args.Error(1)
}

func (m *mockProductStore) Remove(id string) (*store.Product, error) {
	args := m.Called(id)
	p, _ := args.Get(0).(*store.Product)
	return p, args.Error(1)
}

func (m *mockProductStore) CountByCategory() map[string]int {
	return m.Called().Get(0).(map[string]int)
}

func (m *mockProductStore) SearchByName(term string) ([]store.Product, error) {
	args := m.Called(term)
	p, _ := args.Get(0).([]store.Product)
	return p, args.Error(1)
}

func (m *mockProductStore) Len() int {
	return m.Called().Int(0)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func intPtr(v int) *int { return &v }

func Test_ProductService_FindAll(t *testing.T) {
	catalog := store.DefaultCatalog()
	testCases := []struct {
		name        string
		query       ListQuery
		filtered    []store.Product
		expectedIDs []string
		expectPage  int
		expectLimit int
	}{
		{
			name:        "Defaults return everything",
			query:       ListQuery{},
			filtered:    catalog,
			expectedIDs: []string{"1", "2", "3"},
			expectPage:  1,
			expectLimit: 3,
		},
		{
			name:        "Second page of size one",
			query:       ListQuery{Page: intPtr(2), Limit: intPtr(1)},
			filtered:    catalog,
			expectedIDs: []string{"2"},
			expectPage:  2,
			expectLimit: 1,
		},
		{
			name:        "Category filter with default limit",
			query:       ListQuery{Category: "kitchen"},
			filtered:    catalog[2:],
			expectedIDs: []string{"3"},
			expectPage:  1,
			expectLimit: 1,
		},
		{
			name:        "Page past the end",
			query:       ListQuery{Page: intPtr(4), Limit: intPtr(2)},
			filtered:    catalog,
			expectedIDs: []string{},
			expectPage:  4,
			expectLimit: 2,
		},
		{
			name:        "Negative page yields nothing",
			query:       ListQuery{Page: intPtr(-1)},
			filtered:    catalog,
			expectedIDs: []string{},
			expectPage:  -1,
			expectLimit: 3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			m := new(mockProductStore)
			m.On("List", tc.query.Category).Return(tc.filtered)
			service := NewService(m, discard)

			// when
			page := service.FindAll(context.Background(), tc.query)

			// then
			assert.Equal(t, len(tc.filtered), page.Total)
			assert.Equal(t, tc.expectPage, page.Page)
			assert.Equal(t, tc.expectLimit, page.Limit)
			got := make([]string, len(page.Products))
			for i, p := range page.Products {
				got[i] = p.ID
			}
			assert.Equal(t, tc.expectedIDs, got)
			m.AssertExpectations(t)
		})
	}
}

func Test_ProductService_FindByID(t *testing.T) {
	testCases := []struct {
		name        string
		stored      *store.Product
		storeErr    error
		expected    *ProductDto
		expectError error
	}{
		{
			name:     "Success - product found",
			stored:   &store.Product{ID: "1", Name: "Laptop", Price: 1200, Category: "electronics", InStock: true},
			expected: &ProductDto{ID: "1", Name: "Laptop", Price: 1200, Category: "electronics", InStock: true},
		},
		{
			name:        "Error - product not found",
			storeErr:    perrors.ErrProductNotFound,
			expectError: perrors.ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			m := new(mockProductStore)
			m.On("FindByID", "1").Return(tc.stored, tc.storeErr)
			service := NewService(m, discard)
			// when
			found, err := service.FindByID(context.Background(), "1")
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, found)
		})
	}
}

func Test_ProductService_Create(t *testing.T) {
	// given
	m := new(mockProductStore)
	input := ProductCreateDto{Name: "Mouse", Description: "Wireless", Price: 20, Category: "electronics", InStock: true}
	toStore := store.Product{Name: "Mouse", Description: "Wireless", Price: 20, Category: "electronics", InStock: true}
	stored := toStore
	stored.ID = "generated"
	m.On("Insert", toStore).Return(stored)
	service := NewService(m, discard)

	// when
	created := service.Create(context.Background(), input)

	// then
	assert.Equal(t, ProductDto{ID: "generated", Name: "Mouse", Description: "Wireless", Price: 20, Category: "electronics", InStock: true}, created)
	m.AssertExpectations(t)
}

func Test_ProductService_Update(t *testing.T) {
	input := ProductCreateDto{Name: "Phone", Description: "d", Price: 700, Category: "electronics"}
	toStore := store.Product{Name: "Phone", Description: "d", Price: 700, Category: "electronics"}

	t.Run("Success", func(t *testing.T) {
		m := new(mockProductStore)
		stored := toStore
		stored.ID = "2"
		m.On("Replace", "2", toStore).Return(&stored, nil)

		updated, err := NewService(m, discard).Update(context.Background(), "2", input)

		require.NoError(t, err)
		assert.Equal(t, "2", updated.ID)
		assert.Equal(t, "Phone", updated.Name)
	})

	t.Run("Not found", func(t *testing.T) {
		m := new(mockProductStore)
		m.On("Replace", "9", toStore).Return(nil, perrors.ErrProductNotFound)

		updated, err := NewService(m, discard).Update(context.Background(), "9", input)

		assert.ErrorIs(t, err, perrors.ErrProductNotFound)
		assert.Nil(t, updated)
	})
}

func Test_ProductService_DeleteByID(t *testing.T) {
	t.Run("Success returns the removed product", func(t *testing.T) {
		m := new(mockProductStore)
		m.On("Remove", "3").Return(&store.Product{ID: "3", Name: "Coffee Maker"}, nil)

		removed, err := NewService(m, discard).DeleteByID(context.Background(), "3")

		require.NoError(t, err)
		assert.Equal(t, "Coffee Maker", removed.Name)
	})

	t.Run("Not found", func(t *testing.T) {
		m := new(mockProductStore)
		m.On("Remove", "3").Return(nil, perrors.ErrProductNotFound)

		_, err := NewService(m, discard).DeleteByID(context.Background(), "3")

		assert.ErrorIs(t, err, perrors.ErrProductNotFound)
	})
}

func Test_ProductService_Search(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		m := new(mockProductStore)
		m.On("SearchByName", "LAP").Return([]store.Product{{ID: "1", Name: "Laptop"}}, nil)

		result, err := NewService(m, discard).Search(context.Background(), "LAP")

		require.NoError(t, err)
		assert.Equal(t, 1, result.Total)
		assert.Equal(t, "Laptop", result.Products[0].Name)
	})

	t.Run("Missing term", func(t *testing.T) {
		m := new(mockProductStore)
		m.On("SearchByName", "").Return(nil, perrors.ErrSearchTermRequired)

		result, err := NewService(m, discard).Search(context.Background(), "")

		assert.ErrorIs(t, err, perrors.ErrSearchTermRequired)
		assert.Nil(t, result)
	})
}

func Test_ProductService_Stats(t *testing.T) {
	m := new(mockProductStore)
	m.On("CountByCategory").Return(map[string]int{"electronics": 2, "kitchen": 1})

	stats := NewService(m, discard).Stats(context.Background())

	assert.Equal(t, StatsDto{CountByCategory: map[string]int{"electronics": 2, "kitchen": 1}}, stats)
}
