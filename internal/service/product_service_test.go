package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mini-mercado/internal/cache"
	"mini-mercado/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, input model.ProductInput) (*model.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, id int64, input model.ProductInput) (*model.Product, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeCache records cache operations in memory.
type fakeCache struct {
	mu      sync.Mutex
	entries map[int64]model.Product
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[int64]model.Product)}
}

func (c *fakeCache) Get(ctx context.Context, id int64) (*model.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (c *fakeCache) Set(ctx context.Context, product *model.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[product.ID] = *product
}

func (c *fakeCache) Invalidate(ctx context.Context, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

func (c *fakeCache) Close() error { return nil }

func TestProductService_List(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	testProducts := []model.Product{
		{ID: 1, Name: "Laptop Pro", Price: 1500.99, Stock: 15},
		{ID: 2, Name: "Wireless Mouse", Price: 25.50, Stock: 100},
	}

	tests := []struct {
		name          string
		limit         int
		offset        int
		expectedLimit int
		mockReturn    []model.Product
		mockError     error
		expectError   bool
	}{
		{
			name:          "Success with valid pagination",
			limit:         10,
			offset:        0,
			expectedLimit: 10,
			mockReturn:    testProducts,
			mockError:     nil,
			expectError:   false,
		},
		{
			name:          "Zero limit defaults to 100",
			limit:         0,
			offset:        0,
			expectedLimit: 100,
			mockReturn:    testProducts,
			mockError:     nil,
			expectError:   false,
		},
		{
			name:          "Limit above cap is clamped",
			limit:         500,
			offset:        0,
			expectedLimit: 100,
			mockReturn:    testProducts,
			mockError:     nil,
			expectError:   false,
		},
		{
			name:          "Negative offset defaults to 0",
			limit:         10,
			offset:        -10,
			expectedLimit: 10,
			mockReturn:    testProducts,
			mockError:     nil,
			expectError:   false,
		},
		{
			name:          "Repository error",
			limit:         10,
			offset:        0,
			expectedLimit: 10,
			mockReturn:    nil,
			mockError:     errors.New("database error"),
			expectError:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			svc := NewProductService(mockRepo, cache.NewNopCache(), logger)

			mockRepo.On("List", mock.Anything, tt.expectedLimit, mock.AnythingOfType("int")).
				Return(tt.mockReturn, tt.mockError)

			products, err := svc.List(ctx, tt.limit, tt.offset)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, products)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.mockReturn, products)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestProductService_GetByID(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	testProduct := &model.Product{ID: 1, Name: "Laptop Pro", Price: 1500.99, Stock: 15}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, cache.NewNopCache(), logger)

		mockRepo.On("GetByID", mock.Anything, int64(1)).Return(testProduct, nil)

		product, err := svc.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, testProduct, product)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, cache.NewNopCache(), logger)

		mockRepo.On("GetByID", mock.Anything, int64(42)).Return(nil, nil)

		_, err := svc.GetByID(ctx, 42)
		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})

	t.Run("Cache hit skips the repository", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		productCache := newFakeCache()
		svc := NewProductService(mockRepo, productCache, logger)

		productCache.Set(ctx, testProduct)

		product, err := svc.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, *testProduct, *product)

		mockRepo.AssertNotCalled(t, "GetByID")
	})

	t.Run("Cache miss populates the cache", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		productCache := newFakeCache()
		svc := NewProductService(mockRepo, productCache, logger)

		mockRepo.On("GetByID", mock.Anything, int64(1)).Return(testProduct, nil)

		_, err := svc.GetByID(ctx, 1)
		require.NoError(t, err)

		cached, ok := productCache.Get(ctx, 1)
		require.True(t, ok)
		assert.Equal(t, *testProduct, *cached)
	})
}

func TestProductService_Create(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	input := model.ProductInput{Name: "Laptop Pro", Price: 1500.99, Stock: 15}
	created := &model.Product{ID: 1, Name: "Laptop Pro", Price: 1500.99, Stock: 15}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, cache.NewNopCache(), logger)

		mockRepo.On("Create", mock.Anything, input).Return(created, nil)

		product, err := svc.Create(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, created, product)
	})

	t.Run("Repository error", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, cache.NewNopCache(), logger)

		mockRepo.On("Create", mock.Anything, input).Return(nil, errors.New("database error"))

		_, err := svc.Create(ctx, input)
		require.Error(t, err)
	})
}

func TestProductService_Patch(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	current := &model.Product{ID: 1, Name: "A", Price: 1, Stock: 1}

	t.Run("Only supplied fields change", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, cache.NewNopCache(), logger)

		newStock := int64(5)
		expectedInput := model.ProductInput{Name: "A", Price: 1, Stock: 5}
		updated := &model.Product{ID: 1, Name: "A", Price: 1, Stock: 5}

		mockRepo.On("GetByID", mock.Anything, int64(1)).Return(current, nil)
		mockRepo.On("Update", mock.Anything, int64(1), expectedInput).Return(updated, nil)

		product, err := svc.Patch(ctx, 1, model.ProductPatch{Stock: &newStock})
		require.NoError(t, err)
		assert.Equal(t, "A", product.Name)
		assert.Equal(t, float64(1), product.Price)
		assert.Equal(t, int64(5), product.Stock)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Empty patch leaves the record unchanged", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, cache.NewNopCache(), logger)

		expectedInput := model.ProductInput{Name: "A", Price: 1, Stock: 1}

		mockRepo.On("GetByID", mock.Anything, int64(1)).Return(current, nil)
		mockRepo.On("Update", mock.Anything, int64(1), expectedInput).Return(current, nil)

		_, err := svc.Patch(ctx, 1, model.ProductPatch{})
		require.NoError(t, err)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, cache.NewNopCache(), logger)

		mockRepo.On("GetByID", mock.Anything, int64(42)).Return(nil, nil)

		newStock := int64(5)
		_, err := svc.Patch(ctx, 42, model.ProductPatch{Stock: &newStock})
		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})
}

func TestProductService_Delete(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	t.Run("Success invalidates the cache", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		productCache := newFakeCache()
		svc := NewProductService(mockRepo, productCache, logger)

		productCache.Set(ctx, &model.Product{ID: 1, Name: "A", Price: 1, Stock: 1})
		mockRepo.On("Delete", mock.Anything, int64(1)).Return(nil)

		require.NoError(t, svc.Delete(ctx, 1))

		_, ok := productCache.Get(ctx, 1)
		assert.False(t, ok)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, cache.NewNopCache(), logger)

		mockRepo.On("Delete", mock.Anything, int64(42)).Return(model.ErrProductNotFound)

		err := svc.Delete(ctx, 42)
		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})
}
