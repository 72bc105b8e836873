package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mini-mercado/internal/cache"
	"mini-mercado/internal/model"
	"mini-mercado/internal/repository"

	"github.com/rs/zerolog"
)

const (
	defaultLimit = 100
	maxLimit     = 100

	// storeTimeout bounds every persistence call so a hung backend
	// surfaces as StoreUnavailable instead of a stuck request.
	storeTimeout = 5 * time.Second
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	cache       cache.ProductCache
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, productCache cache.ProductCache, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		cache:       productCache,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// storeErr maps timeouts on persistence calls to ErrStoreUnavailable.
func storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return model.ErrStoreUnavailable
	}
	return err
}

// List retrieves products with pagination.
func (s *productService) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	products, err := s.productRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to list products")
		return nil, storeErr(fmt.Errorf("failed to list products: %w", err))
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("listed products")

	return products, nil
}

// GetByID retrieves a single product, going through the cache first.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if cached, ok := s.cache.Get(ctx, id); ok {
		s.logger.Debug().Int64("product_id", id).Msg("product cache hit")
		return cached, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	product, err := s.productRepo.GetByID(callCtx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product")
		return nil, storeErr(fmt.Errorf("failed to get product: %w", err))
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	s.cache.Set(ctx, product)

	return product, nil
}

// Create persists a new product and returns it with its assigned id.
func (s *productService) Create(ctx context.Context, input model.ProductInput) (*model.Product, error) {
	callCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	product, err := s.productRepo.Create(callCtx, input)
	if err != nil {
		s.logger.Error().Err(err).Str("name", input.Name).Msg("failed to create product")
		return nil, storeErr(fmt.Errorf("failed to create product: %w", err))
	}

	s.cache.Set(ctx, product)

	s.logger.Info().Int64("product_id", product.ID).Msg("product created")

	return product, nil
}

// Update replaces all editable fields of an existing product.
func (s *productService) Update(ctx context.Context, id int64, input model.ProductInput) (*model.Product, error) {
	callCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	product, err := s.productRepo.Update(callCtx, id, input)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return nil, storeErr(fmt.Errorf("failed to update product: %w", err))
	}

	s.cache.Set(ctx, product)

	s.logger.Info().Int64("product_id", id).Msg("product updated")

	return product, nil
}

// Patch updates only the supplied fields of an existing product. The
// current record is read first and unsupplied fields carry over.
func (s *productService) Patch(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	callCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	current, err := s.productRepo.GetByID(callCtx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to read product for patch")
		return nil, storeErr(fmt.Errorf("failed to patch product: %w", err))
	}
	if current == nil {
		return nil, model.ErrProductNotFound
	}

	patch.Apply(current)

	input := model.ProductInput{
		Name:  current.Name,
		Price: current.Price,
		Stock: current.Stock,
	}

	return s.Update(ctx, id, input)
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id int64) error {
	callCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := s.productRepo.Delete(callCtx, id); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			return err
		}
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return storeErr(fmt.Errorf("failed to delete product: %w", err))
	}

	s.cache.Invalidate(ctx, id)

	s.logger.Info().Int64("product_id", id).Msg("product deleted")

	return nil
}
