package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"mini-mercado/internal/model"

	"github.com/rs/zerolog"
)

// fileProductRepository implements ProductRepository on a single JSON
// document holding the full product array. Every mutation rewrites the
// document wholesale. A mutex serialises read-modify-write cycles so
// concurrent requests cannot race on the file.
type fileProductRepository struct {
	path     string
	mu       sync.Mutex
	products []model.Product
	logger   zerolog.Logger
}

// NewFileProductRepository creates a JSON-file-backed product
// repository. A missing or empty file starts an empty inventory.
func NewFileProductRepository(path string, logger zerolog.Logger) (ProductRepository, error) {
	r := &fileProductRepository{
		path:   path,
		logger: logger.With().Str("repository", "product-file").Logger(),
	}

	if err := r.load(); err != nil {
		return nil, err
	}

	r.logger.Info().
		Str("path", path).
		Int("count", len(r.products)).
		Msg("inventory file loaded")

	return r, nil
}

// load reads the inventory document from disk.
func (r *fileProductRepository) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.products = []model.Product{}
			return nil
		}
		return fmt.Errorf("failed to read inventory file: %w", err)
	}

	if len(data) == 0 {
		r.products = []model.Product{}
		return nil
	}

	if err := json.Unmarshal(data, &r.products); err != nil {
		return fmt.Errorf("failed to parse inventory file: %w", err)
	}

	return nil
}

// flush rewrites the full inventory document. The write goes to a
// temporary file first so a crash mid-write cannot corrupt the
// document.
func (r *fileProductRepository) flush() error {
	data, err := json.MarshalIndent(r.products, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write inventory file: %w", err)
	}

	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace inventory file: %w", err)
	}

	return nil
}

// nextID returns max existing id + 1, or 1 when the inventory is empty.
func (r *fileProductRepository) nextID() int64 {
	var max int64
	for _, p := range r.products {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

// List retrieves products in insertion order with pagination support.
func (r *fileProductRepository) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if offset >= len(r.products) {
		return nil, nil
	}

	end := offset + limit
	if end > len(r.products) {
		end = len(r.products)
	}

	out := make([]model.Product, end-offset)
	copy(out, r.products[offset:end])
	return out, nil
}

// GetByID retrieves a single product by its ID.
func (r *fileProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}

	r.logger.Debug().Int64("product_id", id).Msg("product not found")
	return nil, nil
}

// Create assigns the next id, appends the product and persists the
// document before returning.
func (r *fileProductRepository) Create(ctx context.Context, input model.ProductInput) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := model.Product{
		ID:    r.nextID(),
		Name:  input.Name,
		Price: input.Price,
		Stock: input.Stock,
	}

	r.products = append(r.products, p)
	if err := r.flush(); err != nil {
		// Roll the in-memory state back so it matches the document.
		r.products = r.products[:len(r.products)-1]
		r.logger.Error().Err(err).Msg("failed to persist created product")
		return nil, err
	}

	r.logger.Debug().Int64("product_id", p.ID).Msg("product created")

	return &p, nil
}

// Update replaces the editable fields of the product.
func (r *fileProductRepository) Update(ctx context.Context, id int64, input model.ProductInput) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID != id {
			continue
		}

		previous := r.products[i]
		r.products[i].Name = input.Name
		r.products[i].Price = input.Price
		r.products[i].Stock = input.Stock

		if err := r.flush(); err != nil {
			r.products[i] = previous
			r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to persist updated product")
			return nil, err
		}

		updated := r.products[i]
		return &updated, nil
	}

	r.logger.Debug().Int64("product_id", id).Msg("product not found for update")
	return nil, model.ErrProductNotFound
}

// Delete removes the product.
func (r *fileProductRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID != id {
			continue
		}

		remaining := make([]model.Product, 0, len(r.products)-1)
		remaining = append(remaining, r.products[:i]...)
		remaining = append(remaining, r.products[i+1:]...)

		previous := r.products
		r.products = remaining

		if err := r.flush(); err != nil {
			r.products = previous
			r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to persist product deletion")
			return err
		}

		return nil
	}

	r.logger.Debug().Int64("product_id", id).Msg("product not found for delete")
	return model.ErrProductNotFound
}

// ensure the file repository satisfies the interface.
var _ ProductRepository = (*fileProductRepository)(nil)
