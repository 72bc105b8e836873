package repository

import (
	"context"
	"errors"
	"fmt"

	"mini-mercado/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// List retrieves products in id order with pagination support.
func (r *productRepository) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT id, name, price, stock
		FROM products
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT id, name, price, stock
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// productInsertLock keys the advisory lock that serialises product id
// assignment.
const productInsertLock = 824001

// Create assigns the next id (max existing id + 1, or 1 when the table
// is empty) and persists the product. MAX(id) cannot see other
// transactions' uncommitted inserts, so id assignment runs under a
// transaction-level advisory lock; concurrent creates queue on the
// lock instead of colliding on the primary key. The lock is released
// when the transaction ends.
func (r *productRepository) Create(ctx context.Context, input model.ProductInput) (*model.Product, error) {
	query := `
		INSERT INTO products (id, name, price, stock)
		SELECT COALESCE(MAX(id), 0) + 1, $1, $2, $3
		FROM products
		RETURNING id
	`

	p := model.Product{
		Name:  input.Name,
		Price: input.Price,
		Stock: input.Stock,
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", productInsertLock); err != nil {
		r.logger.Error().Err(err).Msg("failed to lock product id assignment")
		return nil, fmt.Errorf("failed to lock product id assignment: %w", err)
	}

	if err := tx.QueryRow(ctx, query, input.Name, input.Price, input.Stock).Scan(&p.ID); err != nil {
		r.logger.Error().Err(err).Str("name", input.Name).Msg("failed to insert product")
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit product insert")
		return nil, fmt.Errorf("failed to commit product insert: %w", err)
	}

	r.logger.Debug().Int64("product_id", p.ID).Msg("product created")

	return &p, nil
}

// Update replaces the editable fields of the product.
func (r *productRepository) Update(ctx context.Context, id int64, input model.ProductInput) (*model.Product, error) {
	query := `
		UPDATE products
		SET name = $2, price = $3, stock = $4
		WHERE id = $1
		RETURNING id, name, price, stock
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id, input.Name, input.Price, input.Stock).
		Scan(&p.ID, &p.Name, &p.Price, &p.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found for update")
			return nil, model.ErrProductNotFound
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &p, nil
}

// Delete removes the product.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().Int64("product_id", id).Msg("product not found for delete")
		return model.ErrProductNotFound
	}

	return nil
}
