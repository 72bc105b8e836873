package repository

import (
	"context"

	"mini-mercado/internal/model"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves products in id order with pagination support.
	List(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns (nil, nil)
	// when the product does not exist.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Create assigns the next id, persists the product and returns the
	// stored record.
	Create(ctx context.Context, input model.ProductInput) (*model.Product, error)

	// Update replaces the editable fields of the product. Returns
	// model.ErrProductNotFound when the id is absent.
	Update(ctx context.Context, id int64, input model.ProductInput) (*model.Product, error)

	// Delete removes the product. Returns model.ErrProductNotFound
	// when the id is absent.
	Delete(ctx context.Context, id int64) error
}

// UserRepository defines the interface for credential data access operations.
type UserRepository interface {
	// FindByEmail retrieves a user by email. Returns (nil, nil) when
	// no user has this email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create persists a user with the given password hash. Returns
	// model.ErrDuplicateEmail when the email is already registered.
	Create(ctx context.Context, email, passwordHash string) (*model.User, error)
}
