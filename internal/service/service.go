package service

import (
	"context"

	"mini-mercado/internal/model"
)

// ProductService defines operations for inventory management.
type ProductService interface {
	// List retrieves products with pagination.
	List(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Create persists a new product and returns it with its assigned id.
	Create(ctx context.Context, input model.ProductInput) (*model.Product, error)

	// Update replaces all editable fields of an existing product.
	Update(ctx context.Context, id int64, input model.ProductInput) (*model.Product, error)

	// Patch updates only the supplied fields of an existing product.
	Patch(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id int64) error
}

// AuthService defines operations for registration and login.
type AuthService interface {
	// Register creates an account and returns its public view. The
	// password is hashed before it is stored and never echoed back.
	Register(ctx context.Context, email, password string) (*model.UserResponse, error)

	// Login verifies credentials and issues a bearer token.
	Login(ctx context.Context, email, password string) (*model.TokenResponse, error)
}
