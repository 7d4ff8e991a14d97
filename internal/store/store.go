package store

import (
	"context"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user and fills in its generated ID.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if absent.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by normalized email. Returns ErrUserNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns every user ordered by ID. An empty store yields an empty slice.
	List(ctx context.Context) ([]*domain.User, error)

	// Update applies a partial update and returns the stored result.
	// Returns ErrUserNotFound if no row matched the ID and
	// ErrEmailExists if the new email is taken.
	Update(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error)

	// Delete removes a user. Returns ErrUserNotFound if no row was removed.
	Delete(ctx context.Context, id int64) error
}

// ProductStore defines the interface for product data persistence.
type ProductStore interface {
	// Create saves a new product and fills in its generated ID.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by ID. Returns ErrProductNotFound if absent.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// List returns every product ordered by ID.
	List(ctx context.Context) ([]*domain.Product, error)

	// Update applies a partial update and returns the stored result.
	// Returns ErrProductNotFound if no row matched the ID.
	Update(ctx context.Context, id int64, upd domain.ProductUpdate) (*domain.Product, error)

	// Delete removes a product. Returns ErrProductNotFound if no row was removed.
	Delete(ctx context.Context, id int64) error
}
