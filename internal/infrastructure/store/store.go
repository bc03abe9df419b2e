// Package store provides persistence for products, users and orders,
// with an in-memory driver for tests and single-node runs and a
// PostgreSQL driver for real deployments.
package store

import (
	"context"
	"errors"

	"github.com/example/grocery-storefront/internal/model"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrInsufficient   = errors.New("insufficient stock")
)

// Store is the persistence surface the services depend on.
type Store interface {
	// Products
	Product(ctx context.Context, id string) (*model.Product, error)
	Products(ctx context.Context) ([]*model.Product, error)
	SaveProduct(ctx context.Context, p *model.Product) error
	// AdjustStock atomically changes a product's stock by delta,
	// failing with ErrInsufficient if the result would go negative.
	AdjustStock(ctx context.Context, productID string, delta int) error

	// Users
	User(ctx context.Context, id string) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	SaveUser(ctx context.Context, u *model.User) error

	// Orders
	SaveOrder(ctx context.Context, o *model.Order) error
	OrdersByUser(ctx context.Context, userID string) ([]*model.Order, error)
}
