package repository

import (
	"context"
	"errors"

	"keystore/internal/domain/entity"
)

// ErrProductNotFound is returned when a product ID is not in the catalog.
var ErrProductNotFound = errors.New("product not found")

// CatalogRepository is the read-only catalog feed.
type CatalogRepository interface {
	// ListProducts returns every product in feed order.
	ListProducts(ctx context.Context) ([]*entity.Product, error)

	// FindProduct retrieves a single product by ID.
	FindProduct(ctx context.Context, id string) (*entity.Product, error)

	// ListPublishers returns every publisher record.
	ListPublishers(ctx context.Context) ([]*entity.Publisher, error)

	// SeedUsers returns the demo accounts shipped with the feed.
	SeedUsers(ctx context.Context) ([]*entity.SeedUser, error)
}
