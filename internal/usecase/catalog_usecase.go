// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"keystore/internal/catalog"
	"keystore/internal/domain/entity"
)

// CatalogUsecase serves read-only catalog views.
type CatalogUsecase interface {
	// Browse runs the filter/sort/paginate pipeline. Unset page size and
	// search fields fall back to the configured defaults.
	Browse(ctx context.Context, spec entity.QuerySpec) (*catalog.Page, error)
	GetProduct(ctx context.Context, productID string) (*entity.Product, error)
	Facets(ctx context.Context) (*catalog.Facets, error)
	ListPublishers(ctx context.Context) ([]*entity.Publisher, error)
}
