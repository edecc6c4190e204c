package impl

import (
	"context"
	"log/slog"
	"time"

	"keystore/config"
	"keystore/internal/catalog"
	deliverycontext "keystore/internal/delivery/context"
	"keystore/internal/domain/entity"
	"keystore/internal/domain/repository"
	"keystore/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	catalogRepo  repository.CatalogRepository
	pageSize     int
	searchFields []entity.SearchField
	options      catalog.Options
	now          func() time.Time
	logger       *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	CatalogRepo repository.CatalogRepository
	Config      *config.Config
	Logger      *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	srv := &catalogService{
		catalogRepo:  params.CatalogRepo,
		pageSize:     catalog.DefaultPageSize,
		searchFields: []entity.SearchField{entity.SearchTitle},
		options:      catalog.Options{NewReleaseWindow: catalog.DefaultNewReleaseWindow},
		now:          time.Now,
		logger:       params.Logger,
	}

	if cfg := params.Config.Catalog; cfg != nil {
		if cfg.PageSize > 0 {
			srv.pageSize = cfg.PageSize
		}
		if len(cfg.SearchFields) > 0 {
			srv.searchFields = make([]entity.SearchField, 0, len(cfg.SearchFields))
			for _, f := range cfg.SearchFields {
				srv.searchFields = append(srv.searchFields, entity.SearchField(f))
			}
		}
		if cfg.NewReleaseWindow > 0 {
			srv.options.NewReleaseWindow = cfg.NewReleaseWindow
		}
	}

	return srv
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Browse runs the listing pipeline over the whole feed.
func (srv *catalogService) Browse(ctx context.Context, spec entity.QuerySpec) (*catalog.Page, error) {
	products, err := srv.catalogRepo.ListProducts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	if spec.PageSize <= 0 {
		spec.PageSize = srv.pageSize
	}
	if len(spec.SearchFields) == 0 {
		spec.SearchFields = srv.searchFields
	}

	page := catalog.QueryWithOptions(products, spec, srv.now(), srv.options)

	srv.log(ctx).Debug("Catalog browsed",
		slog.String("category", spec.Category),
		slog.String("sort", string(spec.Sort)),
		slog.Int("matches", page.TotalMatches),
	)

	return &page, nil
}

// GetProduct returns one product.
func (srv *catalogService) GetProduct(ctx context.Context, productID string) (*entity.Product, error) {
	return findProduct(ctx, srv.catalogRepo, productID)
}

// Facets computes the filter sidebar values.
func (srv *catalogService) Facets(ctx context.Context) (*catalog.Facets, error) {
	products, err := srv.catalogRepo.ListProducts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	facets := catalog.BuildFacets(products)

	return &facets, nil
}

// ListPublishers returns every publisher.
func (srv *catalogService) ListPublishers(ctx context.Context) ([]*entity.Publisher, error) {
	publishers, err := srv.catalogRepo.ListPublishers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list publishers")
	}

	return publishers, nil
}
