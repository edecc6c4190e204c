package handler

import (
	"log/slog"
	"math"
	"net/http"
	"strings"

	"keystore/internal/delivery/api/response"
	"keystore/internal/domain/entity"
	"keystore/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const maxPageSize = 100

var sortOptions = map[string]entity.SortOption{
	string(entity.SortFeatured):     entity.SortFeatured,
	string(entity.SortNewest):       entity.SortNewest,
	string(entity.SortPriceLow):     entity.SortPriceLow,
	string(entity.SortPriceHigh):    entity.SortPriceHigh,
	string(entity.SortBestselling):  entity.SortBestselling,
	string(entity.SortDiscount):     entity.SortDiscount,
	string(entity.SortDiscountHigh): entity.SortDiscountHigh,
	string(entity.SortRating):       entity.SortRating,
	string(entity.SortRelevance):    entity.SortRelevance,
}

var searchFields = map[string]entity.SearchField{
	string(entity.SearchTitle):       entity.SearchTitle,
	string(entity.SearchDescription): entity.SearchDescription,
	string(entity.SearchPublisher):   entity.SearchPublisher,
	string(entity.SearchGenres):      entity.SearchGenres,
}

// CatalogHandlerParams holds dependencies for CatalogHandler, injected by Fx.
type CatalogHandlerParams struct {
	fx.In

	CatalogUC usecase.CatalogUsecase
	Logger    *slog.Logger
}

// CatalogHandler serves the public catalog.
type CatalogHandler struct {
	catalogUC usecase.CatalogUsecase
	logger    *slog.Logger
}

// NewCatalogHandler is the constructor for CatalogHandler.
func NewCatalogHandler(params CatalogHandlerParams) *CatalogHandler {
	return &CatalogHandler{
		catalogUC: params.CatalogUC,
		logger:    params.Logger,
	}
}

// ListProducts runs the listing pipeline for the query string.
//
//	?category=games&search=quest&searchField=title&sort=price-low
//	&minPrice=10&maxPrice=50&platform=PC&genre=RPG&publisher=...
//	&upcoming=true&page=2&pageSize=20
//
// List parameters accept repeated keys or comma-separated values.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	spec, fields := parseQuerySpec(c)
	if len(fields) > 0 {
		return response.ValidationError(c, fields)
	}

	page, err := h.catalogUC.Browse(c.Request().Context(), spec)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, page)
}

// GetProduct returns one product.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	product, err := h.catalogUC.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, product)
}

// Facets returns the filter sidebar values.
func (h *CatalogHandler) Facets(c echo.Context) error {
	facets, err := h.catalogUC.Facets(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, facets)
}

// ListPublishers returns every publisher.
func (h *CatalogHandler) ListPublishers(c echo.Context) error {
	publishers, err := h.catalogUC.ListPublishers(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, publishers)
}

// parseQuerySpec reads a QuerySpec from the query string. Invalid parameters
// are reported per field.
func parseQuerySpec(c echo.Context) (entity.QuerySpec, map[string]string) {
	var (
		spec       entity.QuerySpec
		sort       string
		fields     []string
		platforms  []string
		genres     []string
		publishers []string
		minPrice   float64
		maxPrice   = math.Inf(1)
	)

	invalid := map[string]string{}
	errs := echo.QueryParamsBinder(c).
		FailFast(false).
		String("category", &spec.Category).
		String("search", &spec.Search).
		String("sort", &sort).
		Strings("searchField", &fields).
		Strings("platform", &platforms).
		Strings("genre", &genres).
		Strings("publisher", &publishers).
		Float64("minPrice", &minPrice).
		Float64("maxPrice", &maxPrice).
		Bool("upcoming", &spec.UpcomingOnly).
		Int("page", &spec.Page).
		Int("pageSize", &spec.PageSize).
		BindErrors()
	for _, err := range errs {
		var bindErr *echo.BindingError
		if errors.As(err, &bindErr) {
			invalid[bindErr.Field] = "type"
		}
	}

	if sort != "" {
		option, ok := sortOptions[sort]
		if !ok {
			invalid["sort"] = "oneof"
		}
		spec.Sort = option
	}

	for _, f := range splitList(fields) {
		field, ok := searchFields[f]
		if !ok {
			invalid["searchField"] = "oneof"

			continue
		}
		spec.SearchFields = append(spec.SearchFields, field)
	}

	query := c.QueryParams()
	if query.Has("minPrice") || query.Has("maxPrice") {
		// NaN compares false both ways and would switch the price filter off.
		if math.IsNaN(minPrice) {
			invalid["minPrice"] = "type"
		}
		if math.IsNaN(maxPrice) {
			invalid["maxPrice"] = "type"
		}
		if minPrice > maxPrice {
			invalid["maxPrice"] = "gtefield=minPrice"
		}
		spec.PriceRange = &entity.PriceRange{Min: minPrice, Max: maxPrice}
	}

	if spec.PageSize < 0 || spec.PageSize > maxPageSize {
		invalid["pageSize"] = "max=100"
	}

	spec.Platforms = splitList(platforms)
	spec.Genres = splitList(genres)
	spec.Publishers = splitList(publishers)

	return spec, invalid
}

// splitList flattens repeated and comma-separated values, dropping blanks.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	return out
}
