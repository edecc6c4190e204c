package catalog

import (
	"fmt"
	"math"
	"testing"
	"time"

	"keystore/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func product(id string, mutate func(*entity.Product)) *entity.Product {
	p := &entity.Product{
		ID:          id,
		Title:       "Product " + id,
		Price:       10,
		Platform:    "PC",
		Category:    "games",
		Genres:      []string{"Action"},
		Publisher:   "Acme",
		ReleaseDate: testNow.AddDate(-1, 0, 0),
		Rating:      4,
		Sales:       1000,
	}
	if mutate != nil {
		mutate(p)
	}

	return p
}

func ids(products []*entity.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}

	return out
}

func TestQuery_PriceRangeIsInclusiveOnEffectivePrice(t *testing.T) {
	products := []*entity.Product{
		product("p15", func(p *entity.Product) { p.Price = 15 }),
		product("p25", func(p *entity.Product) { p.Price = 25 }),
		product("p40", func(p *entity.Product) { p.Price = 40 }),
		product("p41", func(p *entity.Product) { p.Price = 41 }),
		product("p50off", func(p *entity.Product) { p.Price = 60; p.Discount = 50 }),
	}

	page := Query(products, entity.QuerySpec{
		Sort:       entity.SortPriceLow,
		PriceRange: &entity.PriceRange{Min: 20, Max: 40},
	}, testNow)

	assert.Equal(t, []string{"p25", "p50off", "p40"}, ids(page.Items))
	assert.Equal(t, 3, page.TotalMatches)
}

func TestQuery_CategoryAllDisablesFilter(t *testing.T) {
	products := []*entity.Product{
		product("g", nil),
		product("s", func(p *entity.Product) { p.Category = "software" }),
	}

	assert.Equal(t, 2, Query(products, entity.QuerySpec{Category: entity.CategoryAll}, testNow).TotalMatches)
	assert.Equal(t, []string{"s"}, ids(Query(products, entity.QuerySpec{Category: "software"}, testNow).Items))
}

func TestQuery_SearchIsCaseInsensitiveOnTitleByDefault(t *testing.T) {
	products := []*entity.Product{
		product("a", func(p *entity.Product) { p.Title = "Cyber Drift" }),
		product("b", func(p *entity.Product) { p.Title = "Farm Days"; p.Publisher = "CyberSoft" }),
	}

	page := Query(products, entity.QuerySpec{Search: "CYBER"}, testNow)
	assert.Equal(t, []string{"a"}, ids(page.Items))

	page = Query(products, entity.QuerySpec{
		Search:       "cyber",
		SearchFields: []entity.SearchField{entity.SearchTitle, entity.SearchPublisher},
	}, testNow)
	assert.ElementsMatch(t, []string{"a", "b"}, ids(page.Items))
}

func TestQuery_SetFilters(t *testing.T) {
	products := []*entity.Product{
		product("pc-action", nil),
		product("ps-rpg", func(p *entity.Product) { p.Platform = "PlayStation"; p.Genres = []string{"RPG"} }),
		product("pc-rpg-indie", func(p *entity.Product) { p.Genres = []string{"RPG", "Indie"}; p.Publisher = "Tiny" }),
	}

	page := Query(products, entity.QuerySpec{Platforms: []string{"PC"}, Genres: []string{"RPG", "Strategy"}}, testNow)
	assert.Equal(t, []string{"pc-rpg-indie"}, ids(page.Items))

	page = Query(products, entity.QuerySpec{Publishers: []string{"Acme"}}, testNow)
	assert.ElementsMatch(t, []string{"pc-action", "ps-rpg"}, ids(page.Items))
}

func TestQuery_UpcomingOnly(t *testing.T) {
	products := []*entity.Product{
		product("released", nil),
		product("today", func(p *entity.Product) { p.ReleaseDate = testNow }),
		product("soon", func(p *entity.Product) { p.ReleaseDate = testNow.Add(48 * time.Hour) }),
	}

	page := Query(products, entity.QuerySpec{UpcomingOnly: true}, testNow)
	assert.Equal(t, []string{"soon"}, ids(page.Items))
}

func TestQuery_SortOptions(t *testing.T) {
	products := []*entity.Product{
		product("a", func(p *entity.Product) { p.Price = 30; p.Sales = 10; p.Discount = 5; p.Rating = 3; p.ReleaseDate = testNow.AddDate(0, -3, 0) }),
		product("b", func(p *entity.Product) { p.Price = 10; p.Sales = 300; p.Discount = 50; p.Rating = 4.5; p.ReleaseDate = testNow.AddDate(0, -1, 0) }),
		product("c", func(p *entity.Product) { p.Price = 20; p.Sales = 200; p.Discount = 0; p.Rating = 4; p.ReleaseDate = testNow.AddDate(-2, 0, 0) }),
	}

	tests := []struct {
		sort entity.SortOption
		want []string
	}{
		{entity.SortPriceLow, []string{"b", "c", "a"}},
		{entity.SortPriceHigh, []string{"a", "c", "b"}},
		{entity.SortNewest, []string{"b", "a", "c"}},
		{entity.SortBestselling, []string{"b", "c", "a"}},
		{entity.SortDiscount, []string{"b", "a", "c"}},
		{entity.SortDiscountHigh, []string{"b", "a", "c"}},
		{entity.SortRating, []string{"b", "c", "a"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			page := Query(products, entity.QuerySpec{Sort: tt.sort}, testNow)
			assert.Equal(t, tt.want, ids(page.Items))
		})
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(products), "input order must not change")
}

func TestQuery_RelevanceTiers(t *testing.T) {
	products := []*entity.Product{
		product("contains", func(p *entity.Product) { p.Title = "Super Star Racer"; p.Sales = 900 }),
		product("prefix-low", func(p *entity.Product) { p.Title = "Star Fleet"; p.Sales = 5 }),
		product("exact", func(p *entity.Product) { p.Title = "Star"; p.Sales = 1 }),
		product("prefix-high", func(p *entity.Product) { p.Title = "Stardew Acres"; p.Sales = 50 }),
	}

	page := Query(products, entity.QuerySpec{Search: "star", Sort: entity.SortRelevance}, testNow)

	assert.Equal(t, []string{"exact", "prefix-high", "prefix-low", "contains"}, ids(page.Items))
}

func TestQuery_FeaturedGivesRecentReleasesABonus(t *testing.T) {
	products := []*entity.Product{
		product("veteran", func(p *entity.Product) { p.Rating = 3.0; p.Sales = 2_000_000 }),
		product("fresh", func(p *entity.Product) { p.Rating = 3.5; p.ReleaseDate = testNow.AddDate(0, 0, -10) }),
		product("future", func(p *entity.Product) { p.Rating = 3.6; p.ReleaseDate = testNow.AddDate(0, 0, 10) }),
	}

	page := Query(products, entity.QuerySpec{}, testNow)

	assert.Equal(t, []string{"fresh", "veteran", "future"}, ids(page.Items))
	assert.InDelta(t, 5.0, FeaturedScore(products[0], testNow, DefaultNewReleaseWindow), 1e-9)
}

func TestQuery_IsStableAcrossRuns(t *testing.T) {
	var products []*entity.Product
	for i := range 50 {
		products = append(products, product(fmt.Sprintf("p%02d", i), func(p *entity.Product) { p.Sales = i % 3 }))
	}

	spec := entity.QuerySpec{Sort: entity.SortBestselling, Page: 2, PageSize: 10}
	first := Query(products, spec, testNow)
	second := Query(products, spec, testNow)

	assert.Equal(t, ids(first.Items), ids(second.Items))
	// Equal sales keep catalog order.
	assert.Equal(t, "p02", ids(Query(products, entity.QuerySpec{Sort: entity.SortBestselling}, testNow).Items)[0])
}

func TestQuery_Pagination(t *testing.T) {
	var products []*entity.Product
	for i := range 45 {
		products = append(products, product(fmt.Sprintf("p%02d", i), nil))
	}

	tests := []struct {
		page     int
		wantLen  int
		wantPage int
	}{
		{page: 1, wantLen: 20, wantPage: 1},
		{page: 2, wantLen: 20, wantPage: 2},
		{page: 3, wantLen: 5, wantPage: 3},
		{page: 4, wantLen: 0, wantPage: 4},
		{page: 0, wantLen: 20, wantPage: 1},
		{page: -3, wantLen: 20, wantPage: 1},
		{page: math.MaxInt, wantLen: 0, wantPage: math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			page := Query(products, entity.QuerySpec{Page: tt.page}, testNow)

			require.NotNil(t, page.Items)
			assert.Len(t, page.Items, tt.wantLen)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, 45, page.TotalMatches)
			assert.Equal(t, 3, page.TotalPages)
			assert.Equal(t, DefaultPageSize, page.PageSize)
		})
	}

	huge := Query(products, entity.QuerySpec{Page: 2, PageSize: math.MaxInt}, testNow)
	assert.Empty(t, huge.Items)
	assert.Equal(t, 1, huge.TotalPages)
}

func TestQuery_EmptyCatalog(t *testing.T) {
	page := Query(nil, entity.QuerySpec{Search: "anything"}, testNow)

	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalMatches)
	assert.Zero(t, page.TotalPages)
}

func TestBuildFacets(t *testing.T) {
	products := []*entity.Product{
		product("a", func(p *entity.Product) { p.Price = 50; p.Discount = 10; p.Genres = []string{"RPG", "Action"} }),
		product("b", func(p *entity.Product) { p.Price = 5; p.Platform = "Xbox"; p.Category = "software"; p.Publisher = "Zed" }),
	}

	facets := BuildFacets(products)

	assert.Equal(t, []string{"games", "software"}, facets.Categories)
	assert.Equal(t, []string{"PC", "Xbox"}, facets.Platforms)
	assert.Equal(t, []string{"Action", "RPG"}, facets.Genres)
	assert.Equal(t, []string{"Acme", "Zed"}, facets.Publishers)
	assert.Equal(t, entity.PriceRange{Min: 5, Max: 45}, facets.PriceRange)

	assert.Equal(t, entity.PriceRange{}, BuildFacets(nil).PriceRange)
}
