package catalog

import (
	"math"
	"slices"

	"keystore/internal/domain/entity"
)

// Facets lists the values available to the filter sidebar.
type Facets struct {
	Categories []string          `json:"categories"`
	Platforms  []string          `json:"platforms"`
	Genres     []string          `json:"genres"`
	Publishers []string          `json:"publishers"`
	PriceRange entity.PriceRange `json:"priceRange"`
}

// BuildFacets collects sorted distinct values and the effective price bounds.
func BuildFacets(products []*entity.Product) Facets {
	categories := map[string]struct{}{}
	platforms := map[string]struct{}{}
	genres := map[string]struct{}{}
	publishers := map[string]struct{}{}

	bounds := entity.PriceRange{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, p := range products {
		addNonEmpty(categories, p.Category)
		addNonEmpty(platforms, p.Platform)
		addNonEmpty(publishers, p.Publisher)
		for _, g := range p.Genres {
			addNonEmpty(genres, g)
		}

		price := p.EffectivePrice()
		bounds.Min = min(bounds.Min, price)
		bounds.Max = max(bounds.Max, price)
	}

	if len(products) == 0 {
		bounds = entity.PriceRange{}
	}

	return Facets{
		Categories: sortedKeys(categories),
		Platforms:  sortedKeys(platforms),
		Genres:     sortedKeys(genres),
		Publishers: sortedKeys(publishers),
		PriceRange: entity.PriceRange{
			Min: entity.RoundCents(bounds.Min),
			Max: entity.RoundCents(bounds.Max),
		},
	}
}

func addNonEmpty(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}
