// Package catalog implements the storefront listing pipeline: filter, sort and
// paginate an in-memory product collection for one QuerySpec.
package catalog

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"keystore/internal/domain/entity"
)

const (
	// DefaultPageSize is used when a QuerySpec leaves PageSize unset.
	DefaultPageSize = 20

	// DefaultNewReleaseWindow is how recent a release must be for the featured bonus.
	DefaultNewReleaseWindow = 30 * 24 * time.Hour

	newReleaseBonus = 2.0
)

// Page is one page of a filtered, sorted listing.
type Page struct {
	Items        []*entity.Product `json:"items"`
	TotalMatches int               `json:"totalMatches"`
	TotalPages   int               `json:"totalPages"`
	Page         int               `json:"page"`
	PageSize     int               `json:"pageSize"`
}

// Options tune the pipeline without changing its contract.
type Options struct {
	NewReleaseWindow time.Duration
}

// Query runs the pipeline with default options.
func Query(products []*entity.Product, spec entity.QuerySpec, now time.Time) Page {
	return QueryWithOptions(products, spec, now, Options{})
}

// QueryWithOptions filters products by spec, orders them by spec.Sort and
// slices out spec.Page. The input slice is never reordered.
func QueryWithOptions(products []*entity.Product, spec entity.QuerySpec, now time.Time, opts Options) Page {
	pageSize := spec.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page := max(spec.Page, 1)

	matches := Filter(products, spec, now)
	Sort(matches, spec, now, opts)

	totalPages := len(matches) / pageSize
	if len(matches)%pageSize != 0 {
		totalPages++
	}
	items := []*entity.Product{}
	// Compare page numbers before multiplying so a huge ?page= cannot overflow.
	if page <= totalPages {
		start := (page - 1) * pageSize
		items = matches[start:min(start+pageSize, len(matches))]
	}

	return Page{
		Items:        items,
		TotalMatches: len(matches),
		TotalPages:   totalPages,
		Page:         page,
		PageSize:     pageSize,
	}
}

// Filter returns the products matching every predicate of spec, in input order.
func Filter(products []*entity.Product, spec entity.QuerySpec, now time.Time) []*entity.Product {
	f := newFilter(spec, now)

	out := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		if f.match(p) {
			out = append(out, p)
		}
	}

	return out
}

type filter struct {
	spec       entity.QuerySpec
	now        time.Time
	needle     string
	fields     []entity.SearchField
	platforms  map[string]struct{}
	genres     map[string]struct{}
	publishers map[string]struct{}
}

func newFilter(spec entity.QuerySpec, now time.Time) *filter {
	fields := spec.SearchFields
	if len(fields) == 0 {
		fields = []entity.SearchField{entity.SearchTitle}
	}

	return &filter{
		spec:       spec,
		now:        now,
		needle:     strings.ToLower(strings.TrimSpace(spec.Search)),
		fields:     fields,
		platforms:  toSet(spec.Platforms),
		genres:     toSet(spec.Genres),
		publishers: toSet(spec.Publishers),
	}
}

func (f *filter) match(p *entity.Product) bool {
	if f.spec.Category != "" && f.spec.Category != entity.CategoryAll && p.Category != f.spec.Category {
		return false
	}

	if f.needle != "" && !f.matchesSearch(p) {
		return false
	}

	if r := f.spec.PriceRange; r != nil {
		price := p.EffectivePrice()
		if price < r.Min || price > r.Max {
			return false
		}
	}

	if len(f.platforms) > 0 && !contains(f.platforms, p.Platform) {
		return false
	}

	if len(f.genres) > 0 && !slices.ContainsFunc(p.Genres, func(g string) bool { return contains(f.genres, g) }) {
		return false
	}

	if len(f.publishers) > 0 && !contains(f.publishers, p.Publisher) {
		return false
	}

	if f.spec.UpcomingOnly && !p.IsUpcoming(f.now) {
		return false
	}

	return true
}

func (f *filter) matchesSearch(p *entity.Product) bool {
	for _, field := range f.fields {
		switch field {
		case entity.SearchTitle:
			if containsFold(p.Title, f.needle) {
				return true
			}
		case entity.SearchDescription:
			if containsFold(p.Description, f.needle) {
				return true
			}
		case entity.SearchPublisher:
			if containsFold(p.Publisher, f.needle) {
				return true
			}
		case entity.SearchGenres:
			if slices.ContainsFunc(p.Genres, func(g string) bool { return containsFold(g, f.needle) }) {
				return true
			}
		}
	}

	return false
}

// Sort orders products in place by spec.Sort. Equal keys keep their input order.
func Sort(products []*entity.Product, spec entity.QuerySpec, now time.Time, opts Options) {
	slices.SortStableFunc(products, comparator(spec, now, opts))
}

func comparator(spec entity.QuerySpec, now time.Time, opts Options) func(a, b *entity.Product) int {
	switch spec.Sort {
	case entity.SortPriceLow:
		return func(a, b *entity.Product) int { return cmp.Compare(a.EffectivePrice(), b.EffectivePrice()) }
	case entity.SortPriceHigh:
		return func(a, b *entity.Product) int { return cmp.Compare(b.EffectivePrice(), a.EffectivePrice()) }
	case entity.SortNewest:
		return func(a, b *entity.Product) int { return b.ReleaseDate.Compare(a.ReleaseDate) }
	case entity.SortBestselling:
		return bySalesDesc
	case entity.SortDiscount, entity.SortDiscountHigh:
		return func(a, b *entity.Product) int { return cmp.Compare(b.Discount, a.Discount) }
	case entity.SortRating:
		return func(a, b *entity.Product) int { return cmp.Compare(b.Rating, a.Rating) }
	case entity.SortRelevance:
		needle := strings.ToLower(strings.TrimSpace(spec.Search))
		return func(a, b *entity.Product) int {
			if c := cmp.Compare(relevanceTier(a, needle), relevanceTier(b, needle)); c != 0 {
				return c
			}

			return bySalesDesc(a, b)
		}
	default:
		window := opts.NewReleaseWindow
		if window <= 0 {
			window = DefaultNewReleaseWindow
		}

		return func(a, b *entity.Product) int {
			return cmp.Compare(FeaturedScore(b, now, window), FeaturedScore(a, now, window))
		}
	}
}

func bySalesDesc(a, b *entity.Product) int {
	return cmp.Compare(b.Sales, a.Sales)
}

// relevanceTier ranks exact title match 0, prefix 1, substring 2, anything else 3.
func relevanceTier(p *entity.Product, needle string) int {
	if needle == "" {
		return 3
	}

	title := strings.ToLower(p.Title)
	switch {
	case title == needle:
		return 0
	case strings.HasPrefix(title, needle):
		return 1
	case strings.Contains(title, needle):
		return 2
	default:
		return 3
	}
}

// FeaturedScore is sales/1e6 + rating, plus 2 for releases within window before now.
func FeaturedScore(p *entity.Product, now time.Time, window time.Duration) float64 {
	score := float64(p.Sales)/1_000_000 + p.Rating

	age := now.Sub(p.ReleaseDate)
	if age >= 0 && age <= window {
		score += newReleaseBonus
	}

	return score
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}

	return set
}

func contains(set map[string]struct{}, v string) bool {
	_, ok := set[v]

	return ok
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}
