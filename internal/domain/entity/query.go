package entity

// SortOption selects the ordering of a catalog listing.
type SortOption string

const (
	SortFeatured     SortOption = "featured"
	SortNewest       SortOption = "newest"
	SortPriceLow     SortOption = "price-low"
	SortPriceHigh    SortOption = "price-high"
	SortBestselling  SortOption = "bestselling"
	SortDiscount     SortOption = "discount"
	SortDiscountHigh SortOption = "discount-high"
	SortRating       SortOption = "rating"
	SortRelevance    SortOption = "relevance"
)

// CategoryAll disables the category filter.
const CategoryAll = "all"

// SearchField names a product field matched by free-text search.
type SearchField string

const (
	SearchTitle       SearchField = "title"
	SearchDescription SearchField = "description"
	SearchPublisher   SearchField = "publisher"
	SearchGenres      SearchField = "genres"
)

// PriceRange bounds the effective price, inclusive on both ends.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// QuerySpec holds the filter, sort and page parameters of one catalog view.
type QuerySpec struct {
	Category     string
	Search       string
	SearchFields []SearchField
	Sort         SortOption
	PriceRange   *PriceRange // nil means unbounded
	Platforms    []string
	Genres       []string
	Publishers   []string
	UpcomingOnly bool
	Page         int
	PageSize     int
}
