package entity

import "slices"

// CartLine is one product-plus-quantity entry in a cart. Display fields are
// copied from the product when the line is created.
type CartLine struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Discount  int     `json:"discount"`
	Platform  string  `json:"platform"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// EffectivePrice is the discounted unit price of the line.
func (l CartLine) EffectivePrice() float64 {
	return EffectivePrice(l.Price, l.Discount)
}

// LineTotal is the discounted unit price times quantity.
func (l CartLine) LineTotal() float64 {
	return l.EffectivePrice() * float64(l.Quantity)
}

// NewCartLine builds a cart line from a catalog product.
func NewCartLine(p *Product, quantity int) CartLine {
	return CartLine{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Discount:  p.Discount,
		Platform:  p.Platform,
		Image:     p.Image,
		Quantity:  quantity,
	}
}

// Cart holds at most one line per product.
type Cart []CartLine

// Merge adds delta to the quantity of the line matching line.ProductID, flooring
// at 1. When no line matches, line is appended with quantity max(delta, 1).
// The receiver is not modified.
func (c Cart) Merge(line CartLine, delta int) Cart {
	out := slices.Clone(c)
	if idx := out.index(line.ProductID); idx >= 0 {
		out[idx].Quantity = max(out[idx].Quantity+delta, 1)

		return out
	}

	line.Quantity = max(delta, 1)

	return append(out, line)
}

// MergeCart folds every line of other into c, summing quantities per product.
func (c Cart) MergeCart(other Cart) Cart {
	out := slices.Clone(c)
	for _, line := range other {
		out = out.Merge(line, line.Quantity)
	}

	return out
}

// Remove drops the line for productID. Missing products are a no-op.
func (c Cart) Remove(productID string) Cart {
	return slices.DeleteFunc(slices.Clone(c), func(l CartLine) bool {
		return l.ProductID == productID
	})
}

// Find returns the line for productID.
func (c Cart) Find(productID string) (CartLine, bool) {
	if idx := c.index(productID); idx >= 0 {
		return c[idx], true
	}

	return CartLine{}, false
}

// ItemCount sums quantities across lines.
func (c Cart) ItemCount() int {
	total := 0
	for _, l := range c {
		total += l.Quantity
	}

	return total
}

// Subtotal sums discounted line totals, unrounded.
func (c Cart) Subtotal() float64 {
	total := 0.0
	for _, l := range c {
		total += l.LineTotal()
	}

	return total
}

func (c Cart) index(productID string) int {
	return slices.IndexFunc(c, func(l CartLine) bool {
		return l.ProductID == productID
	})
}

// Wishlist is a set of product identifiers.
type Wishlist []string

// Toggle adds productID when absent and removes it when present.
func (w Wishlist) Toggle(productID string) Wishlist {
	if w.Contains(productID) {
		return slices.DeleteFunc(slices.Clone(w), func(id string) bool { return id == productID })
	}

	return append(slices.Clone(w), productID)
}

// Contains reports whether productID is in the wishlist.
func (w Wishlist) Contains(productID string) bool {
	return slices.Contains(w, productID)
}
