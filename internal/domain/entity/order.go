package entity

import "time"

// OrderStatusCompleted is the only status an order gets; there is no payment flow.
const OrderStatusCompleted = "completed"

// OrderLine is a snapshot of a cart line at checkout.
type OrderLine struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Discount  int     `json:"discount"`
	Platform  string  `json:"platform"`
	Quantity  int     `json:"quantity"`
}

// Order is created once at checkout and never changes afterwards.
type Order struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"createdAt"`
	Status    string      `json:"status"`
	Lines     []OrderLine `json:"lines"`
	Subtotal  float64     `json:"subtotal"`
	Shipping  float64     `json:"shipping"`
	Tax       float64     `json:"tax"`
	Total     float64     `json:"total"`
}

// OrderTotals is the price breakdown of a cart.
type OrderTotals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputeTotals prices a cart. Shipping is waived when the subtotal is zero.
func ComputeTotals(cart Cart, shippingFee, taxRate float64) OrderTotals {
	subtotal := RoundCents(cart.Subtotal())

	shipping := 0.0
	if subtotal > 0 {
		shipping = shippingFee
	}

	tax := RoundCents(subtotal * taxRate)

	return OrderTotals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    RoundCents(subtotal + shipping + tax),
	}
}

// SnapshotLines copies cart lines into order lines.
func SnapshotLines(cart Cart) []OrderLine {
	lines := make([]OrderLine, 0, len(cart))
	for _, l := range cart {
		lines = append(lines, OrderLine{
			ProductID: l.ProductID,
			Title:     l.Title,
			Price:     l.Price,
			Discount:  l.Discount,
			Platform:  l.Platform,
			Quantity:  l.Quantity,
		})
	}

	return lines
}
