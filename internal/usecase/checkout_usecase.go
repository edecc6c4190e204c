package usecase

import (
	"context"

	"keystore/internal/domain/entity"
)

// RedemptionCode is the display code of one purchased product.
type RedemptionCode struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Platform  string `json:"platform"`
	Quantity  int    `json:"quantity"`
	Code      string `json:"code"`
}

// CheckoutUsecase turns the cart into orders. Every method requires login.
type CheckoutUsecase interface {
	// Quote prices the current cart without side effects.
	Quote(ctx context.Context, clientID string) (*entity.OrderTotals, error)

	// Submit creates an order from the cart, clears the cart and stages the
	// order for confirmation. An empty cart is rejected without any change.
	Submit(ctx context.Context, clientID string) (*entity.Order, error)

	// Confirmation returns the staged order.
	Confirmation(ctx context.Context, clientID string) (*entity.Order, error)

	// ListOrders returns the order history, newest first.
	ListOrders(ctx context.Context, clientID string) ([]entity.Order, error)
	GetOrder(ctx context.Context, clientID, orderID string) (*entity.Order, error)
	RedemptionCodes(ctx context.Context, clientID, orderID string) ([]RedemptionCode, error)

	// RedemptionQR renders the code of a purchased product as a PNG.
	RedemptionQR(ctx context.Context, clientID, productID string) ([]byte, error)
}
