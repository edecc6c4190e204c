package usecase

import (
	"context"

	"keystore/internal/domain/entity"
)

// CartSummary is what a cart-count indicator needs.
type CartSummary struct {
	Lines    int     `json:"lines"`
	Items    int     `json:"items"`
	Subtotal float64 `json:"subtotal"`
}

// WishlistToggleOutput reports the result of a wishlist toggle.
type WishlistToggleOutput struct {
	ProductID  string          `json:"productId"`
	InWishlist bool            `json:"inWishlist"`
	Wishlist   entity.Wishlist `json:"wishlist"`
}

// CartUsecase edits the client cart. Guests may use it; when logged in every
// write is also synced to the account.
type CartUsecase interface {
	Get(ctx context.Context, clientID string) (entity.Cart, error)
	AddItem(ctx context.Context, clientID, productID string, quantity int) (entity.Cart, error)

	// ChangeQuantity adds delta to the line quantity, flooring at 1.
	ChangeQuantity(ctx context.Context, clientID, productID string, delta int) (entity.Cart, error)
	RemoveItem(ctx context.Context, clientID, productID string) (entity.Cart, error)
	Clear(ctx context.Context, clientID string) error
	Summary(ctx context.Context, clientID string) (*CartSummary, error)
}

// WishlistUsecase edits the wishlist of a logged-in client.
type WishlistUsecase interface {
	// Get resolves wishlist entries to products, skipping ids no longer in the catalog.
	Get(ctx context.Context, clientID string) ([]*entity.Product, error)
	Toggle(ctx context.Context, clientID, productID string) (*WishlistToggleOutput, error)
}
