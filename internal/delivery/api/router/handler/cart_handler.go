package handler

import (
	"log/slog"
	"net/http"

	"keystore/internal/delivery/api/response"
	"keystore/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CartHandlerParams holds dependencies for CartHandler, injected by Fx.
type CartHandlerParams struct {
	fx.In

	CartUC     usecase.CartUsecase
	WishlistUC usecase.WishlistUsecase
	Logger     *slog.Logger
}

// CartHandler exposes the cart and the wishlist.
type CartHandler struct {
	cartUC     usecase.CartUsecase
	wishlistUC usecase.WishlistUsecase
	logger     *slog.Logger
}

// NewCartHandler is the constructor for CartHandler.
func NewCartHandler(params CartHandlerParams) *CartHandler {
	return &CartHandler{
		cartUC:     params.CartUC,
		wishlistUC: params.WishlistUC,
		logger:     params.Logger,
	}
}

// AddItemRequest adds units of a product. Quantity defaults to 1.
type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1,max=99"`
}

// ChangeQuantityRequest applies a signed delta to a cart line.
type ChangeQuantityRequest struct {
	Delta int `json:"delta" validate:"required,min=-99,max=99"`
}

// GetCart returns the cart.
func (h *CartHandler) GetCart(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	cart, err := h.cartUC.Get(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, cart)
}

// Summary returns line count, item count and subtotal.
func (h *CartHandler) Summary(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	summary, err := h.cartUC.Summary(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, summary)
}

// AddItem merges a product into the cart.
func (h *CartHandler) AddItem(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	var req AddItemRequest
	if handled, err := bindAndValidate(c, &req, "Invalid cart input"); handled {
		return err
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.cartUC.AddItem(c.Request().Context(), id, req.ProductID, req.Quantity)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, cart)
}

// ChangeQuantity adjusts a line by a delta.
func (h *CartHandler) ChangeQuantity(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	var req ChangeQuantityRequest
	if handled, err := bindAndValidate(c, &req, "Invalid quantity input"); handled {
		return err
	}

	cart, err := h.cartUC.ChangeQuantity(c.Request().Context(), id, c.Param("productId"), req.Delta)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, cart)
}

// RemoveItem drops a line.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	cart, err := h.cartUC.RemoveItem(c.Request().Context(), id, c.Param("productId"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, cart)
}

// Clear empties the cart.
func (h *CartHandler) Clear(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	if err := h.cartUC.Clear(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetWishlist returns the wishlisted products.
func (h *CartHandler) GetWishlist(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	products, err := h.wishlistUC.Get(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, products)
}

// ToggleWishlist adds or removes a product.
func (h *CartHandler) ToggleWishlist(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	out, err := h.wishlistUC.Toggle(c.Request().Context(), id, c.Param("productId"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, out)
}
