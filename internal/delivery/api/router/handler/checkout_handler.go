package handler

import (
	"log/slog"
	"net/http"

	"keystore/internal/delivery/api/response"
	"keystore/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CheckoutHandlerParams holds dependencies for CheckoutHandler, injected by Fx.
type CheckoutHandlerParams struct {
	fx.In

	CheckoutUC usecase.CheckoutUsecase
	Logger     *slog.Logger
}

// CheckoutHandler exposes checkout, order history and redemption codes.
type CheckoutHandler struct {
	checkoutUC usecase.CheckoutUsecase
	logger     *slog.Logger
}

// NewCheckoutHandler is the constructor for CheckoutHandler.
func NewCheckoutHandler(params CheckoutHandlerParams) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUC: params.CheckoutUC,
		logger:     params.Logger,
	}
}

// Quote prices the cart.
func (h *CheckoutHandler) Quote(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	totals, err := h.checkoutUC.Quote(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, totals)
}

// Submit places the order.
func (h *CheckoutHandler) Submit(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	order, err := h.checkoutUC.Submit(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, order)
}

// Confirmation returns the order placed last on this client.
func (h *CheckoutHandler) Confirmation(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	order, err := h.checkoutUC.Confirmation(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order)
}

// ListOrders returns the order history, newest first.
func (h *CheckoutHandler) ListOrders(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	orders, err := h.checkoutUC.ListOrders(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, orders)
}

// GetOrder returns one order.
func (h *CheckoutHandler) GetOrder(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	order, err := h.checkoutUC.GetOrder(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order)
}

// RedemptionCodes returns the codes of an order.
func (h *CheckoutHandler) RedemptionCodes(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	codes, err := h.checkoutUC.RedemptionCodes(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, codes)
}

// RedemptionQR renders the code of a purchased product.
func (h *CheckoutHandler) RedemptionQR(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	png, err := h.checkoutUC.RedemptionQR(c.Request().Context(), id, c.Param("productId"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.PNG(c, png)
}
