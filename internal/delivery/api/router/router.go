// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"keystore/internal/delivery/api/middleware"
	"keystore/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	ClientHandler    *handler.ClientHandler
	CatalogHandler   *handler.CatalogHandler
	AuthHandler      *handler.AuthHandler
	CartHandler      *handler.CartHandler
	CheckoutHandler  *handler.CheckoutHandler
	ClientMiddleware *middleware.ClientMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	clientHandler    *handler.ClientHandler
	catalogHandler   *handler.CatalogHandler
	authHandler      *handler.AuthHandler
	cartHandler      *handler.CartHandler
	checkoutHandler  *handler.CheckoutHandler
	clientMiddleware *middleware.ClientMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		clientHandler:    params.ClientHandler,
		catalogHandler:   params.CatalogHandler,
		authHandler:      params.AuthHandler,
		cartHandler:      params.CartHandler,
		checkoutHandler:  params.CheckoutHandler,
		clientMiddleware: params.ClientMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	apiV1 := e.Group("/api/v1")

	// Public routes
	apiV1.POST("/sessions", r.clientHandler.StartSession)

	catalogGroup := apiV1.Group("/catalog")
	{
		catalogGroup.GET("/products", r.catalogHandler.ListProducts)
		catalogGroup.GET("/products/:id", r.catalogHandler.GetProduct)
		catalogGroup.GET("/facets", r.catalogHandler.Facets)
		catalogGroup.GET("/publishers", r.catalogHandler.ListPublishers)
	}

	// Routes bound to a client namespace
	withClient := r.clientMiddleware.Authenticate

	authGroup := apiV1.Group("/auth", withClient)
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.POST("/sync", r.authHandler.Sync)
		authGroup.GET("/me", r.authHandler.Me)
	}

	apiV1.PUT("/account/settings", r.authHandler.UpdateSettings, withClient)
	apiV1.GET("/sessions/activity", r.clientHandler.Activity, withClient)

	cartGroup := apiV1.Group("/cart", withClient)
	{
		cartGroup.GET("", r.cartHandler.GetCart)
		cartGroup.DELETE("", r.cartHandler.Clear)
		cartGroup.GET("/summary", r.cartHandler.Summary)
		cartGroup.POST("/items", r.cartHandler.AddItem)
		cartGroup.PATCH("/items/:productId", r.cartHandler.ChangeQuantity)
		cartGroup.DELETE("/items/:productId", r.cartHandler.RemoveItem)
	}

	// Routes that require a logged-in user; RequireUser runs after Authenticate
	withUser := []echo.MiddlewareFunc{withClient, r.clientMiddleware.RequireUser}

	wishlistGroup := apiV1.Group("/wishlist", withUser...)
	{
		wishlistGroup.GET("", r.cartHandler.GetWishlist)
		wishlistGroup.POST("/:productId/toggle", r.cartHandler.ToggleWishlist)
	}

	checkoutGroup := apiV1.Group("/checkout", withUser...)
	{
		checkoutGroup.GET("/quote", r.checkoutHandler.Quote)
		checkoutGroup.POST("", r.checkoutHandler.Submit)
		checkoutGroup.GET("/confirmation", r.checkoutHandler.Confirmation)
	}

	ordersGroup := apiV1.Group("/orders", withUser...)
	{
		ordersGroup.GET("", r.checkoutHandler.ListOrders)
		ordersGroup.GET("/:id", r.checkoutHandler.GetOrder)
		ordersGroup.GET("/:id/codes", r.checkoutHandler.RedemptionCodes)
	}

	apiV1.GET("/redemption/:productId/qrcode", r.checkoutHandler.RedemptionQR, withUser...)
}
