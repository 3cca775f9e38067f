// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/online-market/internal/config"
	"github.com/iliyamo/online-market/internal/handler"
	"github.com/iliyamo/online-market/internal/middleware"
	"github.com/iliyamo/online-market/internal/model"
)

// Handlers bundles every handler the router needs so Register stays a
// single call site in main.
type Handlers struct {
	Auth       *handler.AuthHandler
	Categories *handler.CategoryHandler
	Products   *handler.ProductHandler
	Reviews    *handler.ReviewHandler
	Carts      *handler.CartHandler
	Orders     *handler.OrderHandler
}

// Register wires every route with its middleware chain. rdb may be nil, in
// which case the Redis-backed cache and rate limiter pass requests through.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	authed := middleware.JWTAuth(jwtSecret)
	buyerOnly := middleware.RequireRole(model.RoleBuyer)
	sellerOnly := middleware.RequireRole(model.RoleSeller)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	// Account lifecycle. Registration and login are rate limited per IP so
	// credential stuffing cannot hammer bcrypt.
	users := e.Group("/users")
	users.POST("", h.Auth.Register, limit)
	users.POST("/token", h.Auth.Login, limit)
	users.POST("/refresh", h.Auth.Refresh)
	users.POST("/logout", h.Auth.Logout)
	users.GET("/me", h.Auth.Me, authed)

	// Public catalog reads go through the Redis response cache.
	e.GET("/categories", h.Categories.List, cache)
	e.GET("/categories/:id", h.Categories.Get, cache)
	e.GET("/products", h.Products.List, cache)
	e.GET("/products/:id", h.Products.Get, cache)
	e.GET("/products/category/:id", h.Products.ListByCategory, cache)
	e.GET("/reviews", h.Reviews.List, cache)
	e.GET("/reviews/product/:id", h.Reviews.ListByProduct, cache)

	// Category mutations are an admin concern.
	e.POST("/categories", h.Categories.Create, authed, adminOnly)
	e.PUT("/categories/:id", h.Categories.Update, authed, adminOnly)
	e.DELETE("/categories/:id", h.Categories.Delete, authed, adminOnly)

	// Sellers manage their own products; ownership is checked in the
	// handler so admins can moderate any listing.
	e.POST("/products", h.Products.Create, authed, sellerOnly)
	e.PUT("/products/:id", h.Products.Update, authed, middleware.RequireRole(model.RoleSeller, model.RoleAdmin))
	e.DELETE("/products/:id", h.Products.Delete, authed, middleware.RequireRole(model.RoleSeller, model.RoleAdmin))

	// Buyers write reviews; admins moderate them.
	e.POST("/reviews", h.Reviews.Create, authed, buyerOnly)
	e.DELETE("/reviews/:id", h.Reviews.Delete, authed, adminOnly)

	// The cart is strictly per-buyer.
	cart := e.Group("/cart", authed, buyerOnly)
	cart.GET("", h.Carts.Get)
	cart.POST("/items", h.Carts.Add)
	cart.PUT("/items/:id", h.Carts.UpdateQuantity)
	cart.DELETE("/items/:id", h.Carts.Remove)
	cart.DELETE("", h.Carts.Clear)

	// Orders: buyers place and browse their own, admins drive the status
	// lifecycle. GET /orders/:id allows both and checks ownership inside.
	e.POST("/orders", h.Orders.Checkout, authed, buyerOnly)
	e.GET("/orders", h.Orders.List, authed, buyerOnly)
	e.GET("/orders/:id", h.Orders.Get, authed)
	e.PUT("/orders/:id/status", h.Orders.UpdateStatus, authed, adminOnly)
}
