package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/online-market/internal/middleware"
	"github.com/iliyamo/online-market/internal/model"
	"github.com/iliyamo/online-market/internal/repository"
)

// CartHandler serves the authenticated buyer's cart.  Every operation is
// scoped to the principal, so one user can never touch another's rows.
type CartHandler struct {
	Carts    *repository.CartRepo
	Products *repository.ProductRepo
}

func NewCartHandler(carts *repository.CartRepo, products *repository.ProductRepo) *CartHandler {
	return &CartHandler{Carts: carts, Products: products}
}

type cartAddReq struct {
	ProductID uint64 `json:"product_id"`
	Quantity  uint32 `json:"quantity"`
}

type cartQtyReq struct {
	Quantity uint32 `json:"quantity"`
}

func (h *CartHandler) cartOf(ctx context.Context, userID uint64) (model.Cart, error) {
	items, err := h.Carts.ItemsByUser(ctx, userID)
	if err != nil {
		return model.Cart{}, err
	}
	cart := model.Cart{UserID: userID, Items: items}
	for _, it := range items {
		cart.TotalQuantity += it.Quantity
		cart.TotalPrice += float64(it.Quantity) * it.Product.Price
	}
	return cart, nil
}

// Get returns the cart with per-line products and totals.
func (h *CartHandler) Get(c echo.Context) error {
	prin, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cart, err := h.cartOf(ctx, prin.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, cart)
}

// Add puts a product into the cart, merging quantity when the line already
// exists.
func (h *CartHandler) Add(c echo.Context) error {
	prin, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req cartAddReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ProductID == 0 || req.Quantity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id and quantity must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	product, err := h.Products.GetActiveByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if product.Stock < req.Quantity {
		return c.JSON(http.StatusConflict, echo.Map{"error": "not enough stock"})
	}

	if err := h.Carts.AddItem(ctx, prin.ID, req.ProductID, req.Quantity); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add to cart failed"})
	}

	cart, err := h.cartOf(ctx, prin.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusCreated, cart)
}

// UpdateQuantity replaces the quantity of one cart line.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	prin, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cart item id"})
	}

	var req cartQtyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Quantity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Carts.UpdateQuantity(ctx, prin.ID, itemID, req.Quantity); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cart item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update cart failed"})
	}

	cart, err := h.cartOf(ctx, prin.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, cart)
}

// Remove deletes one cart line.
func (h *CartHandler) Remove(c echo.Context) error {
	prin, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cart item id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Carts.RemoveItem(ctx, prin.ID, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cart item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove from cart failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"detail": "Item removed"})
}

// Clear empties the cart.
func (h *CartHandler) Clear(c echo.Context) error {
	prin, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Carts.Clear(ctx, prin.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear cart failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"detail": "Cart cleared"})
}
