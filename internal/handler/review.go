package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/online-market/internal/middleware"
	"github.com/iliyamo/online-market/internal/repository"
)

// ReviewHandler serves product reviews.  Creating a review recomputes the
// product's cached rating.
type ReviewHandler struct {
	Reviews  *repository.ReviewRepo
	Products *repository.ProductRepo
}

func NewReviewHandler(r *repository.ReviewRepo, p *repository.ProductRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: r, Products: p}
}

type reviewReq struct {
	ProductID uint64  `json:"product_id"`
	Comment   *string `json:"comment"`
	Grade     uint8   `json:"grade"`
}

// List returns every active review.
func (h *ReviewHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reviews, err := h.Reviews.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, reviews)
}

// ListByProduct returns the active reviews of one active product.
func (h *ReviewHandler) ListByProduct(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Products.GetActiveByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	reviews, err := h.Reviews.ListActiveByProduct(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, reviews)
}

// Create stores a buyer's review and refreshes the product rating.
func (h *ReviewHandler) Create(c echo.Context) error {
	prin, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Grade < 1 || req.Grade > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "grade must be between 1 and 5"})
	}
	if req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Products.GetActiveByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	id, err := h.Reviews.Create(ctx, prin.ID, req.ProductID, req.Comment, req.Grade)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}

	if err := h.Reviews.RecomputeProductRating(ctx, req.ProductID); err != nil {
		c.Logger().Errorf("rating recompute for product %d: %v", req.ProductID, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": id, "detail": "Review created"})
}

// Delete soft-deletes a review (admin only, gated in the router) and
// refreshes the product rating.
func (h *ReviewHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	productID, err := h.Reviews.SoftDelete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete review failed"})
	}

	if err := h.Reviews.RecomputeProductRating(ctx, productID); err != nil {
		c.Logger().Errorf("rating recompute for product %d: %v", productID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"detail": "Review deleted"})
}
