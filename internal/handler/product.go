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

// ProductHandler bundles repositories for catalog endpoints.
type ProductHandler struct {
	Products   *repository.ProductRepo
	Categories *repository.CategoryRepo
}

func NewProductHandler(p *repository.ProductRepo, cat *repository.CategoryRepo) *ProductHandler {
	return &ProductHandler{Products: p, Categories: cat}
}

type productReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    *string `json:"image_url"`
	Stock       uint32  `json:"stock"`
	CategoryID  uint64  `json:"category_id"`
}

func (r productReq) validate() string {
	if len(r.Name) < 3 || len(r.Name) > 100 {
		return "name must be 3-100 characters"
	}
	if r.Price <= 0 {
		return "price must be greater than 0"
	}
	if r.CategoryID == 0 {
		return "category_id required"
	}
	return ""
}

// ----- query parameter parsing -----

func optUint(c echo.Context, name string) (*uint64, error) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, errors.New(name + " must be a non-negative integer")
	}
	return &n, nil
}

func optPrice(c echo.Context, name string) (*float64, error) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return nil, errors.New(name + " must be a non-negative number")
	}
	return &f, nil
}

func optBool(c echo.Context, name string) (*bool, error) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, errors.New(name + " must be true or false")
	}
	return &b, nil
}

func pageParam(c echo.Context, name string, def, min, max int) (int, error) {
	s := c.QueryParam(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < min || (max > 0 && n > max) {
		return 0, errors.New("invalid " + name)
	}
	return n, nil
}

// parseProductFilter collects the optional filters & pagination of the
// product listing.  Range violations inside a single field are 400 here;
// the cross-field min>max rule is checked by the caller.
func parseProductFilter(c echo.Context) (repository.ProductFilter, error) {
	var f repository.ProductFilter
	var err error

	if f.Page, err = pageParam(c, "page", 1, 1, 0); err != nil {
		return f, err
	}
	if f.PageSize, err = pageParam(c, "page_size", 20, 1, 100); err != nil {
		return f, err
	}
	if f.CategoryID, err = optUint(c, "category_id"); err != nil {
		return f, err
	}
	if f.MinPrice, err = optPrice(c, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = optPrice(c, "max_price"); err != nil {
		return f, err
	}
	if f.InStock, err = optBool(c, "in_stock"); err != nil {
		return f, err
	}
	if f.SellerID, err = optUint(c, "seller_id"); err != nil {
		return f, err
	}
	return f, nil
}

// List returns a filtered, paginated page of active products.
func (h *ProductHandler) List(c echo.Context) error {
	f, err := parseProductFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "min_price cannot exceed max_price"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Products.Search(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, model.ProductPage{
		Items:    items,
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	})
}

// Get returns one active product by id.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Products.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// ListByCategory returns active products of one active category.
func (h *ProductHandler) ListByCategory(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Categories.GetActiveByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	items, err := h.Products.ListActiveByCategory(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// Create adds a product owned by the authenticated seller.  The seller id
// always comes from the principal, not the body.
func (h *ProductHandler) Create(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Categories.GetActiveByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	id, err := h.Products.Create(ctx, model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		SellerID:    p.ID,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create product failed"})
	}

	created, err := h.Products.GetActiveByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusCreated, created)
}

// Update rewrites a product.  Only the owning seller or an admin may do so;
// a valid principal without ownership gets 403.
func (h *ProductHandler) Update(c echo.Context) error {
	prin, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Products.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing.SellerID != prin.ID && prin.Role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not the product owner"})
	}

	if _, err := h.Categories.GetActiveByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	err = h.Products.Update(ctx, model.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update product failed"})
	}

	updated, err := h.Products.GetActiveByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete soft-deletes a product owned by the seller (or any product for an
// admin).  The row remains for order history.
func (h *ProductHandler) Delete(c echo.Context) error {
	prin, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Products.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing.SellerID != prin.ID && prin.Role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not the product owner"})
	}

	if err := h.Products.SoftDelete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete product failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"detail": "Product deleted"})
}
