package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listContext builds a GET /products context for the given query string.
func listContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestParseProductFilterDefaults(t *testing.T) {
	c, _ := listContext("/products")
	f, err := parseProductFilter(c)
	require.NoError(t, err)

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.PageSize)
	assert.Nil(t, f.CategoryID)
	assert.Nil(t, f.MinPrice)
	assert.Nil(t, f.MaxPrice)
	assert.Nil(t, f.InStock)
	assert.Nil(t, f.SellerID)
}

func TestParseProductFilterFull(t *testing.T) {
	c, _ := listContext("/products?page=3&page_size=50&category_id=7&min_price=1.5&max_price=99.9&in_stock=true&seller_id=12")
	f, err := parseProductFilter(c)
	require.NoError(t, err)

	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 50, f.PageSize)
	require.NotNil(t, f.CategoryID)
	assert.Equal(t, uint64(7), *f.CategoryID)
	require.NotNil(t, f.MinPrice)
	assert.Equal(t, 1.5, *f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, 99.9, *f.MaxPrice)
	require.NotNil(t, f.InStock)
	assert.True(t, *f.InStock)
	require.NotNil(t, f.SellerID)
	assert.Equal(t, uint64(12), *f.SellerID)
}

func TestParseProductFilterRejectsBadParams(t *testing.T) {
	for name, target := range map[string]string{
		"page zero":          "/products?page=0",
		"page negative":      "/products?page=-2",
		"page not a number":  "/products?page=abc",
		"page_size zero":     "/products?page_size=0",
		"page_size too big":  "/products?page_size=101",
		"category not a num": "/products?category_id=x",
		"negative min_price": "/products?min_price=-1",
		"negative max_price": "/products?max_price=-0.5",
		"bad in_stock":       "/products?in_stock=maybe",
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := listContext(target)
			_, err := parseProductFilter(c)
			assert.Error(t, err)
		})
	}
}

// The cross-field price check happens before any database work, so a nil
// repository proves the request is rejected up front.
func TestListRejectsInvertedPriceRange(t *testing.T) {
	h := NewProductHandler(nil, nil)
	c, rec := listContext("/products?min_price=50&max_price=10")

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "min_price cannot exceed max_price")
}

func TestListRejectsBadPagination(t *testing.T) {
	h := NewProductHandler(nil, nil)
	c, rec := listContext("/products?page_size=500")

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRejectsMalformedID(t *testing.T) {
	h := NewProductHandler(nil, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/products/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
