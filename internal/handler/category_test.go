package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/online-market/internal/repository"
)

func newCategoryHandler(t *testing.T) (*CategoryHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCategoryHandler(repository.NewCategoryRepo(db)), mock
}

func getCategory(t *testing.T, h *CategoryHandler, id string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/categories/"+id, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.Get(c))
	return rec
}

func emptyCategoryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "parent_id", "is_active"})
}

// A soft-deleted category is gone from the API even though its row remains
// in the table for referential integrity.
func TestDeleteCategoryThenGetIs404(t *testing.T) {
	h, mock := newCategoryHandler(t)

	mock.ExpectExec("UPDATE categories SET is_active=0 WHERE id=").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id,name,parent_id,is_active FROM categories WHERE id=\\? AND is_active=1").
		WithArgs(uint64(3)).
		WillReturnRows(emptyCategoryRows())

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/categories/3", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Category deleted")

	rec = getCategory(t, h, "3")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "category not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCategoryMissingIs404(t *testing.T) {
	h, mock := newCategoryHandler(t)

	mock.ExpectExec("UPDATE categories SET is_active=0 WHERE id=").
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/categories/9", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCategoryMalformedID(t *testing.T) {
	h, _ := newCategoryHandler(t)
	rec := getCategory(t, h, "abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
