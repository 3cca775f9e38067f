package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestBuildProductWhereNoFilters(t *testing.T) {
	where, args := buildProductWhere(ProductFilter{})
	assert.Equal(t, "is_active=1", where)
	assert.Empty(t, args)
}

func TestBuildProductWhereAllFilters(t *testing.T) {
	f := ProductFilter{
		CategoryID: ptr(uint64(3)),
		MinPrice:   ptr(10.0),
		MaxPrice:   ptr(20.0),
		InStock:    ptr(true),
		SellerID:   ptr(uint64(7)),
	}
	where, args := buildProductWhere(f)

	// Predicate order is fixed so the query shape is deterministic.
	assert.Equal(t, "is_active=1 AND category_id=? AND price>=? AND price<=? AND stock>0 AND seller_id=?", where)
	assert.Equal(t, []any{uint64(3), 10.0, 20.0, uint64(7)}, args)
}

func TestBuildProductWhereOutOfStock(t *testing.T) {
	where, args := buildProductWhere(ProductFilter{InStock: ptr(false)})
	assert.Equal(t, "is_active=1 AND stock=0", where)
	assert.Empty(t, args)
}

func TestSearchPaginatesAndCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepo(db)
	f := ProductFilter{
		Page:       2,
		PageSize:   2,
		CategoryID: ptr(uint64(5)),
		MinPrice:   ptr(1.0),
	}

	// The count runs the same predicates without pagination.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products WHERE is_active=1 AND category_id=\? AND price>=\?`).
		WithArgs(uint64(5), 1.0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	mock.ExpectQuery(`SELECT (.+) FROM products WHERE is_active=1 AND category_id=\? AND price>=\? ORDER BY id ASC LIMIT \? OFFSET \?`).
		WithArgs(uint64(5), 1.0, 2, 2).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "price", "image_url", "stock", "category_id", "seller_id", "rating", "is_active",
		}).
			AddRow(3, "Keyboard", nil, 49.9, nil, 12, 5, 7, 4.5, true).
			AddRow(4, "Mouse", "wireless", 19.9, "http://img/4", 0, 5, 7, 0.0, true))

	items, total, err := repo.Search(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total, "total counts all matches, not just this page")
	require.Len(t, items, 2)
	assert.Equal(t, uint64(3), items[0].ID)
	assert.Equal(t, uint64(4), items[1].ID)
	assert.Nil(t, items[0].Description)
	require.NotNil(t, items[1].Description)
	assert.Equal(t, "wireless", *items[1].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchEmptyPageBeyondData(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepo(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products WHERE is_active=1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT (.+) FROM products WHERE is_active=1 ORDER BY id ASC LIMIT \? OFFSET \?`).
		WithArgs(20, 180).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "price", "image_url", "stock", "category_id", "seller_id", "rating", "is_active",
		}))

	items, total, err := repo.Search(context.Background(), ProductFilter{Page: 10, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Empty(t, items, "a page past the data is empty, not an error")
}
