package repository

import (
	"context"

	"github.com/iliyamo/online-market/internal/model"
)

// ProductFilter defines the optional filters & pagination for the product
// listing.  Nil pointer fields impose no constraint.
type ProductFilter struct {
	Page       int
	PageSize   int
	CategoryID *uint64
	MinPrice   *float64
	MaxPrice   *float64
	InStock    *bool
	SellerID   *uint64
}

// buildProductWhere turns a filter into a WHERE clause and its arguments.
// Predicates are appended in a fixed order so the query shape is
// deterministic: is_active, category, min price, max price, stock, seller.
func buildProductWhere(f ProductFilter) (string, []any) {
	where := "is_active=1"
	args := []any{}

	if f.CategoryID != nil {
		where += " AND category_id=?"
		args = append(args, *f.CategoryID)
	}
	if f.MinPrice != nil {
		where += " AND price>=?"
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where += " AND price<=?"
		args = append(args, *f.MaxPrice)
	}
	if f.InStock != nil {
		if *f.InStock {
			where += " AND stock>0"
		} else {
			where += " AND stock=0"
		}
	}
	if f.SellerID != nil {
		where += " AND seller_id=?"
		args = append(args, *f.SellerID)
	}
	return where, args
}

// Search returns one page of products matching the filter plus the total
// match count computed from the same predicates without pagination.  Rows
// are ordered by id ascending so repeated calls page stably: rows inserted
// after a page was fetched get higher ids and can only appear on later pages.
func (r *ProductRepo) Search(ctx context.Context, f ProductFilter) ([]model.Product, int64, error) {
	where, args := buildProductWhere(f)

	var total int64
	countSQL := "SELECT COUNT(*) FROM products WHERE " + where
	if err := r.DB.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.PageSize
	offset := (f.Page - 1) * f.PageSize

	dataSQL := "SELECT " + productColumns + " FROM products WHERE " + where +
		" ORDER BY id ASC LIMIT ? OFFSET ?"
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Product, 0, limit)
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
