package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/online-market/internal/model"
)

type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productColumns = "id,name,description,price,image_url,stock,category_id,seller_id,rating,is_active"

func scanProduct(row interface{ Scan(...any) error }, p *model.Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL,
		&p.Stock, &p.CategoryID, &p.SellerID, &p.Rating, &p.IsActive)
}

// GetActiveByID fetches an active product; soft-deleted rows report ErrNotFound.
func (r *ProductRepo) GetActiveByID(ctx context.Context, id uint64) (model.Product, error) {
	var p model.Product
	err := scanProduct(r.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id=? AND is_active=1 LIMIT 1", id), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, ErrNotFound
	}
	return p, err
}

// ListActiveByCategory returns active products of one category ordered by id.
func (r *ProductRepo) ListActiveByCategory(ctx context.Context, categoryID uint64) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE category_id=? AND is_active=1 ORDER BY id ASC",
		categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create inserts a product and returns its ID.  SellerID comes from the
// authenticated principal, never from the request body.
func (r *ProductRepo) Create(ctx context.Context, p model.Product) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO products (name, description, price, image_url, stock, category_id, seller_id) VALUES (?,?,?,?,?,?,?)",
		p.Name, p.Description, p.Price, p.ImageURL, p.Stock, p.CategoryID, p.SellerID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites the mutable columns of an active product.  Ownership is
// enforced by the handler before this is called.
func (r *ProductRepo) Update(ctx context.Context, p model.Product) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE products SET name=?, description=?, price=?, image_url=?, stock=?, category_id=? WHERE id=? AND is_active=1",
		p.Name, p.Description, p.Price, p.ImageURL, p.Stock, p.CategoryID, p.ID)
	return err
}

// SoftDelete flips is_active off; the row stays for order history.
func (r *ProductRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE products SET is_active=0 WHERE id=? AND is_active=1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
