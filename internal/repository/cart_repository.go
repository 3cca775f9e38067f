package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/online-market/internal/model"
)

type CartRepo struct{ DB *sql.DB }

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{DB: db} }

// ItemsByUser returns the user's cart items joined with their products.
// Items whose product was soft-deleted in the meantime are skipped by the
// join so the cart never shows unorderable goods.
func (r *CartRepo) ItemsByUser(ctx context.Context, userID uint64) ([]model.CartItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT ci.id, ci.quantity,
			p.id, p.name, p.description, p.price, p.image_url, p.stock,
			p.category_id, p.seller_id, p.rating, p.is_active
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id AND p.is_active=1
		WHERE ci.user_id=?
		ORDER BY ci.id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.CartItem{}
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ID, &it.Quantity,
			&it.Product.ID, &it.Product.Name, &it.Product.Description, &it.Product.Price,
			&it.Product.ImageURL, &it.Product.Stock, &it.Product.CategoryID,
			&it.Product.SellerID, &it.Product.Rating, &it.Product.IsActive); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// AddItem inserts a cart row or, when the (user_id, product_id) pair already
// exists, merges the quantity into the existing row.
func (r *CartRepo) AddItem(ctx context.Context, userID, productID uint64, quantity uint32) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
		userID, productID, quantity)
	return err
}

// UpdateQuantity sets the quantity of one cart item.  The user id is part of
// the predicate so users cannot touch each other's rows.
func (r *CartRepo) UpdateQuantity(ctx context.Context, userID, itemID uint64, quantity uint32) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE cart_items SET quantity=? WHERE id=? AND user_id=?",
		quantity, itemID, userID)
	if err != nil {
		return err
	}
	return requireOwnedRow(ctx, r.DB, res, itemID, userID)
}

// RemoveItem deletes one cart item owned by the user.
func (r *CartRepo) RemoveItem(ctx context.Context, userID, itemID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM cart_items WHERE id=? AND user_id=?", itemID, userID)
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

// Clear empties the user's cart.
func (r *CartRepo) Clear(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id=?", userID)
	return err
}

// requireOwnedRow distinguishes "row not there" from "update was a no-op
// because the value did not change": MySQL reports zero affected rows for
// both, so a follow-up existence probe decides.
func requireOwnedRow(ctx context.Context, db *sql.DB, res sql.Result, itemID, userID uint64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var one int
	err = db.QueryRowContext(ctx,
		"SELECT 1 FROM cart_items WHERE id=? AND user_id=? LIMIT 1",
		itemID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}
