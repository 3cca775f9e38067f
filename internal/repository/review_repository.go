package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/online-market/internal/model"
)

type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

const reviewColumns = "id,user_id,product_id,comment,comment_date,grade,is_active"

func (r *ReviewRepo) queryReviews(ctx context.Context, query string, args ...any) ([]model.Review, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Review{}
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Comment,
			&rv.CommentDate, &rv.Grade, &rv.IsActive); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// ListActive returns all active reviews ordered by id.
func (r *ReviewRepo) ListActive(ctx context.Context) ([]model.Review, error) {
	return r.queryReviews(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE is_active=1 ORDER BY id ASC")
}

// ListActiveByProduct returns active reviews of one product ordered by id.
func (r *ReviewRepo) ListActiveByProduct(ctx context.Context, productID uint64) ([]model.Review, error) {
	return r.queryReviews(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE product_id=? AND is_active=1 ORDER BY id ASC",
		productID)
}

// Create inserts a review row and returns its ID.  comment_date defaults to
// NOW() in the schema.
func (r *ReviewRepo) Create(ctx context.Context, userID, productID uint64, comment *string, grade uint8) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (user_id, product_id, comment, grade) VALUES (?,?,?,?)",
		userID, productID, comment, grade)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// SoftDelete flips is_active off and reports the review's product id so the
// caller can recompute that product's rating.
func (r *ReviewRepo) SoftDelete(ctx context.Context, id uint64) (uint64, error) {
	var productID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT product_id FROM reviews WHERE id=? AND is_active=1 LIMIT 1",
		id).Scan(&productID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE reviews SET is_active=0 WHERE id=? AND is_active=1", id)
	return productID, err
}

// RecomputeProductRating rewrites a product's rating as the average grade of
// its active reviews, or 0 when none remain.
func (r *ReviewRepo) RecomputeProductRating(ctx context.Context, productID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE products SET rating = (
			SELECT COALESCE(AVG(grade), 0) FROM reviews WHERE product_id=? AND is_active=1
		) WHERE id=?`,
		productID, productID)
	return err
}
