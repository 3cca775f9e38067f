package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/online-market/internal/model"
)

type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

// ListActive returns all active categories ordered by id.
func (r *CategoryRepo) ListActive(ctx context.Context) ([]model.Category, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,parent_id,is_active FROM categories WHERE is_active=1 ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.IsActive); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetActiveByID fetches an active category; soft-deleted rows report ErrNotFound.
func (r *CategoryRepo) GetActiveByID(ctx context.Context, id uint64) (model.Category, error) {
	var c model.Category
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,parent_id,is_active FROM categories WHERE id=? AND is_active=1 LIMIT 1",
		id).Scan(&c.ID, &c.Name, &c.ParentID, &c.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, ErrNotFound
	}
	return c, err
}

// Create inserts a category and returns its ID.  Parent validation happens
// in the handler so a bad parent maps to 400 rather than a driver error.
func (r *CategoryRepo) Create(ctx context.Context, name string, parentID *uint64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO categories (name, parent_id) VALUES (?,?)", name, parentID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites name and parent of an active category.  Existence is
// checked by the handler beforehand, so a no-op update is not an error.
func (r *CategoryRepo) Update(ctx context.Context, id uint64, name string, parentID *uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE categories SET name=?, parent_id=? WHERE id=? AND is_active=1",
		name, parentID, id)
	return err
}

// SoftDelete flips is_active off; the row stays for referential integrity.
func (r *CategoryRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE categories SET is_active=0 WHERE id=? AND is_active=1", id)
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
