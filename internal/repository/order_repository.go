package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/online-market/internal/model"
)

type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

// CreateFromCart places an order for everything in the user's cart inside a
// single transaction: it snapshots unit prices, verifies and decrements
// stock, writes the order and its items, and empties the cart.  Stock rows
// are locked for the duration so two concurrent checkouts cannot both take
// the last unit.
func (r *OrderRepo) CreateFromCart(ctx context.Context, userID uint64) (model.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT ci.product_id, ci.quantity, p.price, p.stock
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id AND p.is_active=1
		 WHERE ci.user_id=?
		 ORDER BY ci.product_id ASC
		 FOR UPDATE`, userID)
	if err != nil {
		return model.Order{}, err
	}

	type line struct {
		productID uint64
		quantity  uint32
		price     float64
		stock     uint32
	}
	lines := []line{}
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.productID, &l.quantity, &l.price, &l.stock); err != nil {
			rows.Close()
			return model.Order{}, err
		}
		lines = append(lines, l)
	}
	if err := rows.Close(); err != nil {
		return model.Order{}, err
	}
	if len(lines) == 0 {
		return model.Order{}, ErrEmptyCart
	}

	var total float64
	for _, l := range lines {
		if l.quantity > l.stock {
			return model.Order{}, fmt.Errorf("product %d: %w", l.productID, ErrInsufficientStock)
		}
		total += l.price * float64(l.quantity)
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders (user_id, status, total_amount) VALUES (?,?,?)",
		userID, string(model.OrderPending), total)
	if err != nil {
		return model.Order{}, err
	}
	orderID64, err := res.LastInsertId()
	if err != nil {
		return model.Order{}, err
	}
	orderID := uint64(orderID64)

	order := model.Order{
		ID:          orderID,
		UserID:      userID,
		Status:      model.OrderPending,
		TotalAmount: total,
	}
	for _, l := range lines {
		lineTotal := l.price * float64(l.quantity)
		itemRes, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, product_id, quantity, unit_price, total_price) VALUES (?,?,?,?,?)",
			orderID, l.productID, l.quantity, l.price, lineTotal)
		if err != nil {
			return model.Order{}, err
		}
		itemID, err := itemRes.LastInsertId()
		if err != nil {
			return model.Order{}, err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE products SET stock = stock - ? WHERE id=?", l.quantity, l.productID); err != nil {
			return model.Order{}, err
		}
		order.Items = append(order.Items, model.OrderItem{
			ID:         uint64(itemID),
			ProductID:  l.productID,
			Quantity:   l.quantity,
			UnitPrice:  l.price,
			TotalPrice: lineTotal,
		})
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id=?", userID); err != nil {
		return model.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	return order, nil
}

// ListByUser returns one page of the user's orders (items not expanded) plus
// the total order count.  Ordering by id ascending keeps pages stable under
// concurrent inserts.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]model.Order, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM orders WHERE user_id=?", userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT id,user_id,status,total_amount,created_at,updated_at
		 FROM orders WHERE user_id=? ORDER BY id ASC LIMIT ? OFFSET ?`,
		userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

// GetByID fetches one order with its items.  Access control (owner or admin)
// is the handler's job.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (model.Order, error) {
	var o model.Order
	err := r.DB.QueryRowContext(ctx,
		`SELECT id,user_id,status,total_amount,created_at,updated_at
		 FROM orders WHERE id=? LIMIT 1`, id).
		Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT id,product_id,quantity,unit_price,total_price
		 FROM order_items WHERE order_id=? ORDER BY id ASC`, id)
	if err != nil {
		return model.Order{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return model.Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

// UpdateStatus moves an order to a new status.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint64, status model.OrderStatus) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE orders SET status=? WHERE id=?", string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// No change or no row; probe to decide.
		var one int
		err = r.DB.QueryRowContext(ctx, "SELECT 1 FROM orders WHERE id=? LIMIT 1", id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
