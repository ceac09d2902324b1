package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo is the Postgres-backed order store and query service. All writes to
// orders and order_items go through CreateOrder or UpdateStatus; nothing
// else in the system touches those tables.
type Repo struct{ DB *pgxpool.Pool }

var _ Store = (*Repo)(nil)

const fkViolation = "23503"

// CreateOrder inserts the order header and every line item inside one
// transaction. The deferred rollback makes every early return an abort; the
// order id only becomes visible to readers once Commit succeeds.
func (r *Repo) CreateOrder(ctx context.Context, userID int64, total float64, items []OrderItem) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, total_amount, status)
		VALUES ($1, $2, $3)
		RETURNING id`, userID, total, StatusPending).Scan(&orderID)
	if err != nil {
		if isFKViolation(err) {
			return 0, ReferenceError{Entity: "user", ID: userID}
		}
		return 0, fmt.Errorf("insert order: %w", err)
	}

	// Items are written in the order submitted.
	for _, it := range items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, item_id, quantity, price)
			VALUES ($1, $2, $3, $4)`,
			orderID, it.ItemID, it.Quantity, it.Price,
		)
		if err != nil {
			if isFKViolation(err) {
				return 0, ReferenceError{Entity: "menu item", ID: it.ItemID}
			}
			return 0, fmt.Errorf("insert order item %d: %w", it.ItemID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit order: %w", err)
	}
	return orderID, nil
}

// GetOrder returns the order header with its receipt items: current menu
// item names joined at read time, snapshotted prices.
func (r *Repo) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	o := &Order{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, user_id, total_amount, status, created_at
		FROM orders WHERE id = $1`, orderID,
	).Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	o.Items, err = r.receiptItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ListOrders returns a user's orders, most recent first, each with its
// receipt items materialized.
func (r *Repo) ListOrders(ctx context.Context, userID int64) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, total_amount, status, created_at
		FROM orders WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range out {
		items, err := r.receiptItems(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *Repo) receiptItems(ctx context.Context, orderID int64) ([]ReceiptItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT oi.id, mi.name, oi.price, oi.quantity
		FROM order_items oi
		JOIN menu_items mi ON mi.id = oi.item_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	items := []ReceiptItem{}
	for rows.Next() {
		var it ReceiptItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateStatus is the administrative status path. It locks the order row,
// checks the lifecycle table, and applies the change.
func (r *Repo) UpdateStatus(ctx context.Context, orderID int64, to Status) error {
	if !to.Valid() {
		return ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", to)}
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin status tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var from Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("lock order: %w", err)
	}

	if !CanTransition(from, to) {
		return InvalidTransitionError{From: from, To: to}
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, to, orderID); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *Repo) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}

// Revenue sums committed order totals, excluding cancelled orders.
func (r *Repo) Revenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status != $1`,
		StatusCancelled).Scan(&total)
	return total, err
}

func isFKViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == fkViolation
}
