package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrItemNotFound is returned for unknown menu item IDs.
var ErrItemNotFound = errors.New("menu item not found")

// Repo reads reference data. Categories and menu items are never written by
// the ordering path.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, COALESCE(image, '') FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Image); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListMenu returns the full menu with category names joined in.
func (r *Repo) ListMenu(ctx context.Context) ([]MenuItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT m.id, m.name, m.price, COALESCE(m.description, ''), COALESCE(m.image, ''),
		       m.is_veg, m.category_id, c.name
		FROM menu_items m
		JOIN categories c ON c.id = m.category_id
		ORDER BY m.id`)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	defer rows.Close()
	return scanMenuItems(rows, true)
}

func (r *Repo) ListMenuByCategory(ctx context.Context, categoryID int64) ([]MenuItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, price, COALESCE(description, ''), COALESCE(image, ''),
		       is_veg, category_id
		FROM menu_items WHERE category_id = $1
		ORDER BY id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list menu by category: %w", err)
	}
	defer rows.Close()
	return scanMenuItems(rows, false)
}

func (r *Repo) GetMenuItem(ctx context.Context, id int64) (*MenuItem, error) {
	m := &MenuItem{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, price, COALESCE(description, ''), COALESCE(image, ''),
		       is_veg, category_id
		FROM menu_items WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.Price, &m.Description, &m.Image, &m.IsVeg, &m.CategoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return m, nil
}

// PricesFor returns the current unit price for each of the given item IDs in
// one query. Unknown IDs are simply absent from the result map.
func (r *Repo) PricesFor(ctx context.Context, ids []int64) (map[int64]float64, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, price FROM menu_items WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get menu prices: %w", err)
	}
	defer rows.Close()

	prices := make(map[int64]float64, len(ids))
	for rows.Next() {
		var id int64
		var price float64
		if err := rows.Scan(&id, &price); err != nil {
			return nil, fmt.Errorf("scan menu price: %w", err)
		}
		prices[id] = price
	}
	return prices, rows.Err()
}

// PopularItems ranks menu items by how many order lines reference them.
func (r *Repo) PopularItems(ctx context.Context, limit int) ([]PopularItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT mi.id, mi.name, mi.price, COALESCE(mi.image, ''), mi.is_veg,
		       COUNT(oi.id) AS order_count
		FROM menu_items mi
		JOIN order_items oi ON oi.item_id = mi.id
		GROUP BY mi.id
		ORDER BY order_count DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("popular items: %w", err)
	}
	defer rows.Close()

	var out []PopularItem
	for rows.Next() {
		var p PopularItem
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.IsVeg, &p.OrderCount); err != nil {
			return nil, fmt.Errorf("scan popular item: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) CountMenuItems(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&n)
	return n, err
}

func scanMenuItems(rows pgx.Rows, withCategoryName bool) ([]MenuItem, error) {
	var out []MenuItem
	for rows.Next() {
		var m MenuItem
		var err error
		if withCategoryName {
			err = rows.Scan(&m.ID, &m.Name, &m.Price, &m.Description, &m.Image,
				&m.IsVeg, &m.CategoryID, &m.CategoryName)
		} else {
			err = rows.Scan(&m.ID, &m.Name, &m.Price, &m.Description, &m.Image,
				&m.IsVeg, &m.CategoryID)
		}
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
