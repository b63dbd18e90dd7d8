// Package menu reads the categories, items and per-item options the
// terminal offers. It is read-only; the menu is maintained elsewhere.
package menu

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("menu item not found")

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Item struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Available  bool   `json:"available"`
}

type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct{ DB DB }

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name FROM categories ORDER BY position, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) ListItems(ctx context.Context, categoryID string) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, category_id, name, price_cents, available
		FROM menu_items WHERE category_id=$1 ORDER BY name`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.CategoryID, &it.Name, &it.PriceCents, &it.Available); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) GetItem(ctx context.Context, id string) (Item, error) {
	var it Item
	err := r.DB.QueryRow(ctx, `
		SELECT id, category_id, name, price_cents, available
		FROM menu_items WHERE id=$1`, id).
		Scan(&it.ID, &it.CategoryID, &it.Name, &it.PriceCents, &it.Available)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return it, err
}

// Options lists the choices (sauces) for an item. Items without options
// return an empty list.
func (r *Repo) Options(ctx context.Context, itemID string) ([]string, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT name FROM item_options WHERE item_id=$1 ORDER BY position, name`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
