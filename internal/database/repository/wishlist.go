package repository

import (
	"context"
	"database/sql"
)

// WishlistRepo handles wishlist items.
type WishlistRepo struct {
	db *sql.DB
}

func NewWishlistRepo(db *sql.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) Insert(ctx context.Context, userID string, w WishlistItem) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO wishlist(id, user_id, name, price, saved_amount, image_url, link, priority, category, viability, target_month, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, w.ID, userID, w.Name, w.Price.String(), w.Saved.String(), w.ImageURL, w.Link, w.Priority, w.Category, w.Viability, w.TargetMonth)
	return err
}

func (r *WishlistRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM wishlist WHERE id = ?`, id)
	return err
}

func (r *WishlistRepo) List(ctx context.Context, userID string) ([]WishlistItem, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, price, saved_amount, image_url, link, priority, category, viability, target_month, created_at
	FROM wishlist WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []WishlistItem
	for rows.Next() {
		var w WishlistItem
		var price, saved string
		if err := rows.Scan(&w.ID, &w.Name, &price, &saved, &w.ImageURL, &w.Link, &w.Priority, &w.Category, &w.Viability, &w.TargetMonth, &w.CreatedAt); err != nil {
			return nil, err
		}
		w.Price = dec(price)
		w.Saved = dec(saved)
		out = append(out, w)
	}
	return out, rows.Err()
}
