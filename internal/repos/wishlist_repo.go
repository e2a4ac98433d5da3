package repos

import (
	"context"

	"campgo/internal/domain"

	"github.com/jmoiron/sqlx"
)

type WishlistRepo struct{ q sqlx.ExtContext }

// Add is idempotent.
func (r *WishlistRepo) Add(ctx context.Context, userID, productID string) error {
	_, err := r.q.ExecContext(ctx, `
	  INSERT INTO wishlist_items(user_id, product_id, created_at)
	  VALUES(?, ?, ?)
	  ON CONFLICT(user_id, product_id) DO NOTHING
	`, userID, productID, now())
	return err
}

func (r *WishlistRepo) Remove(ctx context.Context, userID, productID string) error {
	return mustAffect(r.q.ExecContext(ctx, `DELETE FROM wishlist_items WHERE user_id=? AND product_id=?`, userID, productID))
}

func (r *WishlistRepo) List(ctx context.Context, userID string) ([]domain.Product, error) {
	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
	  SELECT p.id, p.category_id, p.name, p.description, p.brand, p.price, p.discount,
	         p.stock_quantity, p.sold, p.images_json, p.active, p.created_at,
	         COALESCE(p.updated_at,'') AS updated_at
	  FROM wishlist_items wi
	  JOIN products p ON p.id = wi.product_id
	  WHERE wi.user_id = ?
	  ORDER BY wi.created_at DESC
	`, userID)
	return out, err
}
