package repos

import (
	"context"
	"database/sql"
	"errors"

	"campgo/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ q sqlx.ExtContext }

// Ensure loads the user's cart with its lines, creating an empty one if absent.
func (r *CartRepo) Ensure(ctx context.Context, userID string) (*domain.Cart, error) {
	var c domain.Cart
	err := sqlx.GetContext(ctx, r.q, &c, `SELECT id, user_id, cart_total, updated_at FROM carts WHERE user_id = ?`, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		c = domain.Cart{ID: uuid.NewString(), UserID: userID, UpdatedAt: now()}
		if _, err := r.q.ExecContext(ctx, `INSERT INTO carts(id,user_id,cart_total,updated_at) VALUES(?,?,0,?)`,
			c.ID, c.UserID, c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Items = []domain.CartItem{}
		return &c, nil
	case err != nil:
		return nil, err
	}

	c.Items = []domain.CartItem{}
	if err := sqlx.SelectContext(ctx, r.q, &c.Items, `
		SELECT product_id, quantity, price, total, added_at
		FROM cart_items
		WHERE cart_id = ?
		ORDER BY position
	`, c.ID); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save rewrites the cart's lines and total. Run it inside a transaction so the
// document is replaced as a whole.
func (r *CartRepo) Save(ctx context.Context, c *domain.Cart) error {
	c.UpdatedAt = now()
	if err := mustAffect(r.q.ExecContext(ctx, `UPDATE carts SET cart_total=?, updated_at=? WHERE id=?`,
		c.CartTotal, c.UpdatedAt, c.ID)); err != nil {
		return err
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, c.ID); err != nil {
		return err
	}
	for i, it := range c.Items {
		if _, err := r.q.ExecContext(ctx, `
			INSERT INTO cart_items(cart_id, product_id, position, quantity, price, total, added_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, c.ID, it.ProductID, i, it.Quantity, it.Price, it.Total, it.AddedAt); err != nil {
			return err
		}
	}
	return nil
}
