package repos

import (
	"context"

	"campgo/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ q sqlx.ExtContext }

const userCols = `id,user_name,email,password_hash,first_name,last_name,phone_number,role,created_at`

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users(`+userCols+`)
		VALUES(?,?,?,?,?,?,?,?,?)
	`, u.ID, u.UserName, u.Email, u.Hash, u.FirstName, u.LastName, u.Phone, u.Role, u.CreatedAt)
	return err
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.q, &u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.q, &u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListCustomers returns every non-admin account, newest first.
func (r *UserRepo) ListCustomers(ctx context.Context) ([]domain.User, error) {
	out := []domain.User{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT `+userCols+` FROM users
		WHERE role <> 'ADMIN'
		ORDER BY created_at DESC
	`)
	return out, err
}

func (r *UserRepo) CountCustomers(ctx context.Context) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM users WHERE role <> 'ADMIN'`)
	return n, err
}

// DeleteUserCascade cancels open orders and deletes user-related data (cart,
// wishlist, addresses, cards, reviews) while keeping orders for audit. Run it
// inside a transaction.
func (r *UserRepo) DeleteUserCascade(ctx context.Context, userID string) error {
	// Cancel orders that have not shipped yet (retain rows for audit)
	if _, err := r.q.ExecContext(ctx, `
		UPDATE orders SET delivery_status='Cancelled', updated_at=?
		WHERE user_id=? AND delivery_status IN ('Pending','Shipping')
	`, now(), userID); err != nil {
		return err
	}
	for _, stmt := range []string{
		`DELETE FROM carts WHERE user_id=?`, // cart_items cascade
		`DELETE FROM wishlist_items WHERE user_id=?`,
		`DELETE FROM addresses WHERE user_id=?`,
		`DELETE FROM cards WHERE user_id=?`,
		`DELETE FROM reviews WHERE user_id=?`,
		`DELETE FROM campsites WHERE owner_id=?`,
	} {
		if _, err := r.q.ExecContext(ctx, stmt, userID); err != nil {
			return err
		}
	}
	// Finally delete user
	return mustAffect(r.q.ExecContext(ctx, `DELETE FROM users WHERE id=?`, userID))
}
