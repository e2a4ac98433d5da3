package repos

import (
	"context"

	"campgo/internal/domain"

	"github.com/jmoiron/sqlx"
)

type AddressRepo struct{ q sqlx.ExtContext }

const addressCols = `id, user_id, full_name, phone_number, street, ward, district, city, country, zip_code, is_default, created_at`

func (r *AddressRepo) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	out := []domain.Address{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT `+addressCols+` FROM addresses
		WHERE user_id = ?
		ORDER BY is_default DESC, created_at
	`, userID)
	return out, err
}

// Get returns the address only if it belongs to userID.
func (r *AddressRepo) Get(ctx context.Context, userID, id string) (*domain.Address, error) {
	var a domain.Address
	if err := sqlx.GetContext(ctx, r.q, &a, `SELECT `+addressCols+` FROM addresses WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return nil, err
	}
	return &a, nil
}

// ByID ignores ownership; orders keep a reference that may outlive the owner check.
func (r *AddressRepo) ByID(ctx context.Context, id string) (*domain.Address, error) {
	var a domain.Address
	if err := sqlx.GetContext(ctx, r.q, &a, `SELECT `+addressCols+` FROM addresses WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AddressRepo) Default(ctx context.Context, userID string) (*domain.Address, error) {
	var a domain.Address
	if err := sqlx.GetContext(ctx, r.q, &a, `
		SELECT `+addressCols+` FROM addresses WHERE user_id = ? AND is_default = 1 LIMIT 1
	`, userID); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AddressRepo) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM addresses WHERE user_id = ?`, userID)
	return n, err
}

func (r *AddressRepo) Create(ctx context.Context, a *domain.Address) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO addresses(`+addressCols+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
	`, a.ID, a.UserID, a.FullName, a.Phone, a.Street, a.Ward, a.District, a.City, a.Country, a.ZipCode, a.IsDefault, a.CreatedAt)
	return err
}

func (r *AddressRepo) Update(ctx context.Context, a *domain.Address) error {
	return mustAffect(r.q.ExecContext(ctx, `
		UPDATE addresses
		SET full_name=?, phone_number=?, street=?, ward=?, district=?, city=?, country=?, zip_code=?, is_default=?
		WHERE id=? AND user_id=?
	`, a.FullName, a.Phone, a.Street, a.Ward, a.District, a.City, a.Country, a.ZipCode, a.IsDefault, a.ID, a.UserID))
}

func (r *AddressRepo) Delete(ctx context.Context, userID, id string) error {
	return mustAffect(r.q.ExecContext(ctx, `DELETE FROM addresses WHERE id=? AND user_id=?`, id, userID))
}

// UnsetDefault clears the default flag on every address of the user.
func (r *AddressRepo) UnsetDefault(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx, `UPDATE addresses SET is_default = 0 WHERE user_id = ?`, userID)
	return err
}

func (r *AddressRepo) SetDefault(ctx context.Context, userID, id string) error {
	return mustAffect(r.q.ExecContext(ctx, `UPDATE addresses SET is_default = 1 WHERE id = ? AND user_id = ?`, id, userID))
}

// Oldest returns the user's earliest address, used to promote a new default.
func (r *AddressRepo) Oldest(ctx context.Context, userID string) (*domain.Address, error) {
	var a domain.Address
	if err := sqlx.GetContext(ctx, r.q, &a, `
		SELECT `+addressCols+` FROM addresses WHERE user_id = ? ORDER BY created_at LIMIT 1
	`, userID); err != nil {
		return nil, err
	}
	return &a, nil
}
