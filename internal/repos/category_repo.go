package repos

import (
	"context"

	"campgo/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ q sqlx.ExtContext }

const categoryCols = `id, name, description, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT `+categoryCols+`
		FROM categories
		ORDER BY name
	`)
	return out, err
}

func (r *CategoryRepo) Get(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	if err := sqlx.GetContext(ctx, r.q, &c, `SELECT `+categoryCols+` FROM categories WHERE id=?`, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// NameTaken reports whether another category already uses name (case-insensitive).
func (r *CategoryRepo) NameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `
		SELECT COUNT(*) FROM categories WHERE LOWER(name)=LOWER(?) AND id<>?
	`, name, exceptID)
	return n > 0, err
}

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO categories(id, name, description, created_at) VALUES(?,?,?,?)
	`, c.ID, c.Name, c.Description, c.CreatedAt)
	return err
}

func (r *CategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	return mustAffect(r.q.ExecContext(ctx, `
		UPDATE categories SET name=?, description=?, updated_at=? WHERE id=?
	`, c.Name, c.Description, c.UpdatedAt, c.ID))
}

// ProductCount is the number of products still referencing the category.
func (r *CategoryRepo) ProductCount(ctx context.Context, id string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM products WHERE category_id=?`, id)
	return n, err
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	return mustAffect(r.q.ExecContext(ctx, `DELETE FROM categories WHERE id=?`, id))
}
