package repos

import (
	"context"
	"strings"

	"campgo/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ q sqlx.ExtContext }

const productCols = `
    id, category_id, name, description, brand, price, discount, stock_quantity, sold,
    images_json, active, created_at, COALESCE(updated_at,'') AS updated_at`

// ProductQuery filters the catalog listing. Zero values mean "no filter".
type ProductQuery struct {
	Q               string
	CategoryID      string
	IncludeInactive bool
	Limit, Offset   int
}

func (r *ProductRepo) Get(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := sqlx.GetContext(ctx, r.q, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// Search returns one page of matching products and the total match count.
func (r *ProductRepo) Search(ctx context.Context, pq ProductQuery) ([]domain.Product, int, error) {
	where := `1 = 1`
	args := []any{}
	if !pq.IncludeInactive {
		where += ` AND active = 1`
	}
	if q := strings.ToLower(strings.TrimSpace(pq.Q)); q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	if pq.CategoryID != "" {
		where += ` AND category_id = ?`
		args = append(args, pq.CategoryID)
	}

	var total int
	if err := sqlx.GetContext(ctx, r.q, &total, `SELECT COUNT(*) FROM products WHERE `+where, args...); err != nil {
		return nil, 0, err
	}

	limit := pq.Limit
	if limit <= 0 {
		limit = 20
	}
	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT `+productCols+`
		FROM products
		WHERE `+where+`
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?`, append(args, limit, pq.Offset)...)
	return out, total, err
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO products(
			id, category_id, name, description, brand, price, discount, stock_quantity, sold, images_json, active, created_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
	`, p.ID, p.CategoryID, p.Name, p.Description, p.Brand, p.Price, p.Discount, p.Stock, p.Sold, p.Images, p.Active, p.CreatedAt)
	return err
}

func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	return mustAffect(r.q.ExecContext(ctx, `
		UPDATE products
		SET category_id=?, name=?, description=?, brand=?, price=?, discount=?,
		    stock_quantity=?, images_json=?, active=?, updated_at=?
		WHERE id=?
	`, p.CategoryID, p.Name, p.Description, p.Brand, p.Price, p.Discount, p.Stock, p.Images, p.Active, p.UpdatedAt, p.ID))
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return mustAffect(r.q.ExecContext(ctx, `DELETE FROM products WHERE id=?`, id))
}

func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM products`)
	return n, err
}

// ReserveStock atomically moves qty units from stock to sold if enough stock
// exists. It reports false, with no change, when stock is short or the product
// is gone.
func (r *ProductRepo) ReserveStock(ctx context.Context, productID string, qty int) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - ?, sold = sold + ?, updated_at = ?
		WHERE id = ? AND active = 1 AND stock_quantity >= ?
	`, qty, qty, now(), productID, qty)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
