package repos

import (
	"context"

	"campgo/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ReviewRepo struct{ q sqlx.ExtContext }

func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO reviews(id, product_id, user_id, rating, comment, images_json, created_at)
		VALUES (?,?,?,?,?,?,?)
	`, rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Comment, rv.Images, rv.CreatedAt)
	return err
}

func (r *ReviewRepo) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	out := []domain.Review{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT rv.id, rv.product_id, rv.user_id, COALESCE(u.user_name,'') AS user_name,
		       rv.rating, rv.comment, rv.images_json, rv.created_at
		FROM reviews rv
		LEFT JOIN users u ON u.id = rv.user_id
		WHERE rv.product_id = ?
		ORDER BY rv.created_at DESC
	`, productID)
	return out, err
}
