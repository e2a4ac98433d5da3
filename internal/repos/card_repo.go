package repos

import (
	"context"

	"campgo/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CardRepo struct{ q sqlx.ExtContext }

const cardCols = `id, user_id, card_name, card_number, card_exp_month, card_exp_year, card_cvc, is_default, created_at`

func (r *CardRepo) ListByUser(ctx context.Context, userID string) ([]domain.Card, error) {
	out := []domain.Card{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT `+cardCols+` FROM cards WHERE user_id = ? ORDER BY is_default DESC, created_at
	`, userID)
	return out, err
}

func (r *CardRepo) Get(ctx context.Context, userID, id string) (*domain.Card, error) {
	var c domain.Card
	if err := sqlx.GetContext(ctx, r.q, &c, `SELECT `+cardCols+` FROM cards WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CardRepo) Default(ctx context.Context, userID string) (*domain.Card, error) {
	var c domain.Card
	if err := sqlx.GetContext(ctx, r.q, &c, `
		SELECT `+cardCols+` FROM cards WHERE user_id = ? AND is_default = 1 LIMIT 1
	`, userID); err != nil {
		return nil, err
	}
	return &c, nil
}

// NumberTaken reports whether any other card already carries number.
func (r *CardRepo) NumberTaken(ctx context.Context, number, exceptID string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM cards WHERE card_number = ? AND id <> ?`, number, exceptID)
	return n > 0, err
}

func (r *CardRepo) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM cards WHERE user_id = ?`, userID)
	return n, err
}

func (r *CardRepo) Create(ctx context.Context, c *domain.Card) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO cards(`+cardCols+`) VALUES (?,?,?,?,?,?,?,?,?)
	`, c.ID, c.UserID, c.Name, c.Number, c.ExpMonth, c.ExpYear, c.CVC, c.IsDefault, c.CreatedAt)
	return err
}

func (r *CardRepo) Update(ctx context.Context, c *domain.Card) error {
	return mustAffect(r.q.ExecContext(ctx, `
		UPDATE cards
		SET card_name=?, card_number=?, card_exp_month=?, card_exp_year=?, card_cvc=?, is_default=?
		WHERE id=? AND user_id=?
	`, c.Name, c.Number, c.ExpMonth, c.ExpYear, c.CVC, c.IsDefault, c.ID, c.UserID))
}

func (r *CardRepo) Delete(ctx context.Context, userID, id string) error {
	return mustAffect(r.q.ExecContext(ctx, `DELETE FROM cards WHERE id=? AND user_id=?`, id, userID))
}

func (r *CardRepo) UnsetDefault(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx, `UPDATE cards SET is_default = 0 WHERE user_id = ?`, userID)
	return err
}

func (r *CardRepo) SetDefault(ctx context.Context, userID, id string) error {
	return mustAffect(r.q.ExecContext(ctx, `UPDATE cards SET is_default = 1 WHERE id = ? AND user_id = ?`, id, userID))
}

func (r *CardRepo) Oldest(ctx context.Context, userID string) (*domain.Card, error) {
	var c domain.Card
	if err := sqlx.GetContext(ctx, r.q, &c, `
		SELECT `+cardCols+` FROM cards WHERE user_id = ? ORDER BY created_at LIMIT 1
	`, userID); err != nil {
		return nil, err
	}
	return &c, nil
}
