package repos

import (
	"context"
	"strings"

	"campgo/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CampsiteRepo struct{ q sqlx.ExtContext }

const campsiteCols = `id, owner_id, name, location, description, price_per_night, capacity, images_json, active, created_at`

// Search lists active campsites whose name or location contains q.
func (r *CampsiteRepo) Search(ctx context.Context, q string) ([]domain.Campsite, error) {
	where, args := `active = 1`, []any{}
	if q = strings.ToLower(strings.TrimSpace(q)); q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(location) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	out := []domain.Campsite{}
	err := sqlx.SelectContext(ctx, r.q, &out, `SELECT `+campsiteCols+` FROM campsites WHERE `+where+` ORDER BY created_at DESC`, args...)
	return out, err
}

func (r *CampsiteRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Campsite, error) {
	out := []domain.Campsite{}
	err := sqlx.SelectContext(ctx, r.q, &out, `SELECT `+campsiteCols+` FROM campsites WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	return out, err
}

func (r *CampsiteRepo) Get(ctx context.Context, id string) (*domain.Campsite, error) {
	var c domain.Campsite
	if err := sqlx.GetContext(ctx, r.q, &c, `SELECT `+campsiteCols+` FROM campsites WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampsiteRepo) Create(ctx context.Context, c *domain.Campsite) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO campsites(`+campsiteCols+`) VALUES (?,?,?,?,?,?,?,?,?,?)
	`, c.ID, c.OwnerID, c.Name, c.Location, c.Description, c.PricePerNight, c.Capacity, c.Images, c.Active, c.CreatedAt)
	return err
}

func (r *CampsiteRepo) Delete(ctx context.Context, id string) error {
	return mustAffect(r.q.ExecContext(ctx, `DELETE FROM campsites WHERE id = ?`, id))
}

func (r *CampsiteRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM campsites`)
	return n, err
}
