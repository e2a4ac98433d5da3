package repos

import (
	"context"

	"campgo/internal/domain"

	"github.com/jmoiron/sqlx"
)

// DashboardRepo holds the admin aggregates over orders.
type DashboardRepo struct{ q sqlx.ExtContext }

// revenueWhere counts money that has actually been collected.
const revenueWhere = `payment_status = 'Completed' OR delivery_status = 'Delivered'`

func (r *DashboardRepo) Revenue(ctx context.Context) (float64, error) {
	var total float64
	err := sqlx.GetContext(ctx, r.q, &total, `
		SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE `+revenueWhere)
	return total, err
}

// Monthly groups revenue and order count by YYYY-MM. An empty year means all time.
func (r *DashboardRepo) Monthly(ctx context.Context, year string) ([]domain.MonthlyStat, error) {
	where, args := `(`+revenueWhere+`)`, []any{}
	if year != "" {
		where += ` AND substr(created_at, 1, 4) = ?`
		args = append(args, year)
	}
	out := []domain.MonthlyStat{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT substr(created_at, 1, 7) AS month,
		       COALESCE(SUM(total_amount), 0) AS total,
		       COUNT(*) AS count
		FROM orders
		WHERE `+where+`
		GROUP BY month
		ORDER BY month
	`, args...)
	return out, err
}

func (r *DashboardRepo) ByDeliveryStatus(ctx context.Context) ([]domain.CountBy, error) {
	out := []domain.CountBy{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT delivery_status AS "key", COUNT(*) AS count FROM orders GROUP BY delivery_status ORDER BY 1
	`)
	return out, err
}

func (r *DashboardRepo) ByPaymentMethod(ctx context.Context) ([]domain.CountBy, error) {
	out := []domain.CountBy{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT payment_method AS "key", COUNT(*) AS count FROM orders GROUP BY payment_method ORDER BY 1
	`)
	return out, err
}
