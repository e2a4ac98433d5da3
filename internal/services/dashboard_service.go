package services

import (
	"context"

	"campgo/internal/domain"
	"campgo/internal/repos"
)

type DashboardService struct {
	Store *repos.Store
}

func NewDashboardService(store *repos.Store) *DashboardService { return &DashboardService{Store: store} }

// Stats aggregates revenue (completed payments plus delivered orders), counts
// and per-status breakdowns for the admin dashboard.
func (s *DashboardService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	var (
		st  domain.DashboardStats
		err error
	)
	if st.TotalRevenue, err = s.Store.Dashboard.Revenue(ctx); err != nil {
		return st, storeErr(err, "revenue")
	}
	if st.TotalUsers, err = s.Store.Users.CountCustomers(ctx); err != nil {
		return st, storeErr(err, "users")
	}
	if st.TotalProducts, err = s.Store.Products.Count(ctx); err != nil {
		return st, storeErr(err, "products")
	}
	if st.TotalCampsites, err = s.Store.Campsites.Count(ctx); err != nil {
		return st, storeErr(err, "campsites")
	}
	if st.MonthlyStats, err = s.Store.Dashboard.Monthly(ctx, ""); err != nil {
		return st, storeErr(err, "monthly stats")
	}
	if st.OrderStatusStats, err = s.Store.Dashboard.ByDeliveryStatus(ctx); err != nil {
		return st, storeErr(err, "order stats")
	}
	if st.PaymentMethodStats, err = s.Store.Dashboard.ByPaymentMethod(ctx); err != nil {
		return st, storeErr(err, "payment stats")
	}
	return st, nil
}

// Monthly returns revenue per month of the given year (YYYY).
func (s *DashboardService) Monthly(ctx context.Context, year string) ([]domain.MonthlyStat, error) {
	out, err := s.Store.Dashboard.Monthly(ctx, year)
	return out, storeErr(err, "monthly stats")
}
