package services

import (
	"context"

	"campgo/internal/apperr"
	"campgo/internal/domain"
	"campgo/internal/repos"
)

// UserService is the admin view of customer accounts.
type UserService struct {
	Store *repos.Store
}

func NewUserService(store *repos.Store) *UserService { return &UserService{Store: store} }

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	out, err := s.Store.Users.ListCustomers(ctx)
	return out, storeErr(err, "users")
}

// Delete removes a customer or owner and their personal data. Orders are kept
// for audit; unshipped ones are cancelled. Admin accounts cannot be deleted here.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.Store.InTx(ctx, func(tx *repos.Store) error {
		u, err := tx.Users.ByID(ctx, id)
		if err != nil {
			return storeErr(err, "user")
		}
		if u.IsAdmin() {
			return apperr.Forbidden("admin accounts cannot be deleted")
		}
		return storeErr(tx.Users.DeleteUserCascade(ctx, id), "user")
	})
}
