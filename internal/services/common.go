package services

import (
	"context"
	"errors"
	"time"

	"campgo/internal/apperr"
	"campgo/internal/domain"
	"campgo/internal/repos"
)

// Principal is the authenticated caller, taken from the verified token.
type Principal struct {
	UserID string
	Role   string
}

func (p Principal) IsAdmin() bool { return p.Role == domain.RoleAdmin }

// Notifier sends best-effort customer email. Implementations must not block.
type Notifier interface {
	Welcome(u *domain.User)
	OrderPlaced(u *domain.User, o *domain.Order)
	OrderConfirmed(u *domain.User, o *domain.Order)
}

type nopNotifier struct{}

func (nopNotifier) Welcome(*domain.User)                       {}
func (nopNotifier) OrderPlaced(*domain.User, *domain.Order)    {}
func (nopNotifier) OrderConfirmed(*domain.User, *domain.Order) {}

// storeErr maps a repo error onto the error taxonomy.
func storeErr(err error, what string) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	if repos.IsNotFound(err) {
		return apperr.NotFound("%s not found", what)
	}
	return apperr.Internal(err, "%s", what)
}

func stamp(clock func() time.Time) string {
	if clock == nil {
		clock = time.Now
	}
	return repos.Timestamp(clock())
}

// deleteImages removes media in the background; failures only get logged.
func deleteImages(del func(ctx context.Context, publicID string) error, onErr func(id string, err error), images domain.Images) {
	if del == nil || len(images) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, im := range images {
			if im.PublicID == "" {
				continue
			}
			if err := del(ctx, im.PublicID); err != nil && onErr != nil {
				onErr(im.PublicID, err)
			}
		}
	}()
}
