package services

import (
	"context"
	"strings"
	"time"

	"campgo/internal/domain"
	"campgo/internal/repos"

	"github.com/google/uuid"
)

// AddressService keeps at most one default address per user. Default changes
// run "unset all, set one" inside a transaction.
type AddressService struct {
	Store *repos.Store
	Clock func() time.Time
}

func NewAddressService(store *repos.Store) *AddressService {
	return &AddressService{Store: store, Clock: time.Now}
}

type AddressInput struct {
	FullName  string `json:"fullName" validate:"required,max=100"`
	Phone     string `json:"phoneNumber" validate:"required,phone"`
	Street    string `json:"street" validate:"required,max=200"`
	Ward      string `json:"ward" validate:"max=100"`
	District  string `json:"district" validate:"max=100"`
	City      string `json:"city" validate:"required,max=100"`
	Country   string `json:"country" validate:"max=60"`
	ZipCode   string `json:"zipCode" validate:"max=12"`
	IsDefault bool   `json:"isDefault"`
}

func (in AddressInput) apply(a *domain.Address) {
	a.FullName = strings.TrimSpace(in.FullName)
	a.Phone = in.Phone
	a.Street = in.Street
	a.Ward = in.Ward
	a.District = in.District
	a.City = in.City
	a.Country = in.Country
	if a.Country == "" {
		a.Country = "Vietnam"
	}
	a.ZipCode = in.ZipCode
}

func (s *AddressService) List(ctx context.Context, userID string) ([]domain.Address, error) {
	out, err := s.Store.Addresses.ListByUser(ctx, userID)
	return out, storeErr(err, "addresses")
}

// Create adds an address. The user's first address always becomes the default.
func (s *AddressService) Create(ctx context.Context, userID string, in AddressInput) (*domain.Address, error) {
	a := &domain.Address{ID: uuid.NewString(), UserID: userID, CreatedAt: stamp(s.Clock)}
	in.apply(a)
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		n, err := tx.Addresses.Count(ctx, userID)
		if err != nil {
			return storeErr(err, "address")
		}
		a.IsDefault = in.IsDefault || n == 0
		if a.IsDefault {
			if err := tx.Addresses.UnsetDefault(ctx, userID); err != nil {
				return storeErr(err, "address")
			}
		}
		return storeErr(tx.Addresses.Create(ctx, a), "address")
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AddressService) Update(ctx context.Context, userID, id string, in AddressInput) (*domain.Address, error) {
	var out *domain.Address
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		a, err := tx.Addresses.Get(ctx, userID, id)
		if err != nil {
			return storeErr(err, "address")
		}
		in.apply(a)
		if in.IsDefault && !a.IsDefault {
			if err := tx.Addresses.UnsetDefault(ctx, userID); err != nil {
				return storeErr(err, "address")
			}
			a.IsDefault = true
		}
		if err := tx.Addresses.Update(ctx, a); err != nil {
			return storeErr(err, "address")
		}
		out = a
		return nil
	})
	return out, err
}

// Delete removes an address; if it was the default the oldest remaining one is promoted.
func (s *AddressService) Delete(ctx context.Context, userID, id string) error {
	return s.Store.InTx(ctx, func(tx *repos.Store) error {
		a, err := tx.Addresses.Get(ctx, userID, id)
		if err != nil {
			return storeErr(err, "address")
		}
		if err := tx.Addresses.Delete(ctx, userID, id); err != nil {
			return storeErr(err, "address")
		}
		if !a.IsDefault {
			return nil
		}
		next, err := tx.Addresses.Oldest(ctx, userID)
		if repos.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return storeErr(err, "address")
		}
		return storeErr(tx.Addresses.SetDefault(ctx, userID, next.ID), "address")
	})
}

func (s *AddressService) SetDefault(ctx context.Context, userID, id string) (*domain.Address, error) {
	var out *domain.Address
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		a, err := tx.Addresses.Get(ctx, userID, id)
		if err != nil {
			return storeErr(err, "address")
		}
		if err := tx.Addresses.UnsetDefault(ctx, userID); err != nil {
			return storeErr(err, "address")
		}
		if err := tx.Addresses.SetDefault(ctx, userID, id); err != nil {
			return storeErr(err, "address")
		}
		a.IsDefault = true
		out = a
		return nil
	})
	return out, err
}
