package services

import (
	"context"

	"campgo/internal/domain"
	"campgo/internal/repos"
)

type WishlistService struct {
	Store *repos.Store
}

func NewWishlistService(store *repos.Store) *WishlistService { return &WishlistService{Store: store} }

// Save is idempotent; the product must exist.
func (s *WishlistService) Save(ctx context.Context, userID, productID string) error {
	if _, err := s.Store.Products.Get(ctx, productID); err != nil {
		return storeErr(err, "product")
	}
	return storeErr(s.Store.Wishlists.Add(ctx, userID, productID), "wishlist")
}

func (s *WishlistService) Unsave(ctx context.Context, userID, productID string) error {
	return storeErr(s.Store.Wishlists.Remove(ctx, userID, productID), "wishlist item")
}

func (s *WishlistService) List(ctx context.Context, userID string) ([]domain.ProductView, error) {
	prods, err := s.Store.Wishlists.List(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "wishlist")
	}
	out := make([]domain.ProductView, len(prods))
	for i := range prods {
		out[i] = prods[i].View()
	}
	return out, nil
}
