package services

import (
	"context"
	"time"

	"campgo/internal/apperr"
	"campgo/internal/domain"
	"campgo/internal/repos"
)

// CartService mutates a user's cart. Every mutation loads, changes and saves
// the whole cart inside one transaction and recomputes the totals.
//
// Adding to the cart does not reserve stock; stock moves only at checkout.
type CartService struct {
	Store *repos.Store
	Clock func() time.Time
}

func NewCartService(store *repos.Store) *CartService {
	return &CartService{Store: store, Clock: time.Now}
}

// Get returns the cart (created empty if absent) with live products attached.
func (s *CartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	c, err := s.Store.Carts.Ensure(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "cart")
	}
	c.Recompute()
	for i := range c.Items {
		if p, err := s.Store.Products.Get(ctx, c.Items[i].ProductID); err == nil {
			c.Items[i].Product = p
		}
	}
	return c, nil
}

func (s *CartService) mutate(ctx context.Context, userID string, fn func(tx *repos.Store, c *domain.Cart) error) (*domain.Cart, error) {
	var out *domain.Cart
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		c, err := tx.Carts.Ensure(ctx, userID)
		if err != nil {
			return storeErr(err, "cart")
		}
		if err := fn(tx, c); err != nil {
			return err
		}
		c.Recompute()
		if err := tx.Carts.Save(ctx, c); err != nil {
			return storeErr(err, "cart")
		}
		out = c
		return nil
	})
	return out, err
}

// Add puts qty units of a product in the cart, merging with an existing line.
// The line is re-priced at the product's current discounted price.
func (s *CartService) Add(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error) {
	if qty <= 0 {
		return nil, apperr.Validation("quantity must be greater than 0")
	}
	return s.mutate(ctx, userID, func(tx *repos.Store, c *domain.Cart) error {
		p, err := tx.Products.Get(ctx, productID)
		if err != nil {
			return storeErr(err, "product")
		}
		if !p.Active {
			return apperr.NotFound("product not found")
		}
		if p.Stock <= 0 {
			return apperr.InsufficientStock(p.Name)
		}

		idx := c.Index(productID)
		merged := qty
		if idx >= 0 {
			merged += c.Items[idx].Quantity
		}
		if merged > p.Stock {
			return apperr.InsufficientStock(p.Name)
		}

		if idx >= 0 {
			c.Items[idx].Quantity = merged
			c.Items[idx].Price = p.DiscountedPrice()
			return nil
		}
		c.Items = append(c.Items, domain.CartItem{
			ProductID: productID,
			Quantity:  qty,
			Price:     p.DiscountedPrice(),
			AddedAt:   stamp(s.Clock),
		})
		return nil
	})
}

// Update sets a line's quantity. A quantity of zero or less removes the line.
func (s *CartService) Update(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error) {
	return s.mutate(ctx, userID, func(tx *repos.Store, c *domain.Cart) error {
		idx := c.Index(productID)
		if idx < 0 {
			return apperr.NotFound("product not in cart")
		}
		if qty <= 0 {
			c.Remove(productID)
			return nil
		}
		p, err := tx.Products.Get(ctx, productID)
		if err != nil {
			return storeErr(err, "product")
		}
		if qty > p.Stock {
			return apperr.InsufficientStock(p.Name)
		}
		c.Items[idx].Quantity = qty
		c.Items[idx].Price = p.DiscountedPrice()
		return nil
	})
}

func (s *CartService) Remove(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	return s.mutate(ctx, userID, func(_ *repos.Store, c *domain.Cart) error {
		if c.Remove(productID) == 0 {
			return apperr.NotFound("product not in cart")
		}
		return nil
	})
}

// RemoveMany drops every listed product; ids not in the cart are ignored.
func (s *CartService) RemoveMany(ctx context.Context, userID string, productIDs []string) (*domain.Cart, error) {
	if len(productIDs) == 0 {
		return nil, apperr.Validation("product_ids is required")
	}
	return s.mutate(ctx, userID, func(_ *repos.Store, c *domain.Cart) error {
		c.Remove(productIDs...)
		return nil
	})
}

func (s *CartService) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.mutate(ctx, userID, func(_ *repos.Store, c *domain.Cart) error {
		c.Clear()
		return nil
	})
}
