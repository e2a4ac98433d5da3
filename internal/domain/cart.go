package domain

import "campgo/internal/pricing"

type CartItem struct {
	ProductID string  `db:"product_id" json:"product_id"`
	Quantity  int     `db:"quantity" json:"quantity"`
	Price     float64 `db:"price" json:"price"` // unit price snapshot at add time
	Total     float64 `db:"total" json:"total"`
	AddedAt   string  `db:"added_at" json:"added_at"`

	Product *Product `db:"-" json:"product,omitempty"`
}

// Cart is a user's single cart. It is emptied, never deleted.
type Cart struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"user_id"`
	CartTotal float64    `db:"cart_total" json:"cart_total"`
	UpdatedAt string     `db:"updated_at" json:"updated_at"`
	Items     []CartItem `db:"-" json:"items"`
}

func (c *Cart) Empty() bool { return len(c.Items) == 0 }

// Index returns the position of productID's line, or -1.
func (c *Cart) Index(productID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// Recompute rebuilds every line total and the cart total from scratch.
func (c *Cart) Recompute() {
	totals := make([]float64, len(c.Items))
	for i := range c.Items {
		c.Items[i].Total = pricing.Line(c.Items[i].Price, c.Items[i].Quantity)
		totals[i] = c.Items[i].Total
	}
	c.CartTotal = pricing.Sum(totals...)
}

// Remove drops the lines for the given products and returns how many were removed.
func (c *Cart) Remove(productIDs ...string) int {
	drop := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		drop[id] = struct{}{}
	}
	kept := c.Items[:0]
	for _, it := range c.Items {
		if _, ok := drop[it.ProductID]; !ok {
			kept = append(kept, it)
		}
	}
	removed := len(c.Items) - len(kept)
	c.Items = kept
	c.Recompute()
	return removed
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.CartTotal = 0
}

// Select returns copies of the lines matching the request; all lines when it names none.
func (c *Cart) Select(req PurchaseRequest) []CartItem {
	out := make([]CartItem, 0, len(c.Items))
	for _, it := range c.Items {
		if req.Includes(it.ProductID) {
			out = append(out, it)
		}
	}
	return out
}
