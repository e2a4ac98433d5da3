package handlers

import (
	applog "campgo/internal/log"
	"campgo/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartLineInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

type cartIDsInput struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,dive,required"`
}

// GET /api/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	cart, err := h.Cart.Get(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return ok(c, "OK", cart)
}

// POST /api/cart/add
func (h *CartHandler) Add(c *fiber.Ctx) error {
	in := cartLineInput{Quantity: 1}
	if err := bind(c, &in); err != nil {
		return err
	}
	cart, err := h.Cart.Add(c.UserContext(), userID(c), in.ProductID, in.Quantity)
	if err != nil {
		return err
	}
	applog.Info(c, "cart.add", map[string]any{"product_id": in.ProductID, "qty": in.Quantity})
	return ok(c, "Added to cart", cart)
}

// PUT /api/cart/update
func (h *CartHandler) Update(c *fiber.Ctx) error {
	var in cartLineInput
	if err := bind(c, &in); err != nil {
		return err
	}
	cart, err := h.Cart.Update(c.UserContext(), userID(c), in.ProductID, in.Quantity)
	if err != nil {
		return err
	}
	return ok(c, "Cart updated", cart)
}

// DELETE /api/cart/:productId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, err := param(c, "productId")
	if err != nil {
		return err
	}
	cart, err := h.Cart.Remove(c.UserContext(), userID(c), id)
	if err != nil {
		return err
	}
	return ok(c, "Removed from cart", cart)
}

// POST /api/cart/remove-multiple
func (h *CartHandler) RemoveMany(c *fiber.Ctx) error {
	var in cartIDsInput
	if err := bind(c, &in); err != nil {
		return err
	}
	cart, err := h.Cart.RemoveMany(c.UserContext(), userID(c), in.ProductIDs)
	if err != nil {
		return err
	}
	return ok(c, "Removed from cart", cart)
}

// DELETE /api/cart/clear
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	cart, err := h.Cart.Clear(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return ok(c, "Cart cleared", cart)
}
