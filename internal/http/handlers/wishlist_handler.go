package handlers

import (
	"campgo/internal/services"

	"github.com/gofiber/fiber/v2"
)

type WishlistHandler struct {
	Wish *services.WishlistService
}

// GET /api/wishlist
func (h *WishlistHandler) List(c *fiber.Ctx) error {
	items, err := h.Wish.List(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return ok(c, "OK", items)
}

// POST /api/wishlist/add
func (h *WishlistHandler) Save(c *fiber.Ctx) error {
	var in struct {
		ProductID string `json:"product_id" validate:"required"`
	}
	if err := bind(c, &in); err != nil {
		return err
	}
	if err := h.Wish.Save(c.UserContext(), userID(c), in.ProductID); err != nil {
		return err
	}
	return ok(c, "Saved to wishlist", nil)
}

// DELETE /api/wishlist/:productId
func (h *WishlistHandler) Unsave(c *fiber.Ctx) error {
	id, err := param(c, "productId")
	if err != nil {
		return err
	}
	if err := h.Wish.Unsave(c.UserContext(), userID(c), id); err != nil {
		return err
	}
	return ok(c, "Removed from wishlist", nil)
}
