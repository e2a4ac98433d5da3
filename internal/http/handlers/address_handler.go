package handlers

import (
	applog "campgo/internal/log"
	"campgo/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AddressHandler serves /api/addresses and CardHandler /api/cards. Both keep
// exactly one default per user.
type AddressHandler struct {
	Addresses *services.AddressService
}

func (h *AddressHandler) List(c *fiber.Ctx) error {
	out, err := h.Addresses.List(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return ok(c, "OK", out)
}

func (h *AddressHandler) Create(c *fiber.Ctx) error {
	var in services.AddressInput
	if err := bind(c, &in); err != nil {
		return err
	}
	a, err := h.Addresses.Create(c.UserContext(), userID(c), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "address.create", map[string]any{"address_id": a.ID, "default": a.IsDefault})
	return created(c, "Address added", a)
}

func (h *AddressHandler) Update(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	var in services.AddressInput
	if err := bind(c, &in); err != nil {
		return err
	}
	a, err := h.Addresses.Update(c.UserContext(), userID(c), id, in)
	if err != nil {
		return err
	}
	return ok(c, "Address updated", a)
}

func (h *AddressHandler) Delete(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	if err := h.Addresses.Delete(c.UserContext(), userID(c), id); err != nil {
		return err
	}
	applog.Audit(c, "address.delete", map[string]any{"address_id": id})
	return ok(c, "Address deleted", nil)
}

func (h *AddressHandler) SetDefault(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	a, err := h.Addresses.SetDefault(c.UserContext(), userID(c), id)
	if err != nil {
		return err
	}
	return ok(c, "Default address updated", a)
}

type CardHandler struct {
	Cards *services.CardService
}

func (h *CardHandler) List(c *fiber.Ctx) error {
	out, err := h.Cards.List(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return ok(c, "OK", out)
}

func (h *CardHandler) Create(c *fiber.Ctx) error {
	var in services.CardInput
	if err := bind(c, &in); err != nil {
		return err
	}
	card, err := h.Cards.Create(c.UserContext(), userID(c), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "card.create", map[string]any{"card_id": card.ID, "last4": card.MaskedNumber()})
	return created(c, "Card added", card)
}

func (h *CardHandler) Update(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	var in services.CardInput
	if err := bind(c, &in); err != nil {
		return err
	}
	card, err := h.Cards.Update(c.UserContext(), userID(c), id, in)
	if err != nil {
		return err
	}
	return ok(c, "Card updated", card)
}

func (h *CardHandler) Delete(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	if err := h.Cards.Delete(c.UserContext(), userID(c), id); err != nil {
		return err
	}
	applog.Audit(c, "card.delete", map[string]any{"card_id": id})
	return ok(c, "Card deleted", nil)
}

func (h *CardHandler) SetDefault(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	card, err := h.Cards.SetDefault(c.UserContext(), userID(c), id)
	if err != nil {
		return err
	}
	return ok(c, "Default card updated", card)
}
