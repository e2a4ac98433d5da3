package handlers

import (
	"campgo/internal/apperr"
	applog "campgo/internal/log"
	"campgo/internal/services"
	"campgo/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CampsiteHandler struct {
	Campsites *services.CampsiteService
}

// GET /api/campsites?q=
func (h *CampsiteHandler) Search(c *fiber.Ctx) error {
	q, valid := validate.Q(c.Query("q"))
	if !valid {
		return apperr.Validation("invalid search query")
	}
	out, err := h.Campsites.Search(c.UserContext(), q)
	if err != nil {
		return err
	}
	return ok(c, "OK", out)
}

// GET /api/campsites/:id
func (h *CampsiteHandler) Get(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	site, err := h.Campsites.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, "OK", site)
}

// POST /api/owner/campsites
func (h *CampsiteHandler) Create(c *fiber.Ctx) error {
	var in services.CampsiteInput
	if err := bind(c, &in); err != nil {
		return err
	}
	site, err := h.Campsites.Create(c.UserContext(), userID(c), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "campsite.create", map[string]any{"campsite_id": site.ID})
	return created(c, "Campsite created", site)
}

// GET /api/owner/campsites
func (h *CampsiteHandler) Mine(c *fiber.Ctx) error {
	out, err := h.Campsites.ListByOwner(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return ok(c, "OK", out)
}
