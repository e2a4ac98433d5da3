package handlers

import (
	"campgo/internal/apperr"
	applog "campgo/internal/log"
	"campgo/internal/services"
	"campgo/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Reviews *services.ReviewService
}

// GET /api/products?q=&category=&page=&limit=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q, valid := validate.Q(c.Query("q"))
	if !valid {
		applog.Security(c, "validation.fail", map[string]any{"field": "q"})
		return apperr.Validation("invalid search query")
	}
	category := c.Query("category")
	if category != "" {
		if category, valid = validate.ID(category); !valid {
			return apperr.Validation("invalid category")
		}
	}
	page, limit := validate.Page(c.Query("page"), c.Query("limit"), 12)

	items, pg, err := h.Catalog.Search(c.UserContext(), q, category, page, limit)
	if err != nil {
		return err
	}
	return ok(c, "OK", fiber.Map{"products": items, "pagination": pg})
}

// GET /api/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, "OK", p)
}

// GET /api/categories
func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, "OK", cats)
}

// GET /api/products/:id/reviews
func (h *ProductHandler) ListReviews(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	sum, err := h.Reviews.ForProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, "OK", sum)
}

// POST /api/products/reviews
func (h *ProductHandler) CreateReview(c *fiber.Ctx) error {
	var in services.ReviewInput
	if err := bind(c, &in); err != nil {
		return err
	}
	rv, err := h.Reviews.Create(c.UserContext(), userID(c), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "review.create", map[string]any{"product_id": rv.ProductID, "rating": rv.Rating})
	return created(c, "Review added", rv)
}
