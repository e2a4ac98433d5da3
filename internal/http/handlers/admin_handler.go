package handlers

import (
	"campgo/internal/apperr"
	"campgo/internal/domain"
	applog "campgo/internal/log"
	"campgo/internal/services"
	"campgo/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Orders    *services.OrderService
	Dashboard *services.DashboardService
	Catalog   *services.CatalogService
	Users     *services.UserService
	Campsites *services.CampsiteService
}

// GET /admin
func (h *AdminHandler) Page(c *fiber.Ctx) error {
	st, err := h.Dashboard.Stats(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load dashboard"})
	}
	recent, _, err := h.Orders.AdminList(c.UserContext(), domain.OrderFilter{Limit: 10})
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
	}
	return render(c, "admin_dashboard", fiber.Map{"Stats": st, "Orders": recent})
}

// GET /api/admin/orders?delivery_status=&payment_status=&page=&limit=
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	page, limit := validate.Page(c.Query("page"), c.Query("limit"), 10)
	orders, pg, err := h.Orders.AdminList(c.UserContext(), domain.OrderFilter{
		DeliveryStatus: domain.DeliveryStatus(c.Query("delivery_status")),
		PaymentStatus:  domain.PaymentStatus(c.Query("payment_status")),
		Page:           page,
		Limit:          limit,
	})
	if err != nil {
		return err
	}
	return ok(c, "OK", fiber.Map{"orders": orders, "pagination": pg})
}

func (h *AdminHandler) GetOrder(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	o, err := h.Orders.AdminGet(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, "OK", o)
}

// PUT /api/admin/orders/:id
func (h *AdminHandler) UpdateOrder(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	var in services.AdminOrderUpdate
	if err := bind(c, &in); err != nil {
		return err
	}
	o, err := h.Orders.AdminUpdate(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.orders.update", map[string]any{
		"order_id":             o.ID,
		"delivery_status":      o.DeliveryStatus,
		"waiting_confirmation": o.WaitingConfirmation,
	})
	return ok(c, "Order updated", o)
}

// PUT /api/admin/orders/:id/payment
func (h *AdminHandler) UpdatePayment(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	var in services.PaymentUpdate
	if err := bind(c, &in); err != nil {
		return err
	}
	o, err := h.Orders.AdminUpdatePayment(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.orders.payment", map[string]any{"order_id": o.ID, "payment_status": o.PaymentStatus})
	return ok(c, "Payment updated", o)
}

func (h *AdminHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	if err := h.Orders.AdminDelete(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "admin.orders.delete", map[string]any{"order_id": id})
	return ok(c, "Order deleted", nil)
}

// GET /api/admin/dashboard
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	st, err := h.Dashboard.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, "OK", st)
}

// GET /api/admin/dashboard/monthly?year=
func (h *AdminHandler) Monthly(c *fiber.Ctx) error {
	year := c.Query("year")
	if year != "" {
		var valid bool
		if year, valid = validate.Year(year); !valid {
			return apperr.Validation("year must be YYYY")
		}
	}
	out, err := h.Dashboard.Monthly(c.UserContext(), year)
	if err != nil {
		return err
	}
	return ok(c, "OK", out)
}

func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := bind(c, &in); err != nil {
		return err
	}
	p, err := h.Catalog.CreateProduct(c.UserContext(), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product_id": p.ID})
	return created(c, "Product created", p.View())
}

func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	var in services.ProductInput
	if err := bind(c, &in); err != nil {
		return err
	}
	p, err := h.Catalog.UpdateProduct(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product_id": p.ID, "stock": p.Stock})
	return ok(c, "Product updated", p.View())
}

func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product_id": id})
	return ok(c, "Product deleted", nil)
}

func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var in services.CategoryInput
	if err := bind(c, &in); err != nil {
		return err
	}
	cat, err := h.Catalog.CreateCategory(c.UserContext(), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.categories.create", map[string]any{"category_id": cat.ID})
	return created(c, "Category created", cat)
}

func (h *AdminHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	var in services.CategoryInput
	if err := bind(c, &in); err != nil {
		return err
	}
	cat, err := h.Catalog.UpdateCategory(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return ok(c, "Category updated", cat)
}

func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteCategory(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "admin.categories.delete", map[string]any{"category_id": id})
	return ok(c, "Category deleted", nil)
}

// GET /api/admin/users lists customers and owners.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Users.List(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, "OK", users)
}

// DeleteUser removes a user and their personal data; their orders stay, unshipped ones cancelled.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	if err := h.Users.Delete(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return ok(c, "User deleted", nil)
}

func (h *AdminHandler) DeleteCampsite(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	if err := h.Campsites.Delete(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "admin.campsites.delete", map[string]any{"campsite_id": id})
	return ok(c, "Campsite deleted", nil)
}
