package handlers

import (
	"context"

	"campgo/internal/domain"
	applog "campgo/internal/log"
	"campgo/internal/services"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Order *services.OrderService
}

type createOrderInput struct {
	PaymentMethod    string   `json:"paymentMethod" validate:"required"`
	SelectedProducts []string `json:"selectedProducts" validate:"omitempty,dive,required"`
}

// POST /api/orders/create
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in createOrderInput
	if err := bind(c, &in); err != nil {
		return err
	}
	o, err := h.Order.CreateOrder(c.UserContext(), userID(c), domain.PurchaseRequest{
		PaymentMethod: in.PaymentMethod,
		ProductIDs:    in.SelectedProducts,
	})
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"reason": err.Error()})
		return err
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id":       o.ID,
		"total_amount":   o.TotalAmount,
		"payment_method": o.PaymentMethod,
	})
	return created(c, "Order placed successfully", o)
}

// GET /api/orders/my-orders
func (h *OrderHandler) Mine(c *fiber.Ctx) error {
	orders, err := h.Order.MyOrders(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return ok(c, "OK", orders)
}

// GET /api/orders/delivered
func (h *OrderHandler) Delivered(c *fiber.Ctx) error {
	orders, err := h.Order.Delivered(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return ok(c, "OK", orders)
}

// GET /api/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	o, err := h.Order.Get(c.UserContext(), principal(c), id)
	if err != nil {
		return err
	}
	return ok(c, "OK", o)
}

// lifecycle runs one customer status change on the order named in the path.
func lifecycle(c *fiber.Ctx, action, message string, fn func(context.Context, services.Principal, string) (*domain.Order, error)) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	o, err := fn(c.UserContext(), principal(c), id)
	if err != nil {
		return err
	}
	applog.Audit(c, action, map[string]any{"order_id": o.ID, "delivery_status": o.DeliveryStatus})
	return ok(c, message, o)
}

// PUT /api/orders/:id/confirm-delivery
func (h *OrderHandler) ConfirmDelivery(c *fiber.Ctx) error {
	return lifecycle(c, "order.confirm_delivery", "Delivery confirmed", h.Order.ConfirmDelivery)
}

// PUT /api/orders/:id/return
func (h *OrderHandler) Return(c *fiber.Ctx) error {
	return lifecycle(c, "order.return", "Order returned", h.Order.Return)
}

// PUT /api/orders/:id/cancel
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	return lifecycle(c, "order.cancel", "Order cancelled", h.Order.Cancel)
}

// DELETE /api/orders/:id
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	if err := h.Order.Delete(c.UserContext(), principal(c), id); err != nil {
		return err
	}
	applog.Audit(c, "order.delete", map[string]any{"order_id": id})
	return ok(c, "Order deleted", nil)
}
