package services

import (
	"context"

	"campgo/internal/apperr"
	"campgo/internal/domain"
	"campgo/internal/events"
	"campgo/internal/validate"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// MyOrders lists the caller's orders, newest first.
func (s *OrderService) MyOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	out, err := s.Store.Orders.ListByUser(ctx, userID, "")
	if err != nil {
		return nil, storeErr(err, "orders")
	}
	for i := range out {
		s.attachProducts(ctx, &out[i])
	}
	return out, nil
}

// Delivered lists the caller's delivered orders (the ones eligible for review or return).
func (s *OrderService) Delivered(ctx context.Context, userID string) ([]domain.Order, error) {
	out, err := s.Store.Orders.ListByUser(ctx, userID, domain.DeliveryDelivered)
	if err != nil {
		return nil, storeErr(err, "orders")
	}
	for i := range out {
		s.attachProducts(ctx, &out[i])
	}
	return out, nil
}

// owned loads an order the caller may act on: their own, or any order for an admin.
func (s *OrderService) owned(ctx context.Context, p Principal, id string) (*domain.Order, error) {
	o, err := s.Store.Orders.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "order")
	}
	if o.UserID != p.UserID && !p.IsAdmin() {
		return nil, apperr.Forbidden("not your order")
	}
	return o, nil
}

func (s *OrderService) Get(ctx context.Context, p Principal, id string) (*domain.Order, error) {
	o, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	s.populate(ctx, o)
	return o, nil
}

var transitionEvents = map[domain.DeliveryStatus]string{
	domain.DeliveryShipping:  events.OrderShipped,
	domain.DeliveryDelivered: events.OrderDelivered,
	domain.DeliveryCancelled: events.OrderCancelled,
	domain.DeliveryReturned:  events.OrderReturned,
}

// transition moves o to next if the lifecycle table allows it.
func (s *OrderService) transition(ctx context.Context, o *domain.Order, next domain.DeliveryStatus, waiting bool) error {
	if !o.DeliveryStatus.CanTransition(next) {
		return apperr.Validation("cannot change delivery status from %s to %s", o.DeliveryStatus, next)
	}
	if err := s.Store.Orders.UpdateDelivery(ctx, o.ID, next, waiting); err != nil {
		return storeErr(err, "order")
	}
	s.Logger.Info("order.status",
		zap.String("order_id", o.ID),
		zap.String("from", string(o.DeliveryStatus)),
		zap.String("to", string(next)),
	)
	o.DeliveryStatus, o.WaitingConfirmation = next, waiting
	o.UpdatedAt = stamp(s.Clock)
	s.publish(ctx, transitionEvents[next], o)
	return nil
}

func (s *OrderService) customerTransition(ctx context.Context, p Principal, id string, next domain.DeliveryStatus, span string) (*domain.Order, error) {
	ctx, sp := tracer.Start(ctx, span)
	defer sp.End()
	sp.SetAttributes(attribute.String("order.id", id))

	o, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, o, next, o.WaitingConfirmation); err != nil {
		return nil, err
	}
	s.populate(ctx, o)
	return o, nil
}

// ConfirmDelivery records that the customer received a shipping order.
func (s *OrderService) ConfirmDelivery(ctx context.Context, p Principal, id string) (*domain.Order, error) {
	return s.customerTransition(ctx, p, id, domain.DeliveryDelivered, "OrderService.ConfirmDelivery")
}

// Return marks a delivered order as returned. No money moves.
func (s *OrderService) Return(ctx context.Context, p Principal, id string) (*domain.Order, error) {
	return s.customerTransition(ctx, p, id, domain.DeliveryReturned, "OrderService.Return")
}

// Cancel stops a pending or shipping order. Stock is not restored.
func (s *OrderService) Cancel(ctx context.Context, p Principal, id string) (*domain.Order, error) {
	return s.customerTransition(ctx, p, id, domain.DeliveryCancelled, "OrderService.Cancel")
}

// Delete removes an order that staff has not confirmed yet.
func (s *OrderService) Delete(ctx context.Context, p Principal, id string) error {
	o, err := s.owned(ctx, p, id)
	if err != nil {
		return err
	}
	if !o.Deletable() {
		return apperr.Validation("only pending, unconfirmed orders can be deleted")
	}
	if err := s.Store.Orders.Delete(ctx, o.ID); err != nil {
		return storeErr(err, "order")
	}
	s.publish(ctx, events.OrderDeleted, o)
	return nil
}

// AdminList returns one filtered page of all orders.
func (s *OrderService) AdminList(ctx context.Context, f domain.OrderFilter) ([]domain.Order, domain.Pagination, error) {
	if f.DeliveryStatus != "" && !f.DeliveryStatus.Valid() {
		return nil, domain.Pagination{}, apperr.Validation("unknown delivery status %q", f.DeliveryStatus)
	}
	if f.PaymentStatus != "" && !f.PaymentStatus.Valid() {
		return nil, domain.Pagination{}, apperr.Validation("unknown payment status %q", f.PaymentStatus)
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	out, total, err := s.Store.Orders.List(ctx, f)
	if err != nil {
		return nil, domain.Pagination{}, storeErr(err, "orders")
	}
	for i := range out {
		s.populate(ctx, &out[i])
	}
	return out, pagination(total, f.Page, f.Limit), nil
}

type AdminOrderUpdate struct {
	WaitingConfirmation *bool                  `json:"waiting_confirmation"`
	DeliveryStatus      *domain.DeliveryStatus `json:"delivery_status"`
}

// AdminUpdate applies staff changes. Confirming a pending order
// (waiting_confirmation=true) moves it to Shipping and mails the customer.
func (s *OrderService) AdminUpdate(ctx context.Context, id string, in AdminOrderUpdate) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.AdminUpdate")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", id))

	o, err := s.Store.Orders.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "order")
	}

	if in.WaitingConfirmation != nil && *in.WaitingConfirmation != o.WaitingConfirmation {
		if !*in.WaitingConfirmation {
			if o.DeliveryStatus != domain.DeliveryPending {
				return nil, apperr.Validation("cannot withdraw confirmation of a %s order", o.DeliveryStatus)
			}
			if err := s.Store.Orders.UpdateDelivery(ctx, o.ID, o.DeliveryStatus, false); err != nil {
				return nil, storeErr(err, "order")
			}
			o.WaitingConfirmation = false
		} else {
			next := o.DeliveryStatus
			if next == domain.DeliveryPending {
				next = domain.DeliveryShipping
			}
			if next != o.DeliveryStatus {
				if err := s.transition(ctx, o, next, true); err != nil {
					return nil, err
				}
			} else if err := s.Store.Orders.UpdateDelivery(ctx, o.ID, next, true); err != nil {
				return nil, storeErr(err, "order")
			}
			o.WaitingConfirmation = true
			if u, err := s.Store.Users.ByID(ctx, o.UserID); err == nil {
				s.Notify.OrderConfirmed(u, o)
			}
		}
	}

	if in.DeliveryStatus != nil && *in.DeliveryStatus != o.DeliveryStatus {
		if !in.DeliveryStatus.Valid() {
			return nil, apperr.Validation("unknown delivery status %q", *in.DeliveryStatus)
		}
		if err := s.transition(ctx, o, *in.DeliveryStatus, o.WaitingConfirmation); err != nil {
			return nil, err
		}
	}

	s.populate(ctx, o)
	return o, nil
}

type PaymentUpdate struct {
	PaymentStatus domain.PaymentStatus `json:"payment_status" validate:"required"`
	TransactionID *string              `json:"transaction_id"`
}

func (s *OrderService) AdminUpdatePayment(ctx context.Context, id string, in PaymentUpdate) (*domain.Order, error) {
	if !in.PaymentStatus.Valid() {
		return nil, apperr.Validation("unknown payment status %q", in.PaymentStatus)
	}
	if in.TransactionID != nil {
		if _, ok := validate.ID(*in.TransactionID); !ok {
			return nil, apperr.Validation("invalid transaction id")
		}
	}
	if err := s.Store.Orders.UpdatePayment(ctx, id, in.PaymentStatus, in.TransactionID); err != nil {
		return nil, storeErr(err, "order")
	}
	o, err := s.Store.Orders.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "order")
	}
	s.populate(ctx, o)
	return o, nil
}

func (s *OrderService) AdminGet(ctx context.Context, id string) (*domain.Order, error) {
	return s.Get(ctx, Principal{Role: domain.RoleAdmin}, id)
}

func (s *OrderService) AdminDelete(ctx context.Context, id string) error {
	return s.Delete(ctx, Principal{Role: domain.RoleAdmin}, id)
}
