package repos

import (
	"context"

	"campgo/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ q sqlx.ExtContext }

const orderCols = `
    id, user_id, total_amount, shipping_fee, transaction_id, payment_method, payment_status,
    delivery_status, shipping_address_id, waiting_confirmation, created_at, updated_at`

// Create inserts the order header and its line items.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if _, err := r.q.ExecContext(ctx, `
	  INSERT INTO orders
	    (id, user_id, total_amount, shipping_fee, transaction_id, payment_method, payment_status,
	     delivery_status, shipping_address_id, waiting_confirmation, created_at, updated_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
	`, o.ID, o.UserID, o.TotalAmount, o.ShippingFee, o.TransactionID, o.PaymentMethod, o.PaymentStatus,
		o.DeliveryStatus, o.ShippingAddressID, o.WaitingConfirmation, o.CreatedAt, o.UpdatedAt); err != nil {
		return err
	}
	for i, it := range o.Items {
		if _, err := r.q.ExecContext(ctx, `
		  INSERT INTO order_items(order_id, position, product_id, name, image, amount, quantity)
		  VALUES(?, ?, ?, ?, ?, ?, ?)
		`, o.ID, i, it.ProductID, it.Name, it.Image, it.Amount, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := sqlx.GetContext(ctx, r.q, &o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, o *domain.Order) error {
	o.Items = []domain.OrderItem{}
	return sqlx.SelectContext(ctx, r.q, &o.Items, `
		SELECT order_id, product_id, name, image, amount, quantity
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, o.ID)
}

func (r *OrderRepo) withItems(ctx context.Context, orders []domain.Order) ([]domain.Order, error) {
	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// ListByUser returns a user's orders newest first, optionally limited to one delivery status.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string, status domain.DeliveryStatus) ([]domain.Order, error) {
	where, args := `user_id = ?`, []any{userID}
	if status != "" {
		where += ` AND delivery_status = ?`
		args = append(args, status)
	}
	out := []domain.Order{}
	if err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT `+orderCols+`
		FROM orders
		WHERE `+where+`
		ORDER BY created_at DESC
	`, args...); err != nil {
		return nil, err
	}
	return r.withItems(ctx, out)
}

// List is the admin listing: filtered, newest first, one page plus the total count.
func (r *OrderRepo) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, int, error) {
	where, args := `1 = 1`, []any{}
	if f.DeliveryStatus != "" {
		where += ` AND delivery_status = ?`
		args = append(args, f.DeliveryStatus)
	}
	if f.PaymentStatus != "" {
		where += ` AND payment_status = ?`
		args = append(args, f.PaymentStatus)
	}

	var total int
	if err := sqlx.GetContext(ctx, r.q, &total, `SELECT COUNT(*) FROM orders WHERE `+where, args...); err != nil {
		return nil, 0, err
	}

	out := []domain.Order{}
	if err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT `+orderCols+`
		FROM orders
		WHERE `+where+`
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, append(args, f.Limit, (f.Page-1)*f.Limit)...); err != nil {
		return nil, 0, err
	}
	out, err := r.withItems(ctx, out)
	return out, total, err
}

func (r *OrderRepo) UpdateDelivery(ctx context.Context, id string, status domain.DeliveryStatus, waiting bool) error {
	return mustAffect(r.q.ExecContext(ctx, `
		UPDATE orders SET delivery_status = ?, waiting_confirmation = ?, updated_at = ? WHERE id = ?
	`, status, waiting, now(), id))
}

func (r *OrderRepo) UpdatePayment(ctx context.Context, id string, status domain.PaymentStatus, txID *string) error {
	return mustAffect(r.q.ExecContext(ctx, `
		UPDATE orders SET payment_status = ?, transaction_id = COALESCE(?, transaction_id), updated_at = ? WHERE id = ?
	`, status, txID, now(), id))
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	return mustAffect(r.q.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id))
}
