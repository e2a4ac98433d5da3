package handlers_test

import (
	"math"
	"net/http"
	"testing"
)

type orderView struct {
	ID             string  `json:"id"`
	TotalAmount    float64 `json:"total_amount"`
	ShippingFee    float64 `json:"shipping_fee"`
	PaymentMethod  string  `json:"payment_method"`
	PaymentStatus  string  `json:"payment_status"`
	DeliveryStatus string  `json:"delivery_status"`
	Items          []struct {
		ProductID string  `json:"product_id"`
		Amount    float64 `json:"amount"`
		Quantity  int     `json:"quantity"`
	} `json:"products"`
}

func TestCheckoutDecrementsStockAndClearsCart(t *testing.T) {
	a := newTestApp(t, roomy)
	tok := a.shopper(t)

	if status, env := a.call(t, "POST", "/api/cart/add", tok, map[string]any{"product_id": "tent-4p", "quantity": 2}); status != http.StatusOK {
		t.Fatalf("add: %d %s", status, env.Message)
	}
	if got := a.stock(t, "tent-4p"); got != 4 {
		t.Fatalf("adding to cart must not reserve stock, got %d", got)
	}

	// client-supplied totals are ignored
	status, env := a.call(t, "POST", "/api/orders/create", tok, map[string]any{
		"paymentMethod": "cod",
		"totalAmount":   0.01,
	})
	if status != http.StatusCreated {
		t.Fatalf("create: %d %s", status, env.Message)
	}
	var o orderView
	decode(t, env, &o)
	if math.Abs(o.TotalAmount-508) > 0.001 || o.ShippingFee != 10 {
		t.Fatalf("total = %.2f fee = %.2f, want 508 and 10", o.TotalAmount, o.ShippingFee)
	}
	if o.PaymentMethod != "cash_on_delivery" || o.PaymentStatus != "Pending" || o.DeliveryStatus != "Pending" {
		t.Fatalf("unexpected order state %+v", o)
	}
	if len(o.Items) != 1 || o.Items[0].Quantity != 2 {
		t.Fatalf("items = %+v", o.Items)
	}

	if got := a.stock(t, "tent-4p"); got != 2 {
		t.Fatalf("stock after checkout = %d, want 2", got)
	}

	status, env = a.call(t, "GET", "/api/cart", tok, nil)
	if status != http.StatusOK {
		t.Fatalf("cart: %d", status)
	}
	var cart struct {
		Items     []any   `json:"items"`
		CartTotal float64 `json:"cart_total"`
	}
	decode(t, env, &cart)
	if len(cart.Items) != 0 || cart.CartTotal != 0 {
		t.Fatalf("cart not emptied: %+v", cart)
	}
}

func TestCheckoutInsufficientStockLeavesEverythingAlone(t *testing.T) {
	a := newTestApp(t, roomy)
	tok := a.shopper(t)

	if status, env := a.call(t, "POST", "/api/cart/add", tok, map[string]any{"product_id": "tent-4p", "quantity": 3}); status != http.StatusOK {
		t.Fatalf("add: %d %s", status, env.Message)
	}
	if _, err := a.db.Exec(`UPDATE products SET stock_quantity = 1 WHERE id = 'tent-4p'`); err != nil {
		t.Fatal(err)
	}

	status, env := a.call(t, "POST", "/api/orders/create", tok, map[string]any{"paymentMethod": "cash_on_delivery"})
	if status != http.StatusBadRequest || env.Success {
		t.Fatalf("want 400, got %d %+v", status, env)
	}
	if got := a.stock(t, "tent-4p"); got != 1 {
		t.Fatalf("stock changed to %d", got)
	}
	var n int
	if err := a.db.Get(&n, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("orders = %d, want 0", n)
	}
	var lines int
	if err := a.db.Get(&lines, `SELECT COUNT(*) FROM cart_items`); err != nil {
		t.Fatal(err)
	}
	if lines != 1 {
		t.Fatalf("cart lines = %d, want 1", lines)
	}
}

func TestCheckoutWithoutAddressFails(t *testing.T) {
	a := newTestApp(t, roomy)
	tok := a.login(t, "camper@campgo.test")
	if status, _ := a.call(t, "POST", "/api/cart/add", tok, map[string]any{"product_id": "stove-mini", "quantity": 1}); status != http.StatusOK {
		t.Fatalf("add failed")
	}
	status, env := a.call(t, "POST", "/api/orders/create", tok, map[string]any{"paymentMethod": "cash_on_delivery"})
	if status != http.StatusBadRequest {
		t.Fatalf("want 400, got %d %s", status, env.Message)
	}
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	a := newTestApp(t, roomy)
	tok := a.shopper(t)
	admin := a.login(t, "admin@campgo.test")

	a.call(t, "POST", "/api/cart/add", tok, map[string]any{"product_id": "stove-mini", "quantity": 1})
	_, env := a.call(t, "POST", "/api/orders/create", tok, map[string]any{"paymentMethod": "cash_on_delivery"})
	var o orderView
	decode(t, env, &o)

	// a customer cannot confirm delivery before staff ships it
	if status, _ := a.call(t, "PUT", "/api/orders/"+o.ID+"/confirm-delivery", tok, nil); status != http.StatusBadRequest {
		t.Fatalf("early confirm: want 400, got %d", status)
	}

	status, env := a.call(t, "PUT", "/api/admin/orders/"+o.ID, admin, map[string]any{"waiting_confirmation": true})
	if status != http.StatusOK {
		t.Fatalf("admin confirm: %d %s", status, env.Message)
	}
	decode(t, env, &o)
	if o.DeliveryStatus != "Shipping" {
		t.Fatalf("status = %s, want Shipping", o.DeliveryStatus)
	}

	// confirmed orders can no longer be deleted
	if status, _ := a.call(t, "DELETE", "/api/orders/"+o.ID, tok, nil); status != http.StatusBadRequest {
		t.Fatalf("delete confirmed: want 400, got %d", status)
	}

	if status, env := a.call(t, "PUT", "/api/orders/"+o.ID+"/confirm-delivery", tok, nil); status != http.StatusOK {
		t.Fatalf("confirm: %d %s", status, env.Message)
	}
	status, env = a.call(t, "GET", "/api/orders/delivered", tok, nil)
	if status != http.StatusOK {
		t.Fatalf("delivered: %d", status)
	}
	var delivered []orderView
	decode(t, env, &delivered)
	if len(delivered) != 1 || delivered[0].ID != o.ID {
		t.Fatalf("delivered = %+v", delivered)
	}
	if status, _ := a.call(t, "PUT", "/api/orders/"+o.ID+"/return", tok, nil); status != http.StatusOK {
		t.Fatalf("return: %d", status)
	}
	if status, _ := a.call(t, "PUT", "/api/orders/"+o.ID+"/cancel", tok, nil); status != http.StatusBadRequest {
		t.Fatalf("cancel returned order: want 400, got %d", status)
	}
}
