package handlers_test

import (
	"net/http"
	"testing"
)

func TestAdminOrderUpdateIsAudited(t *testing.T) {
	logs := observeLogs(t)
	a := newTestApp(t, roomy)
	tok := a.shopper(t)
	admin := a.login(t, "admin@campgo.test")

	a.call(t, "POST", "/api/cart/add", tok, map[string]any{"product_id": "bag-0c", "quantity": 1})
	status, env := a.call(t, "POST", "/api/orders/create", tok, map[string]any{"paymentMethod": "cash_on_delivery"})
	if status != http.StatusCreated {
		t.Fatalf("create: %d %s", status, env.Message)
	}
	var o orderView
	decode(t, env, &o)

	placed := logs.FilterMessage("order.place").All()
	if len(placed) != 1 {
		t.Fatalf("order.place entries = %d", len(placed))
	}
	if f := fieldsOf(t, placed[0]); f["order_id"] != o.ID || f["kind"] != "audit" {
		t.Fatalf("order.place fields = %v", f)
	}

	status, env = a.call(t, "PUT", "/api/admin/orders/"+o.ID, admin, map[string]any{"waiting_confirmation": true})
	if status != http.StatusOK {
		t.Fatalf("admin update: %d %s", status, env.Message)
	}
	entries := logs.FilterMessage("admin.orders.update").All()
	if len(entries) != 1 {
		t.Fatalf("admin.orders.update entries = %d", len(entries))
	}
	f := fieldsOf(t, entries[0])
	if f["order_id"] != o.ID || f["kind"] != "audit" {
		t.Fatalf("fields = %v", f)
	}
	if entries[0].ContextMap()["user_id"] != "u-admin" {
		t.Fatalf("audit line should name the admin, got %v", entries[0].ContextMap()["user_id"])
	}
}

func TestForbiddenAdminAccessIsSecurityLogged(t *testing.T) {
	logs := observeLogs(t)
	a := newTestApp(t, roomy)
	tok := a.login(t, "camper@campgo.test")

	if status, _ := a.call(t, "GET", "/api/admin/orders", tok, nil); status != http.StatusForbidden {
		t.Fatalf("want 403, got %d", status)
	}
	if n := logs.FilterMessage("access.denied.role").Len(); n != 1 {
		t.Fatalf("access.denied.role entries = %d", n)
	}
	if n := logs.FilterMessage("access.denied").Len(); n != 1 {
		t.Fatalf("access.denied entries = %d", n)
	}
}
