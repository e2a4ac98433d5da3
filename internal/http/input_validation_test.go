package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestProductSearchRejectsBadQuery(t *testing.T) {
	a := newTestApp(t, roomy)

	status, _ := a.call(t, "GET", "/api/products?q="+url.QueryEscape("<script>"), "", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("want 400 for bad q, got %d", status)
	}

	status, env := a.call(t, "GET", "/api/products?q=tent&limit=500", "", nil)
	if status != http.StatusOK {
		t.Fatalf("search: %d %s", status, env.Message)
	}
	var res struct {
		Products   []struct{ ID string `json:"id"` } `json:"products"`
		Pagination struct{ Limit int `json:"limit"` } `json:"pagination"`
	}
	decode(t, env, &res)
	if len(res.Products) == 0 {
		t.Fatalf("expected tents in results")
	}
	if res.Pagination.Limit != 100 {
		t.Fatalf("limit should clamp to 100, got %d", res.Pagination.Limit)
	}
}

func TestBadPathIDIs400(t *testing.T) {
	a := newTestApp(t, roomy)
	status, _ := a.call(t, "GET", "/api/products/"+url.PathEscape("bad id!"), "", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", status)
	}
	status, _ = a.call(t, "GET", "/api/products/does-not-exist", "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("want 404, got %d", status)
	}
}

func TestMalformedBodyIs400(t *testing.T) {
	a := newTestApp(t, roomy)
	tok := a.login(t, "camper@campgo.test")

	req := httptest.NewRequest("POST", "/api/cart/add", strings.NewReader(`{"product_id":`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := a.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
}

func TestCartQuantityValidation(t *testing.T) {
	a := newTestApp(t, roomy)
	tok := a.login(t, "camper@campgo.test")

	if status, _ := a.call(t, "POST", "/api/cart/add", tok, map[string]any{"product_id": "tent-2p", "quantity": 0}); status != http.StatusBadRequest {
		t.Fatalf("qty 0: want 400, got %d", status)
	}
	if status, _ := a.call(t, "POST", "/api/cart/add", tok, map[string]any{"product_id": "tent-2p", "quantity": 13}); status != http.StatusBadRequest {
		t.Fatalf("qty over stock: want 400, got %d", status)
	}
	if status, _ := a.call(t, "POST", "/api/cart/add", tok, map[string]any{"quantity": 1}); status != http.StatusBadRequest {
		t.Fatalf("missing product_id: want 400, got %d", status)
	}
}

func TestCardValidationAndMasking(t *testing.T) {
	a := newTestApp(t, roomy)
	tok := a.login(t, "camper@campgo.test")

	bad := map[string]any{
		"card_name": "Camper One", "card_number": "4111-1111", "card_exp_month": "13",
		"card_exp_year": "27", "card_cvc": "123",
	}
	status, env := a.call(t, "POST", "/api/cards", tok, bad)
	if status != http.StatusBadRequest || !strings.Contains(env.Message, "card_number") {
		t.Fatalf("want 400 naming card_number, got %d %q", status, env.Message)
	}

	good := map[string]any{
		"card_name": "Camper One", "card_number": "4111111111111111", "card_exp_month": "09",
		"card_exp_year": "27", "card_cvc": "123",
	}
	status, env = a.call(t, "POST", "/api/cards", tok, good)
	if status != http.StatusCreated {
		t.Fatalf("create card: %d %s", status, env.Message)
	}
	if strings.Contains(string(env.Data), "4111111111111111") || strings.Contains(string(env.Data), "card_cvc") {
		t.Fatalf("card response leaks secrets: %s", env.Data)
	}

	if status, _ = a.call(t, "POST", "/api/cards", tok, good); status != http.StatusConflict {
		t.Fatalf("duplicate card: want 409, got %d", status)
	}
}

func TestAddressPhoneValidation(t *testing.T) {
	a := newTestApp(t, roomy)
	tok := a.login(t, "camper@campgo.test")
	status, env := a.call(t, "POST", "/api/addresses", tok, map[string]any{
		"fullName": "Camper One", "phoneNumber": "12345", "street": "1 Pine Rd", "city": "Da Lat",
	})
	if status != http.StatusBadRequest || !strings.Contains(env.Message, "phoneNumber") {
		t.Fatalf("want 400 naming phoneNumber, got %d %q", status, env.Message)
	}
}
