package handlers_test

import (
	"testing"
)

func TestAccessLogLineCarriesRequestID(t *testing.T) {
	logs := observeLogs(t)
	a := newTestApp(t, roomy)

	a.call(t, "GET", "/api/categories", "", nil)

	entries := logs.FilterMessage("http.request").All()
	if len(entries) == 0 {
		t.Fatalf("no access log line")
	}
	ctx := entries[len(entries)-1].ContextMap()
	if ctx["path"] != "/api/categories" || ctx["method"] != "GET" {
		t.Fatalf("access line = %v", ctx)
	}
	if rid, _ := ctx["req_id"].(string); rid == "" {
		t.Fatalf("missing req_id in %v", ctx)
	}
	if ctx["status"] != int64(200) {
		t.Fatalf("status = %v", ctx["status"])
	}
}

func TestAccessLogIncludesUserID(t *testing.T) {
	logs := observeLogs(t)
	a := newTestApp(t, roomy)
	tok := a.login(t, "camper@campgo.test")

	a.call(t, "GET", "/api/cart", tok, nil)

	for _, e := range logs.FilterMessage("http.request").All() {
		ctx := e.ContextMap()
		if ctx["path"] == "/api/cart" {
			if ctx["user_id"] != "u-camper" {
				t.Fatalf("user_id = %v", ctx["user_id"])
			}
			return
		}
	}
	t.Fatalf("no access line for /api/cart")
}
