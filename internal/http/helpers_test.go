package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"campgo/internal/config"
	"campgo/internal/http/handlers"
	"campgo/internal/repos"
)

type testApp struct {
	app  *fiber.App
	db   *sqlx.DB
	deps *handlers.Deps
}

func testConfig(t *testing.T) config.Config {
	return config.Config{
		Env:          "test",
		DBDSN:        ":memory:",
		MediaDir:     t.TempDir(),
		MediaBaseURL: "/media",
		TemplatesDir: "../../web/templates",
		JWTSecret:    "test-secret",
		JWTTTL:       time.Hour,
		ShippingFee:  10,
	}
}

func newTestApp(t *testing.T, lim handlers.Limits) *testApp {
	t.Helper()
	cfg := testConfig(t)
	db, err := repos.OpenDB(context.Background(), cfg.DBDSN, zap.NewNop())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	deps := handlers.NewDeps(db, cfg, handlers.Infra{})
	return &testApp{app: handlers.NewApp(cfg, deps, lim), db: db, deps: deps}
}

var roomy = handlers.Limits{Global: 1000, Login: 100}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// call sends a JSON request with an optional bearer token and decodes the envelope.
func (a *testApp) call(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	if len(raw) > 0 && resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s: bad envelope %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, env
}

// login signs in one of the seeded accounts.
func (a *testApp) login(t *testing.T, email string) string {
	t.Helper()
	return a.loginWith(t, email, "Passw0rd!")
}

func (a *testApp) loginWith(t *testing.T, email, password string) string {
	t.Helper()
	status, env := a.call(t, "POST", "/api/auth/login", "", map[string]string{"email": email, "password": password})
	if status != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, status, env.Message)
	}
	var out struct {
		Token string `json:"token"`
	}
	decode(t, env, &out)
	return out.Token
}

func decode(t *testing.T, env envelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func (a *testApp) stock(t *testing.T, productID string) int {
	t.Helper()
	var n int
	if err := a.db.Get(&n, `SELECT stock_quantity FROM products WHERE id=?`, productID); err != nil {
		t.Fatalf("stock %s: %v", productID, err)
	}
	return n
}

// shopper logs in the seeded customer and gives them a default address.
func (a *testApp) shopper(t *testing.T) string {
	t.Helper()
	tok := a.login(t, "camper@campgo.test")
	status, env := a.call(t, "POST", "/api/addresses", tok, map[string]any{
		"fullName": "Camper One", "phoneNumber": "0901234567", "street": "1 Pine Rd", "city": "Da Lat",
	})
	if status != http.StatusCreated {
		t.Fatalf("create address: %d %s", status, env.Message)
	}
	return tok
}

func decodeBody(t *testing.T, resp *http.Response, env *envelope) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}
