package handlers_test

import (
	"net/http"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLoginFailureIsSecurityLogged(t *testing.T) {
	logs := observeLogs(t)
	a := newTestApp(t, roomy)

	status, _ := a.call(t, "POST", "/api/auth/login", "", map[string]string{
		"email": "camper@campgo.test", "password": "wrong-password",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", status)
	}

	entries := logs.FilterMessage("auth.login.fail").All()
	if len(entries) != 1 {
		t.Fatalf("auth.login.fail entries = %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("level = %s", entries[0].Level)
	}
	if f := fieldsOf(t, entries[0]); f["email"] != "camper@campgo.test" {
		t.Fatalf("fields = %v", f)
	}
	// the password never reaches the log
	for _, e := range logs.All() {
		for _, v := range e.ContextMap() {
			if s, ok := v.(string); ok && s == "wrong-password" {
				t.Fatalf("password logged in %s", e.Message)
			}
		}
	}
}

func TestLoginSuccessIsAudited(t *testing.T) {
	logs := observeLogs(t)
	a := newTestApp(t, roomy)
	a.login(t, "owner@campgo.test")

	entries := logs.FilterMessage("auth.login.success").All()
	if len(entries) != 1 {
		t.Fatalf("auth.login.success entries = %d", len(entries))
	}
	if f := fieldsOf(t, entries[0]); f["user_id"] != "u-owner" || f["kind"] != "audit" {
		t.Fatalf("fields = %v", f)
	}
}
