package handlers_test

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	applog "campgo/internal/log"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	applog.SetLogger(zap.New(core))
	t.Cleanup(func() { applog.SetLogger(nil) })
	return logs
}

func fieldsOf(t *testing.T, e observer.LoggedEntry) map[string]any {
	t.Helper()
	f, ok := e.ContextMap()["fields"].(map[string]any)
	if !ok {
		t.Fatalf("%s: no fields map in %v", e.Message, e.ContextMap())
	}
	return f
}
