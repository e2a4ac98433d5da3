package mail_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"campgo/internal/domain"
	"campgo/internal/mail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, m mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, m)
	return s.err
}

func TestNotifier_OrderPlaced(t *testing.T) {
	rs := &recordingSender{}
	n := mail.NewNotifier(rs, zap.NewNop())

	u := &domain.User{UserName: "camper", Email: "camper@campgo.test"}
	o := &domain.Order{ID: "o-1", TotalAmount: 269.98, ShippingFee: 10,
		Items: []domain.OrderItem{{Name: "Trail Dome 2P", Quantity: 2, Amount: 129.99}}}
	n.OrderPlaced(u, o)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, n.Wait(ctx))

	require.Len(t, rs.sent, 1)
	assert.Equal(t, "camper@campgo.test", rs.sent[0].To)
	assert.Contains(t, rs.sent[0].Subject, "o-1")
	assert.Contains(t, rs.sent[0].Body, "Trail Dome 2P")
	assert.Contains(t, rs.sent[0].Body, "269.98")
}

func TestNotifier_FailureIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rs := &recordingSender{err: errors.New("relay refused")}
	n := mail.NewNotifier(rs, zap.New(core))

	n.Welcome(&domain.User{UserName: "x", Email: "x@campgo.test"})
	require.NoError(t, n.Wait(context.Background()))

	entries := logs.FilterMessage("mail.failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "welcome", entries[0].ContextMap()["kind"])
}

func TestNotifier_SkipsEmptyRecipient(t *testing.T) {
	rs := &recordingSender{}
	n := mail.NewNotifier(rs, zap.NewNop())
	n.Welcome(&domain.User{UserName: "ghost"})
	require.NoError(t, n.Wait(context.Background()))
	assert.Empty(t, rs.sent)
}

func TestNotifier_EscapesNames(t *testing.T) {
	rs := &recordingSender{}
	n := mail.NewNotifier(rs, zap.NewNop())
	n.Welcome(&domain.User{UserName: "<b>bob</b>", Email: "b@campgo.test"})
	require.NoError(t, n.Wait(context.Background()))
	require.Len(t, rs.sent, 1)
	assert.NotContains(t, rs.sent[0].Body, "<b>bob</b>")
	assert.Contains(t, rs.sent[0].Body, "&lt;b&gt;bob&lt;/b&gt;")
}
