package mail

import (
	"context"
	"fmt"
	"html"
	"sync"
	"time"

	"campgo/internal/domain"
	"campgo/internal/metrics"

	"go.uber.org/zap"
)

const (
	KindWelcome           = "welcome"
	KindOrderPlaced       = "order_placed"
	KindOrderConfirmation = "order_confirmation"
)

// Notifier sends mail on background goroutines. Failures are logged and
// counted; they never reach the caller.
type Notifier struct {
	sender  Sender
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewNotifier(sender Sender, logger *zap.Logger) *Notifier {
	return &Notifier{sender: sender, logger: logger, timeout: 15 * time.Second}
}

func (n *Notifier) dispatch(kind string, m Message) {
	if m.To == "" {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.sender.Send(ctx, m); err != nil {
			metrics.RecordNotification(kind, "error")
			n.logger.Warn("mail.failed", zap.String("kind", kind), zap.String("to", m.To), zap.Error(err))
			return
		}
		metrics.RecordNotification(kind, "ok")
		n.logger.Info("mail.sent", zap.String("kind", kind), zap.String("to", m.To))
	}()
}

// Wait blocks until every dispatched message has finished or ctx ends.
func (n *Notifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *Notifier) Welcome(u *domain.User) {
	n.dispatch(KindWelcome, Message{
		To:      u.Email,
		Subject: "Welcome to CampGo",
		Body:    fmt.Sprintf("<p>Hi %s,</p><p>Your CampGo account is ready. Happy camping!</p>", html.EscapeString(u.UserName)),
	})
}

func (n *Notifier) OrderPlaced(u *domain.User, o *domain.Order) {
	n.dispatch(KindOrderPlaced, Message{
		To:      u.Email,
		Subject: "We received your order " + o.ID,
		Body:    orderBody(u, o, "Thanks for your order. We will let you know when it ships."),
	})
}

func (n *Notifier) OrderConfirmed(u *domain.User, o *domain.Order) {
	n.dispatch(KindOrderConfirmation, Message{
		To:      u.Email,
		Subject: "Your order " + o.ID + " is on its way",
		Body:    orderBody(u, o, "Your order has been confirmed and is now shipping."),
	})
}

func orderBody(u *domain.User, o *domain.Order, lead string) string {
	body := fmt.Sprintf("<p>Hi %s,</p><p>%s</p><ul>", html.EscapeString(u.UserName), lead)
	for _, it := range o.Items {
		body += fmt.Sprintf("<li>%s &times; %d: %.2f</li>", html.EscapeString(it.Name), it.Quantity, it.Amount)
	}
	body += fmt.Sprintf("</ul><p>Shipping: %.2f<br>Total: %.2f</p>", o.ShippingFee, o.TotalAmount)
	return body
}
