package services_test

import (
	"context"
	"sync"
	"testing"

	"campgo/internal/domain"
	"campgo/internal/events"
	"campgo/internal/repos"
	"campgo/internal/services"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const camper = "u-camper" // seeded USER

type fixture struct {
	db     *sqlx.DB
	store  *repos.Store
	pub    *fakePublisher
	notify *fakeNotifier
	carts  *services.CartService
	orders *services.OrderService
	addrs  *services.AddressService
	cards  *services.CardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := repos.OpenDB(context.Background(), ":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	st := repos.NewStore(db)
	f := &fixture{db: db, store: st, pub: &fakePublisher{}, notify: &fakeNotifier{}}
	f.carts = services.NewCartService(st)
	f.orders = services.NewOrderService(st, f.pub, f.notify, nil, services.DefaultShippingFee, zap.NewNop())
	f.addrs = services.NewAddressService(st)
	f.cards = services.NewCardService(st)
	return f
}

func (f *fixture) setStock(t *testing.T, productID string, qty int) {
	t.Helper()
	_, err := f.db.Exec(`UPDATE products SET stock_quantity=? WHERE id=?`, qty, productID)
	require.NoError(t, err)
}

func (f *fixture) setPrice(t *testing.T, productID string, price float64) {
	t.Helper()
	_, err := f.db.Exec(`UPDATE products SET price=? WHERE id=?`, price, productID)
	require.NoError(t, err)
}

func (f *fixture) product(t *testing.T, id string) *domain.Product {
	t.Helper()
	p, err := f.store.Products.Get(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (f *fixture) orderCount(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.Get(&n, `SELECT COUNT(*) FROM orders`))
	return n
}

func (f *fixture) withAddress(t *testing.T, userID string) *domain.Address {
	t.Helper()
	a, err := f.addrs.Create(context.Background(), userID, services.AddressInput{
		FullName: "Camper One", Phone: "0901234567", Street: "1 Pine Rd", City: "Da Lat",
	})
	require.NoError(t, err)
	return a
}

func (f *fixture) withCard(t *testing.T, userID, number string) *domain.Card {
	t.Helper()
	c, err := f.cards.Create(context.Background(), userID, services.CardInput{
		Name: "CAMPER ONE", Number: number, ExpMonth: "09", ExpYear: "29", CVC: "123",
	})
	require.NoError(t, err)
	return c
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
}

func (p *fakePublisher) PublishOrder(_ context.Context, ev events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.EventType
	}
	return out
}

type fakeNotifier struct {
	mu        sync.Mutex
	welcome   []string
	placed    []string
	confirmed []string
}

func (n *fakeNotifier) Welcome(u *domain.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcome = append(n.welcome, u.Email)
}

func (n *fakeNotifier) OrderPlaced(_ *domain.User, o *domain.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.placed = append(n.placed, o.ID)
}

func (n *fakeNotifier) OrderConfirmed(_ *domain.User, o *domain.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, o.ID)
}
