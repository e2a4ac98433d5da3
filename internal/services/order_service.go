package services

import (
	"context"
	"time"

	"campgo/internal/apperr"
	"campgo/internal/cache"
	"campgo/internal/domain"
	"campgo/internal/events"
	"campgo/internal/metrics"
	"campgo/internal/pricing"
	"campgo/internal/repos"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const DefaultShippingFee = 10.0

var tracer = otel.Tracer("campgo/services")

type OrderService struct {
	Store       *repos.Store
	Events      events.Publisher
	Notify      Notifier
	Cache       cache.ProductCache
	ShippingFee float64
	Logger      *zap.Logger
	Clock       func() time.Time
}

func NewOrderService(store *repos.Store, pub events.Publisher, notify Notifier, pc cache.ProductCache, shippingFee float64, logger *zap.Logger) *OrderService {
	if pub == nil {
		pub = events.Noop{}
	}
	if notify == nil {
		notify = nopNotifier{}
	}
	if pc == nil {
		pc = cache.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		Store:       store,
		Events:      pub,
		Notify:      notify,
		Cache:       pc,
		ShippingFee: shippingFee,
		Logger:      logger,
		Clock:       time.Now,
	}
}

// checkoutLine pairs a cart line with the live product it will buy.
type checkoutLine struct {
	item    domain.CartItem
	product *domain.Product
}

// CreateOrder turns the user's cart (or the selected part of it) into an order.
//
// Reads and validation happen first. The writes then run in one transaction:
// stock is reserved with a guarded decrement, the purchased lines leave the
// cart and the order row is inserted last. Any failure rolls all of it back.
// Events, mail and cache invalidation follow the commit and never fail the call.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req domain.PurchaseRequest) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.CreateOrder")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("payment.method", req.PaymentMethod),
		attribute.Int("selected.count", len(req.ProductIDs)),
	)

	order, user, err := s.createOrder(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperr.Message(err))
		metrics.RecordCheckoutFailure(apperr.KindOf(err).String())
		return nil, err
	}
	span.SetAttributes(attribute.String("order.id", order.ID), attribute.Float64("order.total", order.TotalAmount))

	metrics.RecordOrderCreated(order.PaymentMethod)
	s.publish(ctx, events.OrderCreated, order)
	s.Notify.OrderPlaced(user, order)

	ids := make([]string, len(order.Items))
	for i, it := range order.Items {
		ids[i] = it.ProductID
	}
	s.Cache.Invalidate(ctx, ids...)

	s.Logger.Info("order.created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.String("payment_method", order.PaymentMethod),
		zap.Float64("total_amount", order.TotalAmount),
		zap.Int("items", len(order.Items)),
	)
	return order, nil
}

func (s *OrderService) createOrder(ctx context.Context, userID string, req domain.PurchaseRequest) (*domain.Order, *domain.User, error) {
	user, err := s.Store.Users.ByID(ctx, userID)
	if err != nil {
		return nil, nil, storeErr(err, "user")
	}

	method, ok := domain.NormalizePaymentMethod(req.PaymentMethod)
	if !ok {
		return nil, nil, apperr.Validation("unsupported payment method %q", req.PaymentMethod)
	}

	addr, err := s.Store.Addresses.Default(ctx, userID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, nil, apperr.Validation("no default address")
		}
		return nil, nil, storeErr(err, "address")
	}

	cardBased := domain.IsCardBased(method)
	if cardBased {
		if _, err := s.Store.Cards.Default(ctx, userID); err != nil {
			if repos.IsNotFound(err) {
				return nil, nil, apperr.Validation("no default card")
			}
			return nil, nil, storeErr(err, "card")
		}
	}

	cart, err := s.Store.Carts.Ensure(ctx, userID)
	if err != nil {
		return nil, nil, storeErr(err, "cart")
	}
	if cart.Empty() {
		return nil, nil, apperr.Validation("cart is empty")
	}
	selected := cart.Select(req)
	if len(selected) == 0 {
		return nil, nil, apperr.Validation("no items selected")
	}

	// Pre-check against live stock so the common failure is reported before any write.
	lines := make([]checkoutLine, 0, len(selected))
	for _, it := range selected {
		p, err := s.Store.Products.Get(ctx, it.ProductID)
		if err != nil {
			if repos.IsNotFound(err) {
				return nil, nil, apperr.InsufficientStock(it.ProductID)
			}
			return nil, nil, storeErr(err, "product")
		}
		// a product taken off sale after it was carted counts as gone
		if !p.Active {
			return nil, nil, apperr.InsufficientStock(p.Name)
		}
		if p.Stock < it.Quantity {
			return nil, nil, apperr.InsufficientStock(p.Name)
		}
		lines = append(lines, checkoutLine{item: it, product: p})
	}

	// Checkout re-prices at the live catalog price, not the cart snapshot.
	amounts := make([]float64, len(lines))
	items := make([]domain.OrderItem, len(lines))
	for i, l := range lines {
		amounts[i] = pricing.Line(l.product.Price, l.item.Quantity)
		items[i] = domain.OrderItem{
			ProductID: l.product.ID,
			Name:      l.product.Name,
			Image:     l.product.MainImage(),
			Amount:    l.product.Price,
			Quantity:  l.item.Quantity,
		}
	}
	productsTotal := pricing.Sum(amounts...)

	at := s.Clock()
	order := &domain.Order{
		ID:                  uuid.NewString(),
		UserID:              userID,
		TotalAmount:         pricing.Sum(productsTotal, s.ShippingFee),
		ShippingFee:         s.ShippingFee,
		PaymentMethod:       method,
		PaymentStatus:       domain.PaymentPending,
		DeliveryStatus:      domain.DeliveryPending,
		ShippingAddressID:   addr.ID,
		WaitingConfirmation: false,
		CreatedAt:           repos.Timestamp(at),
		UpdatedAt:           repos.Timestamp(at),
		Items:               items,
	}
	if cardBased {
		txID, err := NewTransactionID(method, userID, at)
		if err != nil {
			return nil, nil, apperr.Internal(err, "generate transaction id")
		}
		order.TransactionID = &txID
		order.PaymentStatus = domain.PaymentCompleted
	}

	err = s.Store.InTx(ctx, func(tx *repos.Store) error {
		for _, l := range lines {
			ok, err := tx.Products.ReserveStock(ctx, l.product.ID, l.item.Quantity)
			if err != nil {
				return storeErr(err, "product stock")
			}
			if !ok {
				// stock moved between the pre-check and the write
				return apperr.InsufficientStock(l.product.Name)
			}
		}

		c, err := tx.Carts.Ensure(ctx, userID)
		if err != nil {
			return storeErr(err, "cart")
		}
		if req.Selective() {
			ids := make([]string, len(lines))
			for i, l := range lines {
				ids[i] = l.product.ID
			}
			c.Remove(ids...)
		} else {
			c.Clear()
		}
		if err := tx.Carts.Save(ctx, c); err != nil {
			return storeErr(err, "cart")
		}

		return storeErr(tx.Orders.Create(ctx, order), "order")
	})
	if err != nil {
		return nil, nil, err
	}

	order.Address = addr
	order.User = user.Summary()
	s.attachProducts(ctx, order)
	return order, user, nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, o *domain.Order) {
	if err := s.Events.PublishOrder(ctx, events.NewOrderEvent(eventType, o)); err != nil {
		s.Logger.Warn("event.publish_failed",
			zap.String("event_type", eventType), zap.String("order_id", o.ID), zap.Error(err))
	}
}

// attachProducts fills each line's live product; deleted products stay nil.
func (s *OrderService) attachProducts(ctx context.Context, o *domain.Order) {
	for i := range o.Items {
		if p, err := s.Store.Products.Get(ctx, o.Items[i].ProductID); err == nil {
			o.Items[i].Product = p
		}
	}
}

// populate attaches address, user summary and live products for display.
func (s *OrderService) populate(ctx context.Context, o *domain.Order) {
	if a, err := s.Store.Addresses.ByID(ctx, o.ShippingAddressID); err == nil {
		o.Address = a
	}
	if u, err := s.Store.Users.ByID(ctx, o.UserID); err == nil {
		o.User = u.Summary()
	}
	s.attachProducts(ctx, o)
}
