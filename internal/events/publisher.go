// Package events publishes order lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campgo/internal/domain"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	OrderCreated   = "order_created"
	OrderShipped   = "order_shipped"
	OrderDelivered = "order_delivered"
	OrderCancelled = "order_cancelled"
	OrderReturned  = "order_returned"
	OrderDeleted   = "order_deleted"
)

type OrderEvent struct {
	OrderID        string                `json:"order_id"`
	UserID         string                `json:"user_id"`
	EventType      string                `json:"event_type"`
	TotalAmount    float64               `json:"total_amount"`
	PaymentStatus  domain.PaymentStatus  `json:"payment_status"`
	DeliveryStatus domain.DeliveryStatus `json:"delivery_status"`
	OccurredAt     time.Time             `json:"occurred_at"`
}

func NewOrderEvent(eventType string, o *domain.Order) OrderEvent {
	return OrderEvent{
		OrderID:        o.ID,
		UserID:         o.UserID,
		EventType:      eventType,
		TotalAmount:    o.TotalAmount,
		PaymentStatus:  o.PaymentStatus,
		DeliveryStatus: o.DeliveryStatus,
		OccurredAt:     time.Now().UTC(),
	}
}

type Publisher interface {
	PublishOrder(ctx context.Context, ev OrderEvent) error
}

func InitProducer(brokers []string, logger *zap.Logger) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info("Kafka producer initialized", zap.Strings("brokers", brokers))
	return producer, nil
}

// Kafka publishes JSON order events keyed by order id, so one order's events stay ordered.
type Kafka struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

func NewKafka(producer sarama.SyncProducer, topic string, logger *zap.Logger) *Kafka {
	return &Kafka{producer: producer, topic: topic, logger: logger}
}

func (k *Kafka) PublishOrder(ctx context.Context, ev OrderEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(ev.OrderID),
		Value: sarama.ByteEncoder(payload),
	}

	// Inject trace context into Kafka message headers
	carrier := make(headerCarrier, 0)
	otel.GetTextMapPropagator().Inject(ctx, &carrier)
	msg.Headers = []sarama.RecordHeader(carrier)

	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	traceID := ""
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		traceID = sc.TraceID().String()
	}
	k.logger.Info("event.published",
		zap.String("trace_id", traceID),
		zap.String("topic", k.topic),
		zap.String("event_type", ev.EventType),
		zap.String("order_id", ev.OrderID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (k *Kafka) Close() error { return k.producer.Close() }

// Noop drops events; used when no brokers are configured.
type Noop struct{}

func (Noop) PublishOrder(context.Context, OrderEvent) error { return nil }

// headerCarrier adapts Kafka record headers to otel's TextMapCarrier.
type headerCarrier []sarama.RecordHeader

func (c headerCarrier) Get(key string) string {
	for _, h := range c {
		if string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Set(key, value string) {
	*c = append(*c, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, len(c))
	for i, h := range c {
		keys[i] = string(h.Key)
	}
	return keys
}
