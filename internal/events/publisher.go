package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/daniillazarev2301/belbird-checkout-service/internal/config"
	"github.com/daniillazarev2301/belbird-checkout-service/internal/entities"

	"github.com/segmentio/kafka-go"
)

// OrderCreatedEvent уходит в Kafka после коммита заказа. Его читают
// уведомления и аналитика; сам чекаут от доставки события не зависит.
type OrderCreatedEvent struct {
	OrderID       string    `json:"order_id"`
	CustomerID    string    `json:"customer_id,omitempty"`
	TotalAmount   int       `json:"total_amount"`
	PaymentMethod string    `json:"payment_method"`
	PointsEarned  int       `json:"points_earned"`
	CreatedAt     time.Time `json:"created_at"`
}

type Publisher struct {
	logger *slog.Logger
	writer *kafka.Writer
}

func NewPublisher(logger *slog.Logger, cfg config.Kafka) *Publisher {
	return &Publisher{
		logger: logger.With(slog.String("publisher", "kafka")),
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.OrdersTopic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
	}
}

func (p *Publisher) OrderCreated(ctx context.Context, order entities.Order, pointsEarned int) error {
	event := OrderCreatedEvent{
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: string(order.PaymentMethod),
		PointsEarned:  pointsEarned,
		CreatedAt:     order.CreatedAt,
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// В библиотеке уже есть retry
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID),
		Value: value,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
