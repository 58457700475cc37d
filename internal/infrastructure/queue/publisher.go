package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tablechain/restaurant-protocol/internal/core/ports"
)

const ordersExchange = "orders_topic"

// OrderPublisher emits order lifecycle events on a RabbitMQ topic exchange.
// Routing key: orders.<restaurant_ref>.<status>.
type OrderPublisher struct {
	conn *amqp.Connection
}

// Connect dials RabbitMQ and wraps the connection in an OrderPublisher.
func Connect(url string) (*OrderPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	return &OrderPublisher{conn: conn}, nil
}

func (p *OrderPublisher) PublishOrderEvent(ctx context.Context, event ports.OrderEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(ordersExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	routingKey := fmt.Sprintf("orders.%s.%d", event.RestaurantRef, event.Status)

	err = ch.PublishWithContext(ctx, ordersExchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

func (p *OrderPublisher) Close() error {
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn.Close()
	}
	return nil
}
