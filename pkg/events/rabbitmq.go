package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/floroz/ledger/internal/domain/items"
)

// DefaultExchange is the topic exchange ledger events are published to
const DefaultExchange = "auction.events"

// ContentType of published event bodies
const ContentType = "application/x-protobuf"

// RabbitMQPublisher publishes journal events to a topic exchange.
// The routing key is the event type, so consumers can bind to
// "bid.placed" or "item.*".
type RabbitMQPublisher struct {
	channel *amqp.Channel
}

// NewRabbitMQPublisher opens a channel and declares a durable topic exchange
func NewRabbitMQPublisher(conn *amqp.Connection, exchange string) (*RabbitMQPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}

	return &RabbitMQPublisher{channel: ch}, nil
}

func (p *RabbitMQPublisher) Close() error {
	return p.channel.Close()
}

// Publish sends one event as a persistent message. The event id becomes the
// message id so consumers can drop redeliveries.
func (p *RabbitMQPublisher) Publish(ctx context.Context, exchange string, event *items.Event) error {
	msg := amqp.Publishing{
		ContentType:  ContentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Timestamp:    event.CreatedAt,
		Type:         event.Type.String(),
		Body:         items.MarshalEvent(event),
	}

	if err := p.channel.PublishWithContext(ctx, exchange, event.Type.String(), false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}
