package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/application/advisory"
)

const (
	// CartUpdatedRoutingKey is the versioned routing key for cart events.
	CartUpdatedRoutingKey = "cart.updated.v1"
	cartUpdatedType       = "CartUpdated"
)

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher publishes cart events to a topic exchange. The advisor
// consumes them and answers through the inbound webhook, so Publish never
// returns a suggestion.
type RabbitPublisher struct {
	conn     *amqp.Connection
	mu       sync.Mutex
	ch       amqpChannel
	exchange string
}

// DialRabbit connects to url and declares exchange.
func DialRabbit(url, exchange string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareExchange(ch, exchange); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare %s: %w", exchange, err)
	}

	p := newRabbitPublisher(ch, exchange)
	p.conn = conn
	return p, nil
}

func newRabbitPublisher(ch amqpChannel, exchange string) *RabbitPublisher {
	return &RabbitPublisher{ch: ch, exchange: exchange}
}

func declareExchange(ch *amqp.Channel, exchange string) error {
	return ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

// Name implements advisory.Publisher.
func (p *RabbitPublisher) Name() string {
	return "amqp"
}

// Publish sends ev as a persistent JSON message.
func (p *RabbitPublisher) Publish(ctx context.Context, ev advisory.CartEvent) (*advisory.Suggestion, error) {
	msg, err := buildMessage(ev)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, p.exchange, CartUpdatedRoutingKey, false, false, msg); err != nil {
		return nil, fmt.Errorf("publish %s: %w", CartUpdatedRoutingKey, err)
	}
	return nil, nil
}

// Close closes the channel and, when dialed, the connection.
func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func buildMessage(ev advisory.CartEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal %s: %w", cartUpdatedType, err)
	}
	return amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     ev.EventID,
		CorrelationId: ev.SessionID,
		Timestamp:     ev.Timestamp,
		Type:          cartUpdatedType,
		AppId:         ev.Source,
		Body:          body,
	}, nil
}
