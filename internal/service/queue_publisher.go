// Package service holds the outbound integrations used by the handlers.
// Listing events go to RabbitMQ; failures are logged and returned so the
// caller can ignore them without interrupting the request.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/fyyur/internal/queue"
)

// EventPublisher publishes listing events after a change is committed.
type EventPublisher interface {
	Publish(ctx context.Context, ev q.ListingEvent) error
}

// NopPublisher discards events. It is used when EVENTS_ENABLED is off.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, q.ListingEvent) error { return nil }

// AMQPPublisher publishes to ActivityQueue on the default exchange. It
// opens a connection per event; listing changes are infrequent.
type AMQPPublisher struct {
	URL         string
	DialTimeout time.Duration
	Logger      *log.Logger
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{URL: url, DialTimeout: 2 * time.Second, Logger: log.New("publisher")}
}

// Publish sends ev as a persistent JSON message. OccurredAt is filled in
// when empty.
func (p *AMQPPublisher) Publish(ctx context.Context, ev q.ListingEvent) error {
	if ev.OccurredAt == "" {
		ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(p.DialTimeout)})
	if err != nil {
		p.Logger.Warnf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Logger.Warnf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// durable so events survive broker restarts
	if _, err := ch.QueueDeclare(q.ActivityQueue, true, false, false, false, nil); err != nil {
		p.Logger.Warnf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.ActivityQueue, false, false, pub); err != nil {
		p.Logger.Warnf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
