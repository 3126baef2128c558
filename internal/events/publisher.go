package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends events to durable queues on the default exchange. It opens
// a connection per message; event volume is a few per user action.
//
// A nil *Publisher, or one with an empty URL, drops every event.
type Publisher struct {
	url    string
	logger *slog.Logger
}

func NewPublisher(url string, logger *slog.Logger) *Publisher {
	return &Publisher{url: url, logger: logger}
}

func (p *Publisher) enabled() bool {
	return p != nil && p.url != ""
}

func (p *Publisher) BookingCreated(ctx context.Context, ev BookingCreated) error {
	return p.publish(ctx, QueueBookingCreated, ev)
}

func (p *Publisher) FloorPlanSaved(ctx context.Context, ev FloorPlanSaved) error {
	return p.publish(ctx, QueueFloorPlanSaved, ev)
}

func (p *Publisher) publish(ctx context.Context, queue string, v any) error {
	const op = "events.Publisher.publish"

	if !p.enabled() {
		return nil
	}

	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("%s: dial: %w", op, err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("%s: channel: %w", op, err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("%s: declare %s: %w", op, queue, err)
	}

	if err := ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}); err != nil {
		return fmt.Errorf("%s: publish %s: %w", op, queue, err)
	}

	p.logger.Debug("event published", "queue", queue, "bytes", len(body))
	return nil
}
