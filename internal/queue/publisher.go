package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AuditQueueName is the durable queue receiving audit events.
const AuditQueueName = "seat.audit"

// Publisher sends audit events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev AuditEvent) error
}

// NopPublisher drops every event. It is used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, AuditEvent) error { return nil }

// AMQPPublisher publishes each event on its own short-lived connection.
// Failures are logged and returned; callers are expected to ignore them
// so the request flow is never interrupted.
type AMQPPublisher struct {
	url    string
	logger *zap.Logger
}

func NewAMQPPublisher(url string, logger *zap.Logger) *AMQPPublisher {
	return &AMQPPublisher{url: url, logger: logger}
}

// maxDialTimeout bounds the broker handshake of a single publish.
const maxDialTimeout = 2 * time.Second

// dialTimeout is maxDialTimeout or the time left on ctx, whichever is
// shorter.
func dialTimeout(ctx context.Context) time.Duration {
	d := maxDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < d {
			d = left
		}
	}
	if d <= 0 {
		d = time.Millisecond
	}
	return d
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev AuditEvent) error {
	if ev.OccurredAt == "" {
		ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout(ctx)),
	})
	if err != nil {
		p.logger.Warn("rabbitmq: dial failed", zap.Error(err))
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warn("rabbitmq: channel open failed", zap.Error(err))
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(AuditQueueName, true, false, false, false, nil); err != nil {
		p.logger.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return fmt.Errorf("declare queue: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Kind,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", AuditQueueName, false, false, pub); err != nil {
		p.logger.Warn("rabbitmq: publish failed", zap.String("kind", ev.Kind), zap.Error(err))
		return fmt.Errorf("publish %s: %w", ev.Kind, err)
	}
	return nil
}
