package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AlibekovAA/storefront/internal/common/logger"
	"github.com/AlibekovAA/storefront/internal/observability/metrics"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher sends account events to a durable queue through the default
// exchange. An amqp channel is not safe for concurrent publishes, so Publish
// serializes on mu.
type AMQPPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	ch      channel
	queue   string
	timeout time.Duration
	now     func() time.Time
	log     *logger.Logger
}

func NewAMQPPublisher(url, queue string, timeout time.Duration, log *logger.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial amqp broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open amqp channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	log.Infof("amqp publisher ready queue=%s", queue)
	p := newPublisher(ch, queue, timeout, log)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, queue string, timeout time.Duration, log *logger.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		ch:      ch,
		queue:   queue,
		timeout: timeout,
		now:     time.Now,
		log:     log,
	}
}

func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		metrics.AccountEventsPublished.WithLabelValues(string(event.Type), "error").Inc()
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		Type:         string(event.Type),
		Body:         body,
	}

	p.mu.Lock()
	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg)
	p.mu.Unlock()
	if err != nil {
		metrics.AccountEventsPublished.WithLabelValues(string(event.Type), "error").Inc()
		p.log.WithFields(ctx, logger.Fields{
			"event": string(event.Type),
			"queue": p.queue,
		}).Warnf("event publish failed: %v", err)
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	metrics.AccountEventsPublished.WithLabelValues(string(event.Type), "success").Inc()
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	if p.ch != nil {
		firstErr = p.ch.Close()
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
