package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	syncv1 "entomophage/contracts/sync/v1"
)

const (
	DefaultBrokerURL   = "amqp://localhost"
	defaultDialTimeout = 10 * time.Second
)

// Broker owns one AMQP connection and one channel per opened queue. The
// channel handles are reused for the lifetime of the process.
type Broker struct {
	conn     *amqp.Connection
	mu       sync.Mutex
	channels map[string]*amqp.Channel
	logger   *slog.Logger
}

// Dial connects to the broker. Failures wrap syncv1.ErrConnection and are
// fatal at startup.
func Dial(ctx context.Context, url string, logger *slog.Logger) (*Broker, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", syncv1.ErrConnection, err)
	}
	url = strings.TrimSpace(url)
	if url == "" {
		url = DefaultBrokerURL
	}

	timeout := defaultDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	conn, err := amqp.DialConfig(url, amqp.Config{
		Dial:       amqp.DefaultDial(timeout),
		Heartbeat:  10 * time.Second,
		Properties: amqp.Table{"connection_name": "entomophage-sync"},
	})
	if err != nil {
		if logger != nil {
			logger.Error("broker dial failed",
				"event", "broker_dial_failed",
				"module", moduleName,
				"layer", "platform",
				"error", err.Error(),
			)
		}
		return nil, fmt.Errorf("%w: %w", syncv1.ErrConnection, err)
	}

	if logger != nil {
		logger.Info("broker connected",
			"event", "broker_connected",
			"module", moduleName,
			"layer", "platform",
		)
	}
	return &Broker{
		conn:     conn,
		channels: make(map[string]*amqp.Channel),
		logger:   logger,
	}, nil
}

// Open declares a durable queue and caches a channel for it.
func (b *Broker) Open(queue string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.channels[queue]; ok {
		return nil
	}
	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("%w: open channel for %s: %w", syncv1.ErrConnection, queue, err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("%w: declare queue %s: %w", syncv1.ErrConnection, queue, err)
	}
	b.channels[queue] = ch

	if b.logger != nil {
		b.logger.Info("broker queue opened",
			"event", "broker_queue_opened",
			"module", moduleName,
			"layer", "platform",
			"queue", queue,
		)
	}
	return nil
}

// Send encodes envelope and publishes it as a persistent message.
func (b *Broker) Send(ctx context.Context, queue string, envelope syncv1.Envelope) error {
	body, err := syncv1.Encode(envelope)
	if err != nil {
		return err
	}
	ch, err := b.channel(queue)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    envelope.MessageID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return publishError(b.conn == nil || b.conn.IsClosed(), queue, err)
	}
	return nil
}

// publishError reports a publish on a closed connection as ErrConnection and
// anything else as ErrChannelUnavailable.
func publishError(connClosed bool, queue string, err error) error {
	if connClosed {
		return fmt.Errorf("%w: publish to %s: %w", syncv1.ErrConnection, queue, err)
	}
	return fmt.Errorf("%w: publish to %s: %w", syncv1.ErrChannelUnavailable, queue, err)
}

func (b *Broker) Consume(ctx context.Context, queue string, options ConsumeOptions) (<-chan Delivery, error) {
	ch, err := b.channel(queue)
	if err != nil {
		return nil, err
	}
	if !options.AutoAck && options.Prefetch > 0 {
		if err := ch.Qos(options.Prefetch, 0, false); err != nil {
			return nil, fmt.Errorf("%w: set prefetch on %s: %w", syncv1.ErrChannelUnavailable, queue, err)
		}
	}
	messages, err := ch.ConsumeWithContext(ctx, queue, options.Tag, options.AutoAck, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: consume %s: %w", syncv1.ErrChannelUnavailable, queue, err)
	}

	out := make(chan Delivery)
	go func() {
		defer close(out)
		for message := range messages {
			delivery := Delivery{MessageID: message.MessageId, Body: message.Body}
			if !options.AutoAck {
				message := message
				delivery.ack = func() error { return message.Ack(false) }
			}
			select {
			case <-ctx.Done():
				return
			case out <- delivery:
			}
		}
	}()
	return out, nil
}

func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for queue, ch := range b.channels {
		_ = ch.Close()
		delete(b.channels, queue)
	}
	if b.conn == nil || b.conn.IsClosed() {
		return nil
	}
	return b.conn.Close()
}

func (b *Broker) channel(queue string) (*amqp.Channel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.channels[queue]
	if !ok {
		return nil, fmt.Errorf("%w: queue %s was not opened", syncv1.ErrChannelUnavailable, queue)
	}
	return ch, nil
}
