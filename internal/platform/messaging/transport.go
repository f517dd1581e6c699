package messaging

import (
	"context"
	"errors"

	syncv1 "entomophage/contracts/sync/v1"
)

const moduleName = "internal/platform/messaging"

// ErrHandlerPanic wraps a recovered handler panic.
var ErrHandlerPanic = errors.New("sync handler panicked")

// Sender delivers an encoded envelope to a named queue.
type Sender interface {
	Send(ctx context.Context, queue string, envelope syncv1.Envelope) error
}

// Consumer streams deliveries from a named queue. The returned channel is
// closed when ctx ends or the underlying connection is lost.
type Consumer interface {
	Consume(ctx context.Context, queue string, options ConsumeOptions) (<-chan Delivery, error)
}

// Transport is the broker seam shared by Broker and Memory.
type Transport interface {
	Sender
	Consumer
	Open(queue string) error
	Close() error
}

type ConsumeOptions struct {
	Tag      string
	Prefetch int
	AutoAck  bool
}

// Delivery is one message read from a queue.
type Delivery struct {
	MessageID string
	Body      []byte
	ack       func() error
}

// Ack acknowledges the delivery. It is a no-op for auto-ack consumers.
func (d Delivery) Ack() error {
	if d.ack == nil {
		return nil
	}
	return d.ack()
}
