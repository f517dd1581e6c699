package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	syncv1 "entomophage/contracts/sync/v1"
)

const memoryQueueDepth = 1024

// Memory is the in-process transport. Queues live for the lifetime of the
// value; Close simulates a broker outage by ending every consumer stream.
type Memory struct {
	mu     sync.Mutex
	queues map[string]*memoryQueue
	closed bool
	done   chan struct{}
	logger *slog.Logger
}

type memoryQueue struct {
	messages chan Delivery
	sent     []syncv1.Envelope
}

func NewMemory(logger *slog.Logger) *Memory {
	return &Memory{
		queues: make(map[string]*memoryQueue),
		done:   make(chan struct{}),
		logger: logger,
	}
}

func (m *Memory) Open(queue string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("%w: transport closed", syncv1.ErrConnection)
	}
	if _, ok := m.queues[queue]; !ok {
		m.queues[queue] = &memoryQueue{messages: make(chan Delivery, memoryQueueDepth)}
	}
	return nil
}

func (m *Memory) Send(ctx context.Context, queue string, envelope syncv1.Envelope) error {
	body, err := syncv1.Encode(envelope)
	if err != nil {
		return err
	}

	m.mu.Lock()
	q, err := m.queueLocked(queue)
	if err == nil {
		q.sent = append(q.sent, envelope)
	}
	m.mu.Unlock()
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case q.messages <- Delivery{MessageID: envelope.MessageID, Body: body}:
	default:
		return fmt.Errorf("%w: queue %s is full", syncv1.ErrChannelUnavailable, queue)
	}

	if m.logger != nil {
		m.logger.Debug("envelope sent",
			"event", "memory_transport_send",
			"module", moduleName,
			"layer", "platform",
			"queue", queue,
			"message_id", envelope.MessageID,
			"changed_key", envelope.ChangedKey.String(),
		)
	}
	return nil
}

// Inject places a raw body on a queue, bypassing envelope encoding.
func (m *Memory) Inject(queue string, body []byte) error {
	m.mu.Lock()
	q, err := m.queueLocked(queue)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	select {
	case q.messages <- Delivery{Body: append([]byte(nil), body...)}:
		return nil
	default:
		return fmt.Errorf("%w: queue %s is full", syncv1.ErrChannelUnavailable, queue)
	}
}

func (m *Memory) Consume(ctx context.Context, queue string, options ConsumeOptions) (<-chan Delivery, error) {
	m.mu.Lock()
	q, err := m.queueLocked(queue)
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var window chan struct{}
	if !options.AutoAck && options.Prefetch > 0 {
		window = make(chan struct{}, options.Prefetch)
	}

	out := make(chan Delivery)
	go func() {
		defer close(out)
		for {
			if window != nil {
				select {
				case <-ctx.Done():
					return
				case <-m.done:
					return
				case window <- struct{}{}:
				}
			}

			var delivery Delivery
			select {
			case <-ctx.Done():
				return
			case <-m.done:
				return
			case delivery = <-q.messages:
			}

			if !options.AutoAck {
				var once sync.Once
				delivery.ack = func() error {
					once.Do(func() {
						if window != nil {
							<-window
						}
					})
					return nil
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-m.done:
				return
			case out <- delivery:
			}
		}
	}()
	return out, nil
}

// Sent returns every envelope sent to queue, in send order.
func (m *Memory) Sent(queue string) []syncv1.Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.queues[queue]
	if !ok {
		return nil
	}
	return append([]syncv1.Envelope(nil), q.sent...)
}

// Pending reports how many messages are waiting on queue.
func (m *Memory) Pending(queue string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.queues[queue]
	if !ok {
		return 0
	}
	return len(q.messages)
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

func (m *Memory) queueLocked(queue string) (*memoryQueue, error) {
	if m.closed {
		return nil, fmt.Errorf("%w: transport closed", syncv1.ErrConnection)
	}
	q, ok := m.queues[queue]
	if !ok {
		return nil, fmt.Errorf("%w: queue %s was not opened", syncv1.ErrChannelUnavailable, queue)
	}
	return q, nil
}
