package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	syncv1 "entomophage/contracts/sync/v1"
	"entomophage/internal/shared/outbox"
)

const defaultPublishTimeout = 5 * time.Second

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type Clock interface {
	Now() time.Time
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Publisher sends envelopes from one party to the peer's inbound queue. A
// failed send never undoes the caller's committed write; when Outbox is set
// the envelope is parked for replay.
type Publisher struct {
	Transport Sender
	Party     syncv1.Party
	IDs       IDGenerator
	Outbox    outbox.Store
	Clock     Clock
	Timeout   time.Duration
	Logger    *slog.Logger
}

func (p Publisher) Publish(ctx context.Context, envelope syncv1.Envelope) error {
	logger := p.logger()
	if envelope.Sender != p.Party {
		return fmt.Errorf("%w: publisher for %s cannot send as %s", syncv1.ErrEncoding, p.Party, envelope.Sender)
	}
	if envelope.MessageID == "" {
		ids := p.IDs
		if ids == nil {
			ids = UUIDGenerator{}
		}
		id, err := ids.NewID(ctx)
		if err != nil {
			return err
		}
		envelope.MessageID = id
	}

	queue := envelope.Recipient.InboundQueue()
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.Transport.Send(sendCtx, queue, envelope); err != nil {
		logger.Error("sync envelope publish failed",
			"event", "sync_publish_failed",
			"module", moduleName,
			"layer", "platform",
			"queue", queue,
			"message_id", envelope.MessageID,
			"changed_key", changedKeyName(envelope.ChangedKey),
			"error", err.Error(),
		)
		p.park(ctx, queue, envelope, err)
		return fmt.Errorf("publish %s to %s: %w", changedKeyName(envelope.ChangedKey), queue, err)
	}

	logger.Info("sync envelope published",
		"event", "sync_published",
		"module", moduleName,
		"layer", "platform",
		"queue", queue,
		"message_id", envelope.MessageID,
		"action", envelope.Action.String(),
		"changed_key", envelope.ChangedKey.String(),
	)
	return nil
}

func (p Publisher) park(ctx context.Context, queue string, envelope syncv1.Envelope, cause error) {
	if p.Outbox == nil {
		return
	}
	logger := p.logger()
	payload, err := syncv1.Encode(envelope)
	if err != nil {
		logger.Error("sync envelope park encode failed",
			"event", "sync_publish_park_encode_failed",
			"module", moduleName,
			"layer", "platform",
			"message_id", envelope.MessageID,
			"error", err.Error(),
		)
		return
	}
	now := time.Now().UTC()
	if p.Clock != nil {
		now = p.Clock.Now().UTC()
	}
	// The caller's deadline may be what failed the send; the row still lands.
	if err := p.Outbox.Append(context.WithoutCancel(ctx), outbox.Message{
		ID:        envelope.MessageID,
		Queue:     queue,
		Payload:   payload,
		Status:    outbox.StatusPending,
		LastError: cause.Error(),
		CreatedAt: now,
	}); err != nil {
		logger.Error("sync envelope park failed",
			"event", "sync_publish_park_failed",
			"module", moduleName,
			"layer", "platform",
			"message_id", envelope.MessageID,
			"error", err.Error(),
		)
		return
	}
	logger.Warn("sync envelope parked for replay",
		"event", "sync_publish_parked",
		"module", moduleName,
		"layer", "platform",
		"queue", queue,
		"message_id", envelope.MessageID,
	)
}

func (p Publisher) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func changedKeyName(key syncv1.ChangedKey) string {
	if key == nil {
		return "none"
	}
	return key.String()
}
