package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	syncv1 "entomophage/contracts/sync/v1"
)

const defaultHandlerTimeout = 30 * time.Second

// Disposition is where a delivery ended up before it was acknowledged.
type Disposition string

const (
	DispositionDecodeFailed Disposition = "decode_failed"
	DispositionIgnored      Disposition = "ignored"
	DispositionUnrouted     Disposition = "unrouted"
	DispositionInvalid      Disposition = "invalid"
	DispositionFailed       Disposition = "failed"
	DispositionApplied      Disposition = "applied"
)

// Report describes the processing of a single delivery.
type Report struct {
	Disposition Disposition
	MessageID   string
	Key         syncv1.ChangedKey
	Result      syncv1.ApplyResult
	Err         error
}

// Dispatcher is the single consumption loop bound to Self's inbound queue.
// Every delivery is acknowledged after processing, whatever the outcome;
// there is no retry.
type Dispatcher struct {
	Consumer       Consumer
	Self           syncv1.Party
	Handlers       map[syncv1.ChangedKey]syncv1.Handler
	Prefetch       int
	AutoAck        bool
	HandlerTimeout time.Duration
	Tag            string
	Logger         *slog.Logger
}

// Run consumes until ctx is cancelled. A closed delivery stream means the
// broker went away and is returned as an error.
func (d Dispatcher) Run(ctx context.Context) error {
	logger := d.logger()
	queue := d.Self.InboundQueue()
	prefetch := d.Prefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	ackMode := "manual"
	if d.AutoAck {
		// Both ack modes exist in deployed services; keep it visible.
		ackMode = "auto"
	}

	deliveries, err := d.Consumer.Consume(ctx, queue, ConsumeOptions{
		Tag:      d.Tag,
		Prefetch: prefetch,
		AutoAck:  d.AutoAck,
	})
	if err != nil {
		return err
	}
	logger.Info("sync dispatcher started",
		"event", "sync_dispatcher_started",
		"module", moduleName,
		"layer", "worker",
		"party", d.Self.String(),
		"queue", queue,
		"prefetch", prefetch,
		"ack_mode", ackMode,
		"handler_count", len(d.Handlers),
	)

	for {
		select {
		case <-ctx.Done():
			logger.Info("sync dispatcher stopped",
				"event", "sync_dispatcher_stopped",
				"module", moduleName,
				"layer", "worker",
				"queue", queue,
			)
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("%w: delivery stream for %s closed", syncv1.ErrConnection, queue)
			}
			d.Process(ctx, delivery.Body)
			if d.AutoAck {
				continue
			}
			if err := delivery.Ack(); err != nil {
				logger.Error("sync delivery ack failed",
					"event", "sync_ack_failed",
					"module", moduleName,
					"layer", "worker",
					"queue", queue,
					"message_id", delivery.MessageID,
					"error", err.Error(),
				)
				return fmt.Errorf("%w: ack on %s: %w", syncv1.ErrChannelUnavailable, queue, err)
			}
		}
	}
}

// Process decodes, routes and applies one message body. It never panics and
// never returns an error; the caller acknowledges regardless of the report.
// Handlers that fan out through syncv1.Fanout get per-entity panics back as
// failures wrapping syncv1.ErrEntityPanic.
func (d Dispatcher) Process(ctx context.Context, body []byte) Report {
	logger := d.logger()

	envelope, err := syncv1.Decode(body)
	if err != nil {
		logger.Warn("sync envelope dropped",
			"event", "sync_decode_failed",
			"module", moduleName,
			"layer", "worker",
			"party", d.Self.String(),
			"body_bytes", len(body),
			"error", err.Error(),
		)
		return Report{Disposition: DispositionDecodeFailed, Err: err}
	}

	report := Report{MessageID: envelope.MessageID, Key: envelope.ChangedKey}
	if envelope.Sender != d.Self.Peer() || envelope.Recipient != d.Self {
		logger.Warn("sync envelope ignored",
			"event", "sync_envelope_ignored",
			"module", moduleName,
			"layer", "worker",
			"party", d.Self.String(),
			"message_id", envelope.MessageID,
			"sender", envelope.Sender.String(),
			"recipient", envelope.Recipient.String(),
		)
		report.Disposition = DispositionIgnored
		return report
	}

	handler, ok := d.Handlers[envelope.ChangedKey]
	if !ok || handler == nil {
		logger.Info("sync envelope has no handler",
			"event", "sync_envelope_unrouted",
			"module", moduleName,
			"layer", "worker",
			"party", d.Self.String(),
			"message_id", envelope.MessageID,
			"changed_key", envelope.ChangedKey.String(),
		)
		report.Disposition = DispositionUnrouted
		return report
	}

	started := time.Now()
	result, err := d.invoke(ctx, handler, envelope)
	report.Result = result
	if err != nil {
		report.Err = err
		report.Disposition = DispositionFailed
		if errors.Is(err, syncv1.ErrValidation) {
			report.Disposition = DispositionInvalid
		}
		logger.Error("sync handler failed",
			"event", "sync_handler_failed",
			"module", moduleName,
			"layer", "worker",
			"party", d.Self.String(),
			"message_id", envelope.MessageID,
			"changed_key", envelope.ChangedKey.String(),
			"disposition", string(report.Disposition),
			"duration_ms", time.Since(started).Milliseconds(),
			"error", err.Error(),
		)
		return report
	}

	report.Disposition = DispositionApplied
	outcome := result.Outcome()
	attrs := []any{
		"event", "sync_handler_applied",
		"module", moduleName,
		"layer", "worker",
		"party", d.Self.String(),
		"message_id", envelope.MessageID,
		"changed_key", envelope.ChangedKey.String(),
		"action", envelope.Action.String(),
		"outcome", string(outcome),
		"attempted", result.Attempted,
		"applied", result.Applied,
		"duration_ms", time.Since(started).Milliseconds(),
	}
	switch outcome {
	case syncv1.OutcomePartialSucceeded, syncv1.OutcomeAllFailed:
		for _, failure := range result.Failures {
			logger.Warn("sync entity update failed",
				"event", "sync_entity_update_failed",
				"module", moduleName,
				"layer", "worker",
				"message_id", envelope.MessageID,
				"entity", failure.Key,
				"error", failure.Err.Error(),
			)
		}
		report.Err = result.Err()
		logger.Warn("sync envelope partially applied", attrs...)
	default:
		logger.Info("sync envelope applied", attrs...)
	}
	return report
}

func (d Dispatcher) invoke(ctx context.Context, handler syncv1.Handler, envelope syncv1.Envelope) (result syncv1.ApplyResult, err error) {
	timeout := d.HandlerTimeout
	if timeout <= 0 {
		timeout = defaultHandlerTimeout
	}
	handlerCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if recovered := recover(); recovered != nil {
			result = syncv1.ApplyResult{}
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, recovered)
		}
	}()
	return handler(handlerCtx, envelope)
}

func (d Dispatcher) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
