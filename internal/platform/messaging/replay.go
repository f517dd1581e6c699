package messaging

import (
	"context"
	"errors"
	"log/slog"
	"time"

	syncv1 "entomophage/contracts/sync/v1"
	"entomophage/internal/shared/outbox"
)

// Replayer re-sends envelopes parked by Publisher.
type Replayer struct {
	Outbox      outbox.Store
	Transport   Sender
	Clock       Clock
	BatchSize   int
	MaxAttempts int
	Interval    time.Duration
	Logger      *slog.Logger
}

func (r Replayer) RunOnce(ctx context.Context) error {
	logger := r.logger()
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	maxAttempts := r.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	pending, err := r.Outbox.ListPending(ctx, limit)
	if err != nil {
		logger.Error("sync outbox list pending failed",
			"event", "sync_outbox_list_failed",
			"module", moduleName,
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	sent := 0
	for _, message := range pending {
		envelope, err := syncv1.Decode(message.Payload)
		if err != nil {
			logger.Error("sync outbox payload decode failed",
				"event", "sync_outbox_decode_failed",
				"module", moduleName,
				"layer", "worker",
				"outbox_id", message.ID,
				"error", err.Error(),
			)
			if err := r.Outbox.MarkRetry(ctx, message.ID, err.Error(), true); err != nil {
				return err
			}
			continue
		}

		if err := r.Transport.Send(ctx, message.Queue, envelope); err != nil {
			terminal := message.RetryCount+1 >= maxAttempts
			logger.Warn("sync outbox resend failed",
				"event", "sync_outbox_resend_failed",
				"module", moduleName,
				"layer", "worker",
				"outbox_id", message.ID,
				"queue", message.Queue,
				"retry_count", message.RetryCount+1,
				"terminal", terminal,
				"error", err.Error(),
			)
			if markErr := r.Outbox.MarkRetry(ctx, message.ID, err.Error(), terminal); markErr != nil {
				return markErr
			}
			if errors.Is(err, syncv1.ErrConnection) {
				return nil
			}
			continue
		}

		if err := r.Outbox.MarkSent(ctx, message.ID, r.now()); err != nil {
			logger.Error("sync outbox mark sent failed",
				"event", "sync_outbox_mark_sent_failed",
				"module", moduleName,
				"layer", "worker",
				"outbox_id", message.ID,
				"error", err.Error(),
			)
			return err
		}
		sent++
	}

	if sent > 0 {
		logger.Info("sync outbox replay cycle completed",
			"event", "sync_outbox_replay_completed",
			"module", moduleName,
			"layer", "worker",
			"sent_count", sent,
		)
	}
	return nil
}

// Run calls RunOnce every Interval until ctx ends. A failed pass is logged
// and retried on the next tick; Run returns only when ctx ends.
func (r Replayer) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
			r.logger().Warn("sync outbox replay pass failed",
				"event", "sync_outbox_replay_failed",
				"module", moduleName,
				"layer", "worker",
				"interval_ms", interval.Milliseconds(),
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (r Replayer) now() time.Time {
	if r.Clock != nil {
		return r.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (r Replayer) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
