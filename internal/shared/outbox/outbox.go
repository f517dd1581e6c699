package outbox

import (
	"context"
	"errors"
	"time"
)

// Message is an envelope whose publish failed after the local write had
// already committed. The replay worker re-sends pending rows.
type Message struct {
	ID         string
	Queue      string
	Payload    []byte
	Status     string // pending, sent, failed
	RetryCount int
	LastError  string
	CreatedAt  time.Time
	SentAt     *time.Time
}

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

var ErrMessageNotFound = errors.New("outbox message not found")

// Store persists parked envelopes.
type Store interface {
	Append(ctx context.Context, message Message) error
	ListPending(ctx context.Context, limit int) ([]Message, error)
	MarkSent(ctx context.Context, id string, at time.Time) error
	// MarkRetry records a failed attempt; terminal moves the row to failed.
	MarkRetry(ctx context.Context, id string, reason string, terminal bool) error
}
