package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	syncv1 "entomophage/contracts/sync/v1"
	"entomophage/internal/shared/outbox"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type staticIDs struct {
	id string
}

func (s staticIDs) NewID(context.Context) (string, error) {
	return s.id, nil
}

func TestPublishSendsToPeerInboundQueue(t *testing.T) {
	transport := NewMemory(discardLogger())
	if err := transport.Open(syncv1.QueueIssues); err != nil {
		t.Fatalf("open: %v", err)
	}
	publisher := Publisher{
		Transport: transport,
		Party:     syncv1.PartyIdentity,
		IDs:       staticIDs{id: "msg-1"},
		Logger:    discardLogger(),
	}

	if err := publisher.Publish(context.Background(), syncv1.NewTeamRenamed("Red", "Blue")); err != nil {
		t.Fatalf("publish: %v", err)
	}
	sent := transport.Sent(syncv1.QueueIssues)
	if len(sent) != 1 {
		t.Fatalf("expected one envelope on issue queue, got %d", len(sent))
	}
	if sent[0].MessageID != "msg-1" {
		t.Fatalf("expected message id to be assigned, got %q", sent[0].MessageID)
	}
	if transport.Pending(syncv1.QueueIssues) != 1 {
		t.Fatalf("expected one pending delivery")
	}
}

func TestPublishRejectsEnvelopeFromOtherParty(t *testing.T) {
	transport := NewMemory(discardLogger())
	publisher := Publisher{Transport: transport, Party: syncv1.PartyIssues, Logger: discardLogger()}

	err := publisher.Publish(context.Background(), syncv1.NewTeamRenamed("Red", "Blue"))
	if !errors.Is(err, syncv1.ErrEncoding) {
		t.Fatalf("expected encoding error, got %v", err)
	}
}

func TestPublishWithoutOpenQueueFailsWithChannelUnavailable(t *testing.T) {
	transport := NewMemory(discardLogger())
	publisher := Publisher{Transport: transport, Party: syncv1.PartyIdentity, Logger: discardLogger()}

	err := publisher.Publish(context.Background(), syncv1.NewTeamRenamed("Red", "Blue"))
	if !errors.Is(err, syncv1.ErrChannelUnavailable) {
		t.Fatalf("expected channel unavailable, got %v", err)
	}
}

func TestPublishParksEnvelopeAndReplayerResends(t *testing.T) {
	transport := NewMemory(discardLogger())
	store := outbox.NewMemoryStore()
	clock := fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	publisher := Publisher{
		Transport: transport,
		Party:     syncv1.PartyIdentity,
		IDs:       staticIDs{id: "msg-parked"},
		Outbox:    store,
		Clock:     clock,
		Logger:    discardLogger(),
	}

	if err := publisher.Publish(context.Background(), syncv1.NewTeamRenamed("Red", "Blue")); err == nil {
		t.Fatal("expected publish to fail before the queue is opened")
	}
	parked, ok := store.Get("msg-parked")
	if !ok || parked.Status != outbox.StatusPending || parked.Queue != syncv1.QueueIssues {
		t.Fatalf("expected parked pending row, got %+v", parked)
	}

	if err := transport.Open(syncv1.QueueIssues); err != nil {
		t.Fatalf("open: %v", err)
	}
	replayer := Replayer{Outbox: store, Transport: transport, Clock: clock, Logger: discardLogger()}
	if err := replayer.RunOnce(context.Background()); err != nil {
		t.Fatalf("replay: %v", err)
	}

	sent := transport.Sent(syncv1.QueueIssues)
	if len(sent) != 1 || sent[0].MessageID != "msg-parked" {
		t.Fatalf("expected replayed envelope, got %+v", sent)
	}
	row, _ := store.Get("msg-parked")
	if row.Status != outbox.StatusSent || row.SentAt == nil || !row.SentAt.Equal(clock.now) {
		t.Fatalf("expected row marked sent, got %+v", row)
	}
}

// deadlineAwareOutbox refuses writes on a finished context, like a database
// driver would.
type deadlineAwareOutbox struct {
	*outbox.MemoryStore
}

func (s deadlineAwareOutbox) Append(ctx context.Context, message outbox.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.MemoryStore.Append(ctx, message)
}

func TestPublishParksEnvelopeWhenCallerContextIsCanceled(t *testing.T) {
	store := outbox.NewMemoryStore()
	publisher := Publisher{
		Transport: NewMemory(discardLogger()),
		Party:     syncv1.PartyIdentity,
		IDs:       staticIDs{id: "msg-canceled"},
		Outbox:    deadlineAwareOutbox{MemoryStore: store},
		Logger:    discardLogger(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := publisher.Publish(ctx, syncv1.NewTeamRenamed("Red", "Blue")); err == nil {
		t.Fatal("expected publish to fail")
	}
	parked, ok := store.Get("msg-canceled")
	if !ok || parked.Status != outbox.StatusPending {
		t.Fatalf("expected parked pending row despite canceled context, got %+v (found=%v)", parked, ok)
	}
}

func TestReplayerMarksRowFailedAfterMaxAttempts(t *testing.T) {
	transport := NewMemory(discardLogger())
	store := outbox.NewMemoryStore()
	payload, err := syncv1.Encode(syncv1.NewTeamRenamed("Red", "Blue"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := store.Append(context.Background(), outbox.Message{ID: "m1", Queue: syncv1.QueueIssues, Payload: payload}); err != nil {
		t.Fatalf("append: %v", err)
	}

	replayer := Replayer{Outbox: store, Transport: transport, MaxAttempts: 2, Logger: discardLogger()}
	for i := 0; i < 2; i++ {
		if err := replayer.RunOnce(context.Background()); err != nil {
			t.Fatalf("replay %d: %v", i, err)
		}
	}
	row, _ := store.Get("m1")
	if row.Status != outbox.StatusFailed || row.RetryCount != 2 {
		t.Fatalf("expected failed row after two attempts, got %+v", row)
	}
}

func TestMemoryGatesDeliveriesOnPrefetch(t *testing.T) {
	transport := NewMemory(discardLogger())
	if err := transport.Open(syncv1.QueueIssues); err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, name := range []string{"A", "B"} {
		if err := transport.Send(ctx, syncv1.QueueIssues, syncv1.NewTeamRenamed(name, "Z")); err != nil {
			t.Fatalf("send: %v", err)
		}
	}
	deliveries, err := transport.Consume(ctx, syncv1.QueueIssues, ConsumeOptions{Prefetch: 1})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	first := <-deliveries
	select {
	case <-deliveries:
		t.Fatal("second delivery arrived before the first was acknowledged")
	case <-time.After(30 * time.Millisecond):
	}
	if err := first.Ack(); err != nil {
		t.Fatalf("ack: %v", err)
	}
	select {
	case second := <-deliveries:
		envelope, err := syncv1.Decode(second.Body)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		renamed, _ := syncv1.ParseTeamRenamed(envelope)
		if renamed.OldName != "B" {
			t.Fatalf("expected FIFO order, got %s", renamed.OldName)
		}
	case <-time.After(time.Second):
		t.Fatal("second delivery never arrived")
	}
}
