package v1

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestFanoutCollectsFailuresWithoutStopping(t *testing.T) {
	missing := errors.New("missing")
	var calls atomic.Int32
	result := Fanout(context.Background(), 2, []string{"dee", "ada", "cyd", "bob"}, func(_ context.Context, key string) error {
		calls.Add(1)
		if key == "ada" || key == "cyd" {
			return missing
		}
		return nil
	})

	if calls.Load() != 4 {
		t.Fatalf("expected every key to be applied, got %d calls", calls.Load())
	}
	if result.Attempted != 4 || result.Applied != 2 {
		t.Fatalf("unexpected counts %+v", result)
	}
	if len(result.Failures) != 2 || result.Failures[0].Key != "ada" || result.Failures[1].Key != "cyd" {
		t.Fatalf("expected failures in key order, got %+v", result.Failures)
	}
}

func TestFanoutRespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	keys := []string{"a", "b", "c", "d", "e", "f"}
	Fanout(context.Background(), 2, keys, func(context.Context, string) error {
		current := inFlight.Add(1)
		for {
			seen := peak.Load()
			if current <= seen || peak.CompareAndSwap(seen, current) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	})
	if peak.Load() > 2 {
		t.Fatalf("expected at most 2 concurrent calls, saw %d", peak.Load())
	}
}

func TestFanoutWithNoKeysIsNoop(t *testing.T) {
	result := Fanout(context.Background(), 0, nil, func(context.Context, string) error {
		t.Fatal("apply must not run")
		return nil
	})
	if result.Outcome() != OutcomeNoop {
		t.Fatalf("expected noop, got %s", result.Outcome())
	}
}

func TestFanoutRecordsPanickingKeyAsFailure(t *testing.T) {
	var applied atomic.Int32
	result := Fanout(context.Background(), 2, []string{"ada", "bob", "cyd"}, func(_ context.Context, key string) error {
		if key == "bob" {
			var projects map[string]int
			projects[key] = 1
		}
		applied.Add(1)
		return nil
	})

	if applied.Load() != 2 || result.Applied != 2 {
		t.Fatalf("expected the other keys to apply, got %+v", result)
	}
	if len(result.Failures) != 1 || result.Failures[0].Key != "bob" {
		t.Fatalf("expected bob to fail, got %+v", result.Failures)
	}
	if !errors.Is(result.Failures[0].Err, ErrEntityPanic) {
		t.Fatalf("expected entity panic error, got %v", result.Failures[0].Err)
	}
	if result.Outcome() != OutcomePartialSucceeded {
		t.Fatalf("expected partial outcome, got %s", result.Outcome())
	}
}
