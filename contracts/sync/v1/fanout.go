package v1

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

const DefaultFanoutLimit = 16

// Fanout runs apply once per key with at most limit calls in flight. A
// failing key never stops the others; failures are collected in key order.
func Fanout(ctx context.Context, limit int, keys []string, apply func(ctx context.Context, key string) error) ApplyResult {
	if limit <= 0 {
		limit = DefaultFanoutLimit
	}
	result := ApplyResult{Attempted: len(keys)}
	if len(keys) == 0 {
		return result
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(limit)
	for _, key := range keys {
		group.Go(func() error {
			err := applyOne(groupCtx, key, apply)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures = append(result.Failures, EntityFailure{Key: key, Err: err})
				return nil
			}
			result.Applied++
			return nil
		})
	}
	_ = group.Wait()

	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].Key < result.Failures[j].Key
	})
	return result
}

// applyOne turns a panic in apply into an entity failure; errgroup does not
// recover panics on its goroutines.
func applyOne(ctx context.Context, key string, apply func(ctx context.Context, key string) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrEntityPanic, r)
		}
	}()
	return apply(ctx, key)
}
