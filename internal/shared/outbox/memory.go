package outbox

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps parked envelopes in process.
type MemoryStore struct {
	mu       sync.Mutex
	messages map[string]Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{messages: make(map[string]Message)}
}

func (s *MemoryStore) Append(_ context.Context, message Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if message.Status == "" {
		message.Status = StatusPending
	}
	message.Payload = append([]byte(nil), message.Payload...)
	s.messages[message.ID] = message
	return nil
}

func (s *MemoryStore) ListPending(_ context.Context, limit int) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Message, 0, len(s.messages))
	for _, message := range s.messages {
		if message.Status == StatusPending {
			items = append(items, message)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *MemoryStore) MarkSent(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, ok := s.messages[id]
	if !ok {
		return ErrMessageNotFound
	}
	sentAt := at.UTC()
	message.Status = StatusSent
	message.SentAt = &sentAt
	s.messages[id] = message
	return nil
}

func (s *MemoryStore) MarkRetry(_ context.Context, id string, reason string, terminal bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, ok := s.messages[id]
	if !ok {
		return ErrMessageNotFound
	}
	message.RetryCount++
	message.LastError = reason
	if terminal {
		message.Status = StatusFailed
	}
	s.messages[id] = message
	return nil
}

// Get returns a copy of the stored row.
func (s *MemoryStore) Get(id string) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	message, ok := s.messages[id]
	return message, ok
}
