// Package memory provides an in-memory storage implementation for tests and
// for deployments where durability belongs to the execution environment.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/dialogue"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/event"
	"github.com/yingzhou-world/chronicle/internal/chronicle/storage"
)

// Store keeps the journal, dialogue content, and world state in memory.
type Store struct {
	mu       sync.RWMutex
	events   []event.Event
	contents map[string]dialogue.Content
	state    storage.WorldState
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{contents: make(map[string]dialogue.Content)}
}

// AppendEvent stores the event with the next sequence id.
func (s *Store) AppendEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)
	evt.ID = uint64(len(s.events))
	s.events = append(s.events, evt)
	return evt, nil
}

// GetEvent returns the event with the given id.
func (s *Store) GetEvent(ctx context.Context, id uint64) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id >= uint64(len(s.events)) {
		return event.Event{}, storage.ErrNotFound
	}
	return s.events[id], nil
}

// CountEvents returns the number of stored events.
func (s *Store) CountEvents(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.events)), nil
}

// ListEvents returns up to limit events starting at id start.
func (s *Store) ListEvents(ctx context.Context, start uint64, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := uint64(len(s.events))
	if start >= total {
		return nil, nil
	}
	end := start + uint64(limit)
	if end > total {
		end = total
	}
	out := make([]event.Event, end-start)
	copy(out, s.events[start:end])
	return out, nil
}

// PutContent stores a dialogue payload, idempotent for identical payloads.
func (s *Store) PutContent(ctx context.Context, content dialogue.Content) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.contents[content.RequestID]; ok {
		if existing.Equal(content) {
			return nil
		}
		return storage.ErrContentConflict
	}
	s.contents[content.RequestID] = content
	return nil
}

// GetContent returns the payload stored under the request id.
func (s *Store) GetContent(ctx context.Context, requestID string) (dialogue.Content, bool, error) {
	if err := ctx.Err(); err != nil {
		return dialogue.Content{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.contents[requestID]
	return content, ok, nil
}

// GetWorldState returns the stored world state.
func (s *Store) GetWorldState(ctx context.Context) (storage.WorldState, error) {
	if err := ctx.Err(); err != nil {
		return storage.WorldState{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, nil
}

// SetWorldState overwrites the stored world state.
func (s *Store) SetWorldState(ctx context.Context, state storage.WorldState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	return nil
}

var _ storage.Store = (*Store)(nil)
