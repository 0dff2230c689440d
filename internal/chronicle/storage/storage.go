// Package storage defines persistence contracts for the chronicle: the
// event journal, the dialogue content store, and the global world state.
// All other state is a projection rebuilt from these by replay.
package storage

import (
	"context"
	"errors"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/dialogue"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/event"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrContentConflict indicates a content write diverged from the
	// payload already stored under the same request id.
	ErrContentConflict = errors.New("content conflict")
)

// EventStore persists the append-only journal. Implementations assign ids
// 0-based, strictly increasing, with no gaps.
type EventStore interface {
	// AppendEvent stores the event and returns it with its assigned id.
	// The caller's ID field is ignored.
	AppendEvent(ctx context.Context, evt event.Event) (event.Event, error)
	// GetEvent returns the event with the given id, or ErrNotFound.
	GetEvent(ctx context.Context, id uint64) (event.Event, error)
	// CountEvents returns the number of stored events.
	CountEvents(ctx context.Context) (uint64, error)
	// ListEvents returns up to limit events starting at id start, in id
	// order. Calling again with the last returned id + 1 resumes the
	// scan, so iteration is restartable and never mutates.
	ListEvents(ctx context.Context, start uint64, limit int) ([]event.Event, error)
}

// ContentStore persists dialogue payloads keyed by request id.
type ContentStore interface {
	// PutContent stores the payload. Re-putting an identical payload is a
	// no-op; a divergent payload under the same request id returns
	// ErrContentConflict.
	PutContent(ctx context.Context, content dialogue.Content) error
	// GetContent returns the payload for the request id. The boolean
	// reports presence; absence is not an error.
	GetContent(ctx context.Context, requestID string) (dialogue.Content, bool, error)
}

// WorldState is the persisted coarse state of the ledger.
type WorldState struct {
	State     uint8
	Finalized bool
}

// StateStore persists the global world state singleton.
type StateStore interface {
	// GetWorldState returns the stored state. A store that has never been
	// written returns the zero state.
	GetWorldState(ctx context.Context) (WorldState, error)
	// SetWorldState overwrites the stored state.
	SetWorldState(ctx context.Context, state WorldState) error
}

// Store bundles the three persistence contracts an embedded deployment
// needs.
type Store interface {
	EventStore
	ContentStore
	StateStore
}
