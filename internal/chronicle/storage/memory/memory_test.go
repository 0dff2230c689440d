package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/dialogue"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/event"
	"github.com/yingzhou-world/chronicle/internal/chronicle/storage"
)

func TestAppendEventAssignsGaplessIDs(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for i := 0; i < 5; i++ {
		evt, err := s.AppendEvent(ctx, event.Event{Type: event.TypeDiscovery, Actor: "acct"})
		if err != nil {
			t.Fatalf("append event %d: %v", i, err)
		}
		if evt.ID != uint64(i) {
			t.Fatalf("expected id %d, got %d", i, evt.ID)
		}
	}

	count, err := s.CountEvents(ctx)
	if err != nil {
		t.Fatalf("count events: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 events, got %d", count)
	}
}

func TestGetEventOutOfRange(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	if _, err := s.GetEvent(ctx, 0); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestListEventsRestartable(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for i := 0; i < 7; i++ {
		if _, err := s.AppendEvent(ctx, event.Event{Type: event.TypeMemory, Actor: "acct"}); err != nil {
			t.Fatalf("append event: %v", err)
		}
	}

	var collected []event.Event
	var start uint64
	for {
		page, err := s.ListEvents(ctx, start, 3)
		if err != nil {
			t.Fatalf("list events: %v", err)
		}
		if len(page) == 0 {
			break
		}
		collected = append(collected, page...)
		start = page[len(page)-1].ID + 1
	}

	if len(collected) != 7 {
		t.Fatalf("expected 7 events across pages, got %d", len(collected))
	}
	for i, evt := range collected {
		if evt.ID != uint64(i) {
			t.Fatalf("expected id %d at position %d, got %d", i, i, evt.ID)
		}
	}
}

func TestPutContentIdempotentAndConflicting(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	content := dialogue.Content{RequestID: "req-1", Question: "q", Response: "a"}

	if err := s.PutContent(ctx, content); err != nil {
		t.Fatalf("put content: %v", err)
	}
	if err := s.PutContent(ctx, content); err != nil {
		t.Fatalf("identical re-put should be idempotent: %v", err)
	}

	divergent := dialogue.Content{RequestID: "req-1", Question: "different", Response: "a"}
	if err := s.PutContent(ctx, divergent); !errors.Is(err, storage.ErrContentConflict) {
		t.Fatalf("expected content conflict, got %v", err)
	}
}

func TestGetContentAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, ok, err := s.GetContent(ctx, "missing")
	if err != nil {
		t.Fatalf("get content: %v", err)
	}
	if ok {
		t.Fatal("expected absent content to report not present")
	}
}

func TestWorldStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	state, err := s.GetWorldState(ctx)
	if err != nil {
		t.Fatalf("get world state: %v", err)
	}
	if state.State != 0 || state.Finalized {
		t.Fatalf("expected zero state for fresh store, got %+v", state)
	}

	if err := s.SetWorldState(ctx, storage.WorldState{State: 4, Finalized: true}); err != nil {
		t.Fatalf("set world state: %v", err)
	}
	state, err = s.GetWorldState(ctx)
	if err != nil {
		t.Fatalf("get world state: %v", err)
	}
	if state.State != 4 || !state.Finalized {
		t.Fatalf("expected persisted state, got %+v", state)
	}
}
