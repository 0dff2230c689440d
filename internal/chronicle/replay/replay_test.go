package replay

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/event"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/npc"
	"github.com/yingzhou-world/chronicle/internal/chronicle/storage/memory"
)

func mustMeta(t *testing.T, meta map[string]string) string {
	t.Helper()
	encoded, err := event.EncodeMetadata(meta)
	if err != nil {
		t.Fatalf("encode metadata: %v", err)
	}
	return encoded
}

func TestReplayRebuildsProjection(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now().UTC()

	history := []event.Event{
		{
			Type: event.TypeCreated, Actor: "owner-a", Timestamp: now,
			Metadata: mustMeta(t, map[string]string{
				event.MetaBeing:       "1",
				event.MetaGenesisHash: "genesis-a",
			}),
		},
		{
			Type: event.TypeInteraction, Actor: "owner-a", Timestamp: now.Add(time.Second),
			ContentHash: "hash-q",
			Metadata: mustMeta(t, map[string]string{
				event.MetaNPC:       string(npc.ArchetypeHistorian),
				event.MetaRequestID: "req-1",
			}),
		},
		{
			Type: event.TypeMemory, Actor: "owner-a", Timestamp: now.Add(2 * time.Second),
			ContentHash: "mem-hash",
			Metadata: mustMeta(t, map[string]string{
				event.MetaBeing:    "1",
				event.MetaCategory: "dialogue",
				event.MetaTag:      string(npc.ArchetypeHistorian),
			}),
		},
		{
			Type: event.TypeDiscovery, Actor: "owner-a", Timestamp: now.Add(3 * time.Second),
			Metadata: mustMeta(t, map[string]string{
				event.MetaKind:     event.KindFragmentGrant,
				event.MetaFragment: "10",
				event.MetaKeyword:  "创世",
			}),
		},
		{
			Type: event.TypeDiscovery, Actor: "owner-a", Timestamp: now.Add(4 * time.Second),
			Metadata: mustMeta(t, map[string]string{
				event.MetaKind:  event.KindEpochAdvance,
				event.MetaEpoch: "1",
			}),
		},
	}
	for _, evt := range history {
		if _, err := store.AppendEvent(ctx, evt); err != nil {
			t.Fatalf("seed event: %v", err)
		}
	}

	p := NewProjection()
	applied, err := Replay(ctx, store, p)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if applied != uint64(len(history)) {
		t.Fatalf("expected %d applied events, got %d", len(history), applied)
	}

	b, err := p.Beings.ByOwner("owner-a")
	if err != nil {
		t.Fatalf("rebuilt being: %v", err)
	}
	if b.ID != 1 || b.GenesisHash != "genesis-a" {
		t.Fatalf("expected being 1 with genesis hash, got %+v", b)
	}
	if b.MemoryCount() != 1 {
		t.Fatalf("expected 1 memory, got %d", b.MemoryCount())
	}
	if b.InteractionCount.Value() != 1 {
		t.Fatalf("expected 1 interaction, got %d", b.InteractionCount.Value())
	}

	historian, err := p.NPCs.Get(npc.ArchetypeHistorian)
	if err != nil {
		t.Fatalf("rebuilt npc: %v", err)
	}
	if historian.Degradation.Value() != 1 || len(historian.History) != 1 {
		t.Fatalf("expected npc degradation 1 with one record, got %d/%d", historian.Degradation.Value(), len(historian.History))
	}
	if historian.History[0].RequestID != "req-1" {
		t.Fatalf("expected request id req-1 in rebuilt history, got %q", historian.History[0].RequestID)
	}

	if !p.Fragments.Owns("owner-a", 10) {
		t.Fatal("expected fragment 10 ownership after replay")
	}
	if p.Fragments.NoteKeyword("owner-a", "创世") {
		t.Fatal("expected keyword to be marked as already fired")
	}

	if got := p.Epochs.Current("owner-a"); got != 1 {
		t.Fatalf("expected epoch 1 after replay, got %d", got)
	}
}

func TestReplayDeterministic(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now().UTC()

	for i := 0; i < 30; i++ {
		evt := event.Event{
			Type: event.TypeInteraction, Actor: "owner-a", Timestamp: now.Add(time.Duration(i) * time.Second),
			Metadata: mustMeta(t, map[string]string{
				event.MetaNPC:       string(npc.ArchetypeForgotten),
				event.MetaRequestID: "req-" + strings.Repeat("x", i+1),
			}),
		}
		if _, err := store.AppendEvent(ctx, evt); err != nil {
			t.Fatalf("seed event: %v", err)
		}
	}

	first := NewProjection()
	if _, err := Replay(ctx, store, first); err != nil {
		t.Fatalf("first replay: %v", err)
	}
	second := NewProjection()
	if _, err := Replay(ctx, store, second); err != nil {
		t.Fatalf("second replay: %v", err)
	}

	a, err := first.NPCs.Get(npc.ArchetypeForgotten)
	if err != nil {
		t.Fatalf("get npc: %v", err)
	}
	b, err := second.NPCs.Get(npc.ArchetypeForgotten)
	if err != nil {
		t.Fatalf("get npc: %v", err)
	}
	if a.Degradation.Value() != b.Degradation.Value() {
		t.Fatalf("expected deterministic degradation, got %d and %d", a.Degradation.Value(), b.Degradation.Value())
	}
	if len(a.History) != len(b.History) {
		t.Fatalf("expected deterministic history length, got %d and %d", len(a.History), len(b.History))
	}
}

func TestReplayDetectsGaps(t *testing.T) {
	ctx := context.Background()
	store := &gappyStore{}
	if _, err := Replay(ctx, store, NewProjection()); err == nil {
		t.Fatal("expected gap detection to fail replay")
	} else if !strings.Contains(err.Error(), "journal gap") {
		t.Fatalf("expected journal gap error, got %v", err)
	}
}

func TestApplyRejectsUnknownType(t *testing.T) {
	p := NewProjection()
	err := p.Apply(context.Background(), event.Event{ID: 3, Type: "bogus"})
	if err == nil {
		t.Fatal("expected unknown event type to fail")
	}
}

type gappyStore struct{}

func (g *gappyStore) AppendEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	return evt, nil
}

func (g *gappyStore) GetEvent(ctx context.Context, id uint64) (event.Event, error) {
	return event.Event{}, nil
}

func (g *gappyStore) CountEvents(ctx context.Context) (uint64, error) { return 2, nil }

func (g *gappyStore) ListEvents(ctx context.Context, start uint64, limit int) ([]event.Event, error) {
	if start > 0 {
		return nil, nil
	}
	return []event.Event{
		{ID: 0, Type: event.TypeConflict},
		{ID: 2, Type: event.TypeConflict},
	}, nil
}
