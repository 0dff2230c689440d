// Package replay rebuilds all derived chronicle state from the journal.
// Beings, NPCs, fragment ownership, and epoch progress are projections:
// none of them is persisted directly, so a restart replays the full history
// through Projection to reach the same state deterministically.
package replay

import (
	"context"
	"fmt"
	"strconv"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/being"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/epoch"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/event"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/fragment"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/npc"
	"github.com/yingzhou-world/chronicle/internal/chronicle/storage"
)

const replayPageSize = 200

// Projection is the derived state rebuilt from the journal.
type Projection struct {
	Beings    *being.Registry
	NPCs      *npc.Registry
	Fragments *fragment.Ledger
	Epochs    *epoch.Tracker

	// DegradationStep is the per-interaction increment applied while
	// folding interaction events. Defaults to the NPC package's step.
	DegradationStep uint32

	requests map[string]RequestOrigin
}

// RequestOrigin records which interaction a request id came from, so
// phase-2 writes can be validated and keyword triggers attributed.
type RequestOrigin struct {
	Archetype npc.Archetype
	Inquirer  string
}

// NewProjection returns an empty projection with the NPC cast seeded.
func NewProjection() *Projection {
	return &Projection{
		Beings:          being.NewRegistry(),
		NPCs:            npc.NewRegistry(),
		Fragments:       fragment.NewLedger(),
		Epochs:          epoch.NewTracker(),
		DegradationStep: npc.DefaultDegradationStep,
		requests:        make(map[string]RequestOrigin),
	}
}

// RequestOrigin returns the interaction origin of a request id. The boolean
// reports whether any interaction event referenced the id.
func (p *Projection) RequestOrigin(requestID string) (RequestOrigin, bool) {
	origin, ok := p.requests[requestID]
	return origin, ok
}

// Apply folds one event into the projection. Events the projection does not
// derive state from (conflict, free-form discovery) are accepted and
// ignored.
func (p *Projection) Apply(ctx context.Context, evt event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	meta, err := event.DecodeMetadata(evt.Metadata)
	if err != nil {
		return fmt.Errorf("event %d: %w", evt.ID, err)
	}

	switch evt.Type {
	case event.TypeCreated:
		return p.applyCreated(evt, meta)
	case event.TypeMemory:
		return p.applyMemory(evt, meta)
	case event.TypeInteraction:
		return p.applyInteraction(evt, meta)
	case event.TypeDiscovery:
		return p.applyDiscovery(evt, meta)
	case event.TypeConflict:
		return nil
	default:
		return fmt.Errorf("event %d: unknown type %q", evt.ID, evt.Type)
	}
}

func (p *Projection) applyCreated(evt event.Event, meta map[string]string) error {
	created, err := p.Beings.Create(evt.Actor, meta[event.MetaGenesisHash], evt.Timestamp)
	if err != nil {
		return fmt.Errorf("event %d: replay being creation: %w", evt.ID, err)
	}
	// Journal order and registry order must agree or the history is
	// corrupt.
	if recorded := meta[event.MetaBeing]; recorded != "" && recorded != being.FormatID(created.ID) {
		return fmt.Errorf("event %d: being id drift: recorded %s, rebuilt %d", evt.ID, recorded, created.ID)
	}
	return nil
}

func (p *Projection) applyMemory(evt event.Event, meta map[string]string) error {
	beingID, err := being.ParseID(meta[event.MetaBeing])
	if err != nil {
		return fmt.Errorf("event %d: memory event being id: %w", evt.ID, err)
	}
	m := being.Memory{
		ContentHash: evt.ContentHash,
		Category:    meta[event.MetaCategory],
		Tag:         meta[event.MetaTag],
		Timestamp:   evt.Timestamp,
	}
	if err := p.Beings.RecordMemory(beingID, evt.Actor, m); err != nil {
		return fmt.Errorf("event %d: replay memory: %w", evt.ID, err)
	}
	return nil
}

func (p *Projection) applyInteraction(evt event.Event, meta map[string]string) error {
	archetype := npc.Archetype(meta[event.MetaNPC])
	requestID := meta[event.MetaRequestID]
	rec := npc.NewRecord(evt.Timestamp, requestID, evt.Actor, evt.ContentHash)
	step := p.DegradationStep
	if step == 0 {
		step = npc.DefaultDegradationStep
	}
	if _, err := p.NPCs.RecordInteraction(archetype, rec, step); err != nil {
		return fmt.Errorf("event %d: replay interaction: %w", evt.ID, err)
	}
	if requestID != "" {
		if _, known := p.requests[requestID]; !known {
			p.requests[requestID] = RequestOrigin{Archetype: archetype, Inquirer: evt.Actor}
		}
	}
	// The inquirer's being counter moves with every completed phase-1
	// interaction; inquirers without a being are valid and skipped.
	if b, err := p.Beings.ByOwner(evt.Actor); err == nil {
		if err := p.Beings.NoteInteraction(b.ID); err != nil {
			return fmt.Errorf("event %d: replay interaction count: %w", evt.ID, err)
		}
	}
	return nil
}

func (p *Projection) applyDiscovery(evt event.Event, meta map[string]string) error {
	switch meta[event.MetaKind] {
	case event.KindFragmentGrant:
		raw := meta[event.MetaFragment]
		fragmentID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return fmt.Errorf("event %d: fragment grant id %q: %w", evt.ID, raw, err)
		}
		p.Fragments.Grant(evt.Actor, uint32(fragmentID))
		if kw := meta[event.MetaKeyword]; kw != "" {
			p.Fragments.NoteKeyword(evt.Actor, kw)
		}
	case event.KindEpochAdvance:
		raw := meta[event.MetaEpoch]
		reached, err := strconv.ParseUint(raw, 10, 8)
		if err != nil {
			return fmt.Errorf("event %d: epoch advance value %q: %w", evt.ID, raw, err)
		}
		p.Epochs.Set(evt.Actor, uint8(reached))
	}
	return nil
}

// Replay feeds the full journal through the projection in order, detecting
// sequence gaps. It returns the number of events applied.
func Replay(ctx context.Context, store storage.EventStore, p *Projection) (uint64, error) {
	if store == nil {
		return 0, fmt.Errorf("event store is not configured")
	}
	if p == nil {
		return 0, fmt.Errorf("projection is not configured")
	}

	var next uint64
	for {
		events, err := store.ListEvents(ctx, next, replayPageSize)
		if err != nil {
			return next, err
		}
		if len(events) == 0 {
			return next, nil
		}
		for _, evt := range events {
			if evt.ID != next {
				return next, fmt.Errorf("journal gap: expected event %d, got %d", next, evt.ID)
			}
			if err := p.Apply(ctx, evt); err != nil {
				return next, err
			}
			next++
		}
	}
}
