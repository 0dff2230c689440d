package app

import (
	"context"
	stderrors "errors"
	"strconv"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/being"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/event"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/npc"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/world"
	"github.com/yingzhou-world/chronicle/internal/chronicle/governor"
	"github.com/yingzhou-world/chronicle/internal/chronicle/i18n"
	"github.com/yingzhou-world/chronicle/internal/chronicle/storage"
	"github.com/yingzhou-world/chronicle/internal/platform/errors"
)

// validateEvent runs the same checks the projection applies, without
// mutating anything, so a rejected event never reaches the journal.
func (w *World) validateEvent(evt event.Event) error {
	meta, err := event.DecodeMetadata(evt.Metadata)
	if err != nil {
		return errors.Wrap(errors.CodeEventTypeInvalid, "event metadata is malformed", err)
	}

	switch evt.Type {
	case event.TypeCreated:
		if evt.Actor == "" {
			return errors.New(errors.CodeOwnerEmpty, "being owner is required")
		}
		if existing, err := w.proj.Beings.ByOwner(evt.Actor); err == nil {
			return errors.WithMetadata(errors.CodeAlreadyExists, "owner already has a being", map[string]string{
				"owner":    evt.Actor,
				"being_id": being.FormatID(existing.ID),
			})
		}
	case event.TypeMemory:
		beingID, err := being.ParseID(meta[event.MetaBeing])
		if err != nil {
			return errors.Wrap(errors.CodeEventTypeInvalid, "memory event requires a being id", err)
		}
		b, err := w.proj.Beings.Get(beingID)
		if err != nil {
			return err
		}
		if b.Owner != evt.Actor {
			return errors.WithMetadata(errors.CodeNotOwner, "caller does not own being", map[string]string{
				"being_id": being.FormatID(beingID),
				"caller":   evt.Actor,
			})
		}
	case event.TypeInteraction:
		n, err := w.proj.NPCs.Get(npc.Archetype(meta[event.MetaNPC]))
		if err != nil {
			return err
		}
		if !n.Active {
			return errors.WithMetadata(errors.CodeNPCInactive, "npc is not active", map[string]string{
				"npc": string(n.Archetype),
			})
		}
	case event.TypeDiscovery:
		switch meta[event.MetaKind] {
		case event.KindFragmentGrant:
			if _, err := strconv.ParseUint(meta[event.MetaFragment], 10, 32); err != nil {
				return errors.Wrap(errors.CodeEventTypeInvalid, "fragment grant requires a fragment id", err)
			}
		case event.KindEpochAdvance:
			if _, err := strconv.ParseUint(meta[event.MetaEpoch], 10, 8); err != nil {
				return errors.Wrap(errors.CodeEventTypeInvalid, "epoch advance requires an epoch value", err)
			}
		}
	}
	return nil
}

// Append records a raw event in the journal. Mutating kinds fail once the
// world is finalized.
func (w *World) Append(ctx context.Context, evtType event.Type, actor, contentHash string, metadata map[string]string) (event.Event, error) {
	ctx, span := tracer.Start(ctx, "chronicle.append")
	defer span.End()

	encoded, err := event.EncodeMetadata(metadata)
	if err != nil {
		return event.Event{}, errors.Wrap(errors.CodeEventTypeInvalid, "encode event metadata", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.appendLocked(ctx, event.Event{
		Type:        evtType,
		Actor:       actor,
		ContentHash: contentHash,
		Metadata:    encoded,
	})
}

// GetEvent returns the event with the given id.
func (w *World) GetEvent(ctx context.Context, id uint64) (event.Event, error) {
	evt, err := w.store.GetEvent(ctx, id)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return event.Event{}, errors.WithMetadata(errors.CodeNotFound, "event not found", map[string]string{
				"event_id": strconv.FormatUint(id, 10),
			})
		}
		return event.Event{}, errors.Wrap(errors.CodeUnknown, "get event", err)
	}
	return evt, nil
}

// CountEvents returns the journal length.
func (w *World) CountEvents(ctx context.Context) (uint64, error) {
	count, err := w.store.CountEvents(ctx)
	if err != nil {
		return 0, errors.Wrap(errors.CodeUnknown, "count events", err)
	}
	return count, nil
}

// ListEvents returns up to limit events starting at id start, in id order.
// Calling again with the last id + 1 resumes the scan.
func (w *World) ListEvents(ctx context.Context, start uint64, limit int) ([]event.Event, error) {
	events, err := w.store.ListEvents(ctx, start, limit)
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnknown, "list events", err)
	}
	return events, nil
}

// AdvanceWorldState moves the global era exactly one step forward. When a
// governor is configured the caller must present a grant with the
// world:advance scope.
func (w *World) AdvanceWorldState(ctx context.Context, next world.State, grant string) error {
	ctx, span := tracer.Start(ctx, "chronicle.advance_world_state")
	defer span.End()

	if err := w.requireGrant(grant, governor.ScopeWorldAdvance); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	advanced, err := w.world.AdvanceTo(next)
	if err != nil {
		return err
	}
	if err := w.persistWorldLocked(ctx, advanced); err != nil {
		return err
	}
	return nil
}

// FinalizeWorld seals the world. Idempotent. When a governor is configured
// the caller must present a grant with the world:finalize scope.
func (w *World) FinalizeWorld(ctx context.Context, grant string) error {
	ctx, span := tracer.Start(ctx, "chronicle.finalize_world")
	defer span.End()

	if err := w.requireGrant(grant, governor.ScopeWorldFinalize); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.finalizeLocked(ctx)
}

func (w *World) finalizeLocked(ctx context.Context) error {
	if w.world.Finalized {
		return nil
	}
	return w.persistWorldLocked(ctx, w.world.Finalize())
}

func (w *World) persistWorldLocked(ctx context.Context, next world.World) error {
	if err := w.store.SetWorldState(ctx, storage.WorldState{
		State:     uint8(next.State),
		Finalized: next.Finalized,
	}); err != nil {
		return errors.Wrap(errors.CodeUnknown, "persist world state", err)
	}
	w.world = next
	return nil
}

// Status is the world status read model.
type Status struct {
	State      world.State
	EraName    string
	Entropy    uint32
	Finalized  bool
	EventCount uint64
}

// WorldStatus returns the global status view with the era name localized
// for the requested locale.
func (w *World) WorldStatus(ctx context.Context, locale string) (Status, error) {
	count, err := w.CountEvents(ctx)
	if err != nil {
		return Status{}, err
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	return Status{
		State:      w.world.State,
		EraName:    i18n.GetCatalog(locale).EraName(uint8(w.world.State)),
		Entropy:    w.world.Entropy(),
		Finalized:  w.world.Finalized,
		EventCount: count,
	}, nil
}
