package app

import (
	"context"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/being"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/dialogue"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/event"
	"github.com/yingzhou-world/chronicle/internal/platform/errors"
	"github.com/yingzhou-world/chronicle/internal/platform/id"
)

// CreateBeing registers a digital being for owner. Each owner may create
// exactly one; the second attempt fails with AlreadyExists.
func (w *World) CreateBeing(ctx context.Context, owner string) (being.Reflection, error) {
	ctx, span := tracer.Start(ctx, "chronicle.create_being")
	defer span.End()

	nonce, err := id.NewID()
	if err != nil {
		return being.Reflection{}, errors.Wrap(errors.CodeUnknown, "generate genesis nonce", err)
	}
	genesisHash := dialogue.HashText(owner + "\x00" + nonce)

	w.mu.Lock()
	defer w.mu.Unlock()

	nextID := uint64(w.proj.Beings.Count()) + 1
	meta, err := event.EncodeMetadata(map[string]string{
		event.MetaBeing:       being.FormatID(nextID),
		event.MetaGenesisHash: genesisHash,
	})
	if err != nil {
		return being.Reflection{}, errors.Wrap(errors.CodeUnknown, "encode creation metadata", err)
	}

	appended, err := w.appendLocked(ctx, event.Event{
		Type:        event.TypeCreated,
		Actor:       owner,
		ContentHash: genesisHash,
		Metadata:    meta,
	})
	if err != nil {
		return being.Reflection{}, err
	}

	return w.proj.Beings.Reflect(nextID, appended.Timestamp)
}

// RecordMemory appends a memory to a being. Only the owner may record.
func (w *World) RecordMemory(ctx context.Context, beingID uint64, caller, contentHash, category, tag string) error {
	ctx, span := tracer.Start(ctx, "chronicle.record_memory")
	defer span.End()

	meta, err := event.EncodeMetadata(map[string]string{
		event.MetaBeing:    being.FormatID(beingID),
		event.MetaCategory: category,
		event.MetaTag:      tag,
	})
	if err != nil {
		return errors.Wrap(errors.CodeUnknown, "encode memory metadata", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	_, err = w.appendLocked(ctx, event.Event{
		Type:        event.TypeMemory,
		Actor:       caller,
		ContentHash: contentHash,
		Metadata:    meta,
	})
	return err
}

// Reflect returns the read view of a being as of now.
func (w *World) Reflect(ctx context.Context, beingID uint64) (being.Reflection, error) {
	_, span := tracer.Start(ctx, "chronicle.reflect")
	defer span.End()

	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.proj.Beings.Reflect(beingID, w.clock().UTC())
}

// BeingByOwner returns the being registered to owner.
func (w *World) BeingByOwner(ctx context.Context, owner string) (being.Reflection, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	b, err := w.proj.Beings.ByOwner(owner)
	if err != nil {
		return being.Reflection{}, err
	}
	return w.proj.Beings.Reflect(b.ID, w.clock().UTC())
}

// Memories returns a being's memory list in record order.
func (w *World) Memories(ctx context.Context, beingID uint64) ([]being.Memory, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	b, err := w.proj.Beings.Get(beingID)
	if err != nil {
		return nil, err
	}
	out := make([]being.Memory, len(b.Memories))
	copy(out, b.Memories)
	return out, nil
}
