// Package app composes the chronicle: the append-only journal, the dialogue
// correlator, and every projection derived from them, behind one facade.
//
// All mutations flow through the journal: the facade validates, appends the
// event, then folds it into the projection, so a restart replaying the same
// journal reaches the same state. The execution environment serializes
// mutating calls; the facade's own mutex covers embedded deployments where
// no such environment exists.
package app

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/event"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/npc"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/world"
	"github.com/yingzhou-world/chronicle/internal/chronicle/governor"
	"github.com/yingzhou-world/chronicle/internal/chronicle/replay"
	"github.com/yingzhou-world/chronicle/internal/chronicle/storage"
	"github.com/yingzhou-world/chronicle/internal/platform/errors"
)

var tracer = otel.Tracer("chronicle/app")

// World is the chronicle facade.
type World struct {
	mu    sync.RWMutex
	store storage.Store
	proj  *replay.Projection
	world world.World

	degradationStep uint32
	clock           func() time.Time
	sequence        func() uint64
	gov             governor.Config

	logicalSeq uint64
}

// Option configures the facade.
type Option func(*World)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(w *World) { w.clock = clock }
}

// WithSequenceSource overrides the external ordering token source. The
// default is a logical counter seeded from the journal length.
func WithSequenceSource(source func() uint64) Option {
	return func(w *World) { w.sequence = source }
}

// WithDegradationStep overrides the per-interaction degradation increment.
func WithDegradationStep(step uint32) Option {
	return func(w *World) { w.degradationStep = step }
}

// WithGovernor enables grant verification for world-level mutations.
func WithGovernor(cfg governor.Config) Option {
	return func(w *World) { w.gov = cfg }
}

// New builds the facade over a store, replaying the full journal to rebuild
// derived state.
func New(ctx context.Context, store storage.Store, opts ...Option) (*World, error) {
	if store == nil {
		return nil, errors.New(errors.CodeUnknown, "storage is required")
	}

	w := &World{
		store:           store,
		proj:            replay.NewProjection(),
		degradationStep: npc.DefaultDegradationStep,
		clock:           time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.proj.DegradationStep = w.degradationStep

	applied, err := replay.Replay(ctx, store, w.proj)
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnknown, "replay journal", err)
	}
	w.logicalSeq = applied

	persisted, err := store.GetWorldState(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnknown, "load world state", err)
	}
	w.world = world.World{State: world.State(persisted.State), Finalized: persisted.Finalized}

	if w.sequence == nil {
		w.sequence = func() uint64 {
			w.logicalSeq++
			return w.logicalSeq
		}
	}
	return w, nil
}

// appendLocked validates and appends an event, then folds it into the
// projection. Callers hold the write lock. Validation runs before the
// append so a rejected event leaves no trace in the journal.
func (w *World) appendLocked(ctx context.Context, evt event.Event) (event.Event, error) {
	if !evt.Type.IsValid() {
		return event.Event{}, errors.WithMetadata(errors.CodeEventTypeInvalid, "unknown event type", map[string]string{
			"type": string(evt.Type),
		})
	}
	if w.world.Finalized && evt.Type.Mutating() {
		return event.Event{}, errors.New(errors.CodeFinalized, "world is finalized")
	}
	if err := w.validateEvent(evt); err != nil {
		return event.Event{}, err
	}

	if evt.Timestamp.IsZero() {
		evt.Timestamp = w.clock().UTC()
	}
	evt.SequenceMarker = w.sequence()

	appended, err := w.store.AppendEvent(ctx, evt)
	if err != nil {
		return event.Event{}, errors.Wrap(errors.CodeUnknown, "append event", err)
	}
	if err := w.proj.Apply(ctx, appended); err != nil {
		// The journal holds an event the projection rejected; the
		// pre-append validation is meant to make this unreachable.
		return event.Event{}, errors.Wrap(errors.CodeUnknown, "apply event", err)
	}
	return appended, nil
}

// requireGrant verifies a governor grant when verification is configured.
func (w *World) requireGrant(grant, scope string) error {
	if !w.gov.Enabled() {
		return nil
	}
	_, err := governor.ValidateGrant(grant, governor.Expectation{Scope: scope}, w.gov)
	return err
}
