// Package world models the global state of the chronicle: the era ladder,
// its derived entropy, and the absorbing finalized flag.
package world

import (
	"github.com/yingzhou-world/chronicle/internal/platform/errors"
)

// State is an era on the world ladder. States only move forward.
type State uint8

const (
	// StateGenesis is the founding era.
	StateGenesis State = iota
	// StateEmergence is the era of first structures.
	StateEmergence
	// StateFlourish is the era of peak activity.
	StateFlourish
	// StateEntropy is the era of decay.
	StateEntropy
	// StateCollapsed is the terminal era.
	StateCollapsed
)

// Terminal is the last state on the ladder.
const Terminal = StateCollapsed

// EntropyPerState is the entropy contribution of each era step.
const EntropyPerState = 25

// String returns the canonical era name.
func (s State) String() string {
	switch s {
	case StateGenesis:
		return "genesis"
	case StateEmergence:
		return "emergence"
	case StateFlourish:
		return "flourish"
	case StateEntropy:
		return "entropy"
	case StateCollapsed:
		return "collapsed"
	}
	return "unknown"
}

// IsValid reports whether the state is on the ladder.
func (s State) IsValid() bool { return s <= Terminal }

// Entropy returns the entropy level derived from the era index.
func (s State) Entropy() uint32 { return uint32(s) * EntropyPerState }

// World is the global state snapshot. The zero value is a fresh genesis
// world.
type World struct {
	State     State
	Finalized bool
}

// Entropy returns the derived entropy level. A finalized world is always at
// full entropy regardless of the recorded state.
func (w World) Entropy() uint32 {
	if w.Finalized {
		return Terminal.Entropy()
	}
	return w.State.Entropy()
}

// AdvanceTo moves the world to the next state on the ladder. It rejects
// mutation after finalization and any transition other than exactly one step
// forward.
func (w World) AdvanceTo(next State) (World, error) {
	if w.Finalized {
		return w, errors.New(errors.CodeFinalized, "world is finalized")
	}
	if !next.IsValid() || next != w.State+1 {
		return w, errors.WithMetadata(errors.CodeRegression, "world state must advance by exactly one step", map[string]string{
			"current":   w.State.String(),
			"requested": next.String(),
		})
	}
	return World{State: next}, nil
}

// Finalize seals the world, forcing the terminal state. The flag is
// absorbing and the call is idempotent: finalizing a finalized world is a
// no-op.
func (w World) Finalize() World {
	return World{State: Terminal, Finalized: true}
}
