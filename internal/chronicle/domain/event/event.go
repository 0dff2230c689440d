// Package event defines the immutable events recorded in the world journal.
package event

import (
	"strings"
	"time"
)

// Type identifies the kind of a world event.
type Type string

const (
	// TypeCreated records the creation of a digital being.
	TypeCreated Type = "created"
	// TypeInteraction records a dialogue exchange between a being and an NPC.
	TypeInteraction Type = "interaction"
	// TypeDiscovery records an exploration or world-state discovery.
	TypeDiscovery Type = "discovery"
	// TypeConflict records a conflict between beings or with the world.
	TypeConflict Type = "conflict"
	// TypeMemory records a memory appended to a digital being.
	TypeMemory Type = "memory"
)

// All returns every defined event type in declaration order.
func All() []Type {
	return []Type{TypeCreated, TypeInteraction, TypeDiscovery, TypeConflict, TypeMemory}
}

// IsValid reports whether the event type is one of the defined kinds.
func (t Type) IsValid() bool {
	for _, kind := range All() {
		if t == kind {
			return true
		}
	}
	return false
}

// Mutating reports whether appending this event type changes world state.
// Every defined kind mutates; the distinction exists so finalization can be
// enforced in one place when read-only kinds are introduced.
func (t Type) Mutating() bool {
	return t.IsValid()
}

// Event represents an immutable entry in the world journal.
//
// ID is the global sequence number, assigned by storage on append, 0-based
// and gapless. SequenceMarker is the external ordering token supplied by the
// execution environment (a block height when one exists, a logical counter
// otherwise); it is opaque here and only required to be non-decreasing.
type Event struct {
	ID             uint64
	Timestamp      time.Time
	SequenceMarker uint64
	Type           Type
	Actor          string
	// ContentHash is a fixed-width digest fingerprinting the payload.
	// The payload itself never enters the journal.
	ContentHash string
	// Metadata is an opaque string, commonly a serialized key/value record.
	// Interaction events embed the request id that phase-2 content writes
	// are keyed by.
	Metadata string
}

// RequestID extracts the dialogue correlation key from the event metadata.
// It returns the empty string when the event carries none.
func (e Event) RequestID() string {
	meta, err := DecodeMetadata(e.Metadata)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(meta[MetaRequestID])
}
