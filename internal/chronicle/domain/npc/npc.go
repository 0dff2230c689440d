// Package npc models the fixed cast of world NPCs, their degradation
// levels, and their dialogue history.
package npc

import (
	"time"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/monotonic"
)

// DegradationCap is the saturation bound of an NPC's degradation level.
const DegradationCap = 100

// DefaultDegradationStep is the per-interaction degradation increment.
const DefaultDegradationStep = 1

// Archetype identifies one of the fixed NPCs.
type Archetype string

const (
	// ArchetypeHistorian keeps the records of the world.
	ArchetypeHistorian Archetype = "historian"
	// ArchetypeCraftsman shapes the structures of the world.
	ArchetypeCraftsman Archetype = "craftsman"
	// ArchetypeMerchant runs the world's orders of exchange.
	ArchetypeMerchant Archetype = "merchant"
	// ArchetypeProphet speaks of the eras to come.
	ArchetypeProphet Archetype = "prophet"
	// ArchetypeForgotten witnesses decay and the end of things.
	ArchetypeForgotten Archetype = "forgotten"
)

// Archetypes returns the fixed cast in canonical order.
func Archetypes() []Archetype {
	return []Archetype{
		ArchetypeHistorian,
		ArchetypeCraftsman,
		ArchetypeMerchant,
		ArchetypeProphet,
		ArchetypeForgotten,
	}
}

// IsValid reports whether the archetype is part of the cast.
func (a Archetype) IsValid() bool {
	switch a {
	case ArchetypeHistorian, ArchetypeCraftsman, ArchetypeMerchant, ArchetypeProphet, ArchetypeForgotten:
		return true
	}
	return false
}

// DialogueRecord is one phase-1 interaction noted against an NPC. The
// degradation field snapshots the NPC's level after the interaction was
// applied, so history can report the load at the time of each exchange.
type DialogueRecord struct {
	RequestID    string
	Inquirer     string
	QuestionHash string
	Timestamp    time.Time
	Degradation  uint32
}

// NPC is one member of the cast.
type NPC struct {
	Archetype   Archetype
	Name        string
	Description string
	Active      bool

	Degradation      monotonic.Level
	InteractionCount monotonic.Counter
	History          []DialogueRecord
}
