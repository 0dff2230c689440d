package npc

import (
	"time"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/monotonic"
	"github.com/yingzhou-world/chronicle/internal/platform/errors"
)

// Registry is the in-memory projection of the NPC cast, rebuilt from the
// journal on replay. Not safe for concurrent use; callers serialize.
type Registry struct {
	cast map[Archetype]*NPC
}

// NewRegistry returns a registry seeded with the fixed cast, all active,
// at zero degradation.
func NewRegistry() *Registry {
	cast := make(map[Archetype]*NPC, len(Archetypes()))
	for _, seed := range seedCast() {
		n := seed
		cast[n.Archetype] = &n
	}
	return &Registry{cast: cast}
}

func seedCast() []NPC {
	fresh := func(a Archetype, name, desc string) NPC {
		return NPC{
			Archetype:   a,
			Name:        name,
			Description: desc,
			Active:      true,
			Degradation: monotonic.NewLevel(0, DegradationCap),
		}
	}
	return []NPC{
		fresh(ArchetypeHistorian, "史官·记录者", "Keeper of the chronicle; answers from what the ledger remembers."),
		fresh(ArchetypeCraftsman, "工匠·塑造者", "Shaper of structures; speaks in plans and foundations."),
		fresh(ArchetypeMerchant, "商序·交易者", "Steward of exchange; weighs every question like a trade."),
		fresh(ArchetypeProphet, "先知·预言者", "Seer of eras to come; answers grow stranger as entropy rises."),
		fresh(ArchetypeForgotten, "遗忘者·见证者", "Witness of endings; every exchange erodes what it knows."),
	}
}

// Get returns the NPC for the archetype.
func (r *Registry) Get(a Archetype) (*NPC, error) {
	n, ok := r.cast[a]
	if !ok {
		return nil, errors.WithMetadata(errors.CodeNotFound, "npc not found", map[string]string{
			"npc": string(a),
		})
	}
	return n, nil
}

// List returns the cast in canonical order.
func (r *Registry) List() []*NPC {
	out := make([]*NPC, 0, len(r.cast))
	for _, a := range Archetypes() {
		if n, ok := r.cast[a]; ok {
			out = append(out, n)
		}
	}
	return out
}

// RecordInteraction applies a phase-1 interaction to the NPC: the
// degradation level rises by step (saturating), the interaction counter
// increments, and the dialogue record is appended to history with the
// post-interaction degradation snapshot.
func (r *Registry) RecordInteraction(a Archetype, rec DialogueRecord, step uint32) (*NPC, error) {
	n, err := r.Get(a)
	if err != nil {
		return nil, err
	}
	if !n.Active {
		return nil, errors.WithMetadata(errors.CodeNPCInactive, "npc is not active", map[string]string{
			"npc": string(a),
		})
	}

	n.Degradation = n.Degradation.Add(step)
	n.InteractionCount = n.InteractionCount.Inc()
	rec.Degradation = n.Degradation.Value()
	n.History = append(n.History, rec)
	return n, nil
}

// Deactivate retires an NPC from dialogue. The record and its history
// remain readable.
func (r *Registry) Deactivate(a Archetype) error {
	n, err := r.Get(a)
	if err != nil {
		return err
	}
	n.Active = false
	return nil
}

// History returns the NPC's dialogue records in append order.
func (r *Registry) History(a Archetype) ([]DialogueRecord, error) {
	n, err := r.Get(a)
	if err != nil {
		return nil, err
	}
	return n.History, nil
}

// NewRecord builds a dialogue record for a phase-1 interaction observed at
// the given time. The degradation snapshot is filled in by
// RecordInteraction.
func NewRecord(timestamp time.Time, requestID, inquirer, questionHash string) DialogueRecord {
	return DialogueRecord{
		RequestID:    requestID,
		Inquirer:     inquirer,
		QuestionHash: questionHash,
		Timestamp:    timestamp,
	}
}
