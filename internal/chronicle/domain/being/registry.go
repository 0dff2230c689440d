package being

import (
	"time"

	"github.com/yingzhou-world/chronicle/internal/platform/errors"
)

// Registry is the in-memory projection of all beings, rebuilt from the
// journal on replay. It is not safe for concurrent use; callers serialize.
type Registry struct {
	byID    map[uint64]*Being
	byOwner map[string]uint64
	nextID  uint64
}

// NewRegistry returns an empty registry. The first created being receives
// id 1.
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[uint64]*Being),
		byOwner: make(map[string]uint64),
		nextID:  1,
	}
}

// Create registers a new being for owner. Each owner may hold exactly one
// being.
func (r *Registry) Create(owner, genesisHash string, at time.Time) (*Being, error) {
	if owner == "" {
		return nil, errors.New(errors.CodeOwnerEmpty, "being owner is required")
	}
	if existing, ok := r.byOwner[owner]; ok {
		return nil, errors.WithMetadata(errors.CodeAlreadyExists, "owner already has a being", map[string]string{
			"owner":    owner,
			"being_id": FormatID(existing),
		})
	}

	b := &Being{
		ID:          r.nextID,
		Owner:       owner,
		GenesisHash: genesisHash,
		CreatedAt:   at,
	}
	r.byID[b.ID] = b
	r.byOwner[owner] = b.ID
	r.nextID++
	return b, nil
}

// Get returns the being with the given id.
func (r *Registry) Get(id uint64) (*Being, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, errors.WithMetadata(errors.CodeNotFound, "being not found", map[string]string{
			"being_id": FormatID(id),
		})
	}
	return b, nil
}

// ByOwner returns the being registered to owner.
func (r *Registry) ByOwner(owner string) (*Being, error) {
	id, ok := r.byOwner[owner]
	if !ok {
		return nil, errors.WithMetadata(errors.CodeNotFound, "owner has no being", map[string]string{
			"owner": owner,
		})
	}
	return r.byID[id], nil
}

// RecordMemory appends a memory to the being's list. Only the being's owner
// may record memories.
func (r *Registry) RecordMemory(id uint64, caller string, m Memory) error {
	b, err := r.Get(id)
	if err != nil {
		return err
	}
	if b.Owner != caller {
		return errors.WithMetadata(errors.CodeNotOwner, "caller does not own being", map[string]string{
			"being_id": FormatID(id),
			"caller":   caller,
		})
	}
	b.Memories = append(b.Memories, m)
	return nil
}

// NoteInteraction increments the being's interaction counter. The dialogue
// correlator calls this once per completed round trip.
func (r *Registry) NoteInteraction(id uint64) error {
	b, err := r.Get(id)
	if err != nil {
		return err
	}
	b.InteractionCount = b.InteractionCount.Inc()
	return nil
}

// Reflect returns the read view of a being as of now.
func (r *Registry) Reflect(id uint64, now time.Time) (Reflection, error) {
	b, err := r.Get(id)
	if err != nil {
		return Reflection{}, err
	}
	return Reflection{
		BeingID:          b.ID,
		Age:              b.Age(now),
		MemoryCount:      b.MemoryCount(),
		InteractionCount: b.InteractionCount.Value(),
		GenesisHash:      b.GenesisHash,
	}, nil
}

// Count returns the number of registered beings.
func (r *Registry) Count() int {
	return len(r.byID)
}
