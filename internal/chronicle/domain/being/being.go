// Package being models digital beings: identities created once per owner
// that accumulate memories and interaction counts over their lifetime.
package being

import (
	"strconv"
	"time"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/monotonic"
)

// Memory is one entry in a being's memory list. Entries are immutable once
// recorded; the payload lives in the content store and only its hash is kept
// here.
type Memory struct {
	ContentHash string
	Category    string
	Tag         string
	Timestamp   time.Time
}

// Being is a digital being. IDs are 1-based and assigned in creation order.
type Being struct {
	ID          uint64
	Owner       string
	GenesisHash string
	CreatedAt   time.Time

	Memories         []Memory
	InteractionCount monotonic.Counter
}

// MemoryCount returns the number of recorded memories.
func (b *Being) MemoryCount() uint64 {
	return uint64(len(b.Memories))
}

// Age returns how long the being has existed as of now.
func (b *Being) Age(now time.Time) time.Duration {
	if now.Before(b.CreatedAt) {
		return 0
	}
	return now.Sub(b.CreatedAt)
}

// Reflection is the pure read view of a being.
type Reflection struct {
	BeingID          uint64
	Age              time.Duration
	MemoryCount      uint64
	InteractionCount uint64
	GenesisHash      string
}

// FormatID renders a being id the way it appears in event metadata.
func FormatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// ParseID parses a being id from event metadata.
func ParseID(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 64)
}
