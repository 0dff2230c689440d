// Package dialogue implements the two-phase conversation model: phase 1 is
// an on-ledger interaction event keyed by a deterministic request id, phase
// 2 is an out-of-band content write joined back at read time.
package dialogue

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"time"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/npc"
)

// Content is the off-ledger payload of one exchange. Immutable once stored.
type Content struct {
	RequestID string
	Question  string
	Response  string
}

// Equal reports whether two payloads are byte-identical. Used to decide
// between an idempotent re-put and a content conflict.
func (c Content) Equal(other Content) bool {
	return c.Question == other.Question && c.Response == other.Response
}

// DeriveRequestID computes the correlation key for one interaction attempt.
// The key is a hex sha256 over npc, inquirer, and a per-attempt nonce, so
// retries of the same attempt converge on one key while fresh attempts never
// collide.
func DeriveRequestID(archetype npc.Archetype, inquirer, nonce string) string {
	h := sha256.New()
	h.Write([]byte(archetype))
	h.Write([]byte{0})
	h.Write([]byte(inquirer))
	h.Write([]byte{0})
	h.Write([]byte(nonce))
	return hex.EncodeToString(h.Sum(nil))
}

// HashText fingerprints a text payload the way question hashes are recorded
// on interaction events.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Exchange is one settled entry of a conversation view.
type Exchange struct {
	RequestID   string
	Question    string
	Response    string
	Timestamp   time.Time
	Degradation uint32
}

// BuildHistory reconstructs the conversation view from an NPC's dialogue
// records. Records are ordered by timestamp, deduplicated by request id
// (the earliest record wins, so replayed or resubmitted entries contribute
// nothing), and joined against the content store; records whose content has
// not arrived are skipped, never errored.
func BuildHistory(records []npc.DialogueRecord, lookup func(requestID string) (Content, bool)) []Exchange {
	ordered := make([]npc.DialogueRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	seen := make(map[string]struct{}, len(ordered))
	out := make([]Exchange, 0, len(ordered))
	for _, rec := range ordered {
		if _, dup := seen[rec.RequestID]; dup {
			continue
		}
		seen[rec.RequestID] = struct{}{}

		content, ok := lookup(rec.RequestID)
		if !ok {
			continue
		}
		out = append(out, Exchange{
			RequestID:   rec.RequestID,
			Question:    content.Question,
			Response:    content.Response,
			Timestamp:   rec.Timestamp,
			Degradation: rec.Degradation,
		})
	}
	return out
}

// Message is one side of an exchange, flattened for display.
type Message struct {
	Role      string
	Text      string
	Timestamp time.Time
}

// Message roles.
const (
	RoleUser = "user"
	RoleNPC  = "npc"
)

// Messages flattens exchanges into an ordered message list. The question
// keeps the record timestamp and the response sits one logical tick later,
// so the pair stays adjacent under any stable time sort.
func Messages(exchanges []Exchange) []Message {
	out := make([]Message, 0, len(exchanges)*2)
	for _, ex := range exchanges {
		out = append(out,
			Message{Role: RoleUser, Text: ex.Question, Timestamp: ex.Timestamp},
			Message{Role: RoleNPC, Text: ex.Response, Timestamp: ex.Timestamp.Add(time.Nanosecond)},
		)
	}
	return out
}
