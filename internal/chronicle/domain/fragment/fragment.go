// Package fragment defines the static memory-fragment catalog and the
// per-account ownership ledger.
package fragment

import (
	"strings"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/npc"
)

// Fragment is one entry of the static catalog. The catalog is configuration,
// not ledger state; only ownership is recorded per account.
type Fragment struct {
	ID          uint32
	Name        string
	Description string
	// Epoch is the era the fragment is associated with for display and
	// gallery grouping.
	Epoch uint8
	// Hidden fragments are earned through keyword recognition during
	// dialogue rather than game progress.
	Hidden bool
	// Archetype is the NPC whose dialogue can trigger a hidden fragment.
	// Empty for main fragments.
	Archetype npc.Archetype
	// Keywords trigger the grant when they appear in a question to the
	// archetype. Empty for main fragments.
	Keywords []string
}

var catalog = []Fragment{
	{ID: 0, Name: "创世之光", Description: "The first light of the world, holding the rawest data energy.", Epoch: 0},
	{ID: 1, Name: "萌芽之种", Description: "The earliest seed of life, carrying genes of unbounded code.", Epoch: 1},
	{ID: 2, Name: "繁盛之花", Description: "The digital bloom of the civilization's peak.", Epoch: 2},
	{ID: 3, Name: "熵化之痕", Description: "The crack left when order began to collapse.", Epoch: 3},
	{ID: 4, Name: "毁灭之印", Description: "The seal of the final fire, hinting at rebirth.", Epoch: 4},
	{ID: 5, Name: "时间碎片", Description: "A frozen shard of time where past and future meet.", Epoch: 0},
	{ID: 6, Name: "空间裂隙", Description: "A shard of the passage between dimensions.", Epoch: 1},
	{ID: 7, Name: "意识残响", Description: "An echo of an ancient digital mind and its forgotten story.", Epoch: 2},
	{ID: 8, Name: "能量核心", Description: "A shard of the world's energy wellspring.", Epoch: 3},
	{ID: 9, Name: "命运之线", Description: "The code thread weaving every life's trajectory together.", Epoch: 4},
	{
		ID: 10, Name: "起源密钥", Description: "Unlocks the secret of the world's origin.",
		Epoch: 0, Hidden: true, Archetype: npc.ArchetypeHistorian,
		Keywords: []string{"创世", "起源", "诞生", "开端"},
	},
	{
		ID: 11, Name: "生命密码", Description: "Holds the mystery of life's evolution.",
		Epoch: 1, Hidden: true, Archetype: npc.ArchetypeCraftsman,
		Keywords: []string{"生命", "成长", "萌芽", "进化"},
	},
	{
		ID: 12, Name: "文明遗产", Description: "Records the wisdom of the civilization's height.",
		Epoch: 2, Hidden: true, Archetype: npc.ArchetypeMerchant,
		Keywords: []string{"繁荣", "文明", "辉煌", "交易"},
	},
	{
		ID: 13, Name: "混沌之心", Description: "Contains the essence of chaos.",
		Epoch: 3, Hidden: true, Archetype: npc.ArchetypeProphet,
		Keywords: []string{"衰败", "熵化", "混乱", "预言"},
	},
	{
		ID: 14, Name: "轮回之钥", Description: "The key that opens the next era.",
		Epoch: 4, Hidden: true, Archetype: npc.ArchetypeForgotten,
		Keywords: []string{"毁灭", "终结", "重生", "轮回"},
	},
}

// Catalog returns the full catalog in id order.
func Catalog() []Fragment {
	out := make([]Fragment, len(catalog))
	copy(out, catalog)
	return out
}

// ByID returns the catalog entry with the given id.
func ByID(id uint32) (Fragment, bool) {
	for _, f := range catalog {
		if f.ID == id {
			return f, true
		}
	}
	return Fragment{}, false
}

// HiddenFor returns the hidden fragment triggered through the archetype's
// dialogue, if any.
func HiddenFor(a npc.Archetype) (Fragment, bool) {
	for _, f := range catalog {
		if f.Hidden && f.Archetype == a {
			return f, true
		}
	}
	return Fragment{}, false
}

// MatchKeyword scans a question for the archetype's trigger keywords.
// Matching is case-insensitive and substring-based. It returns the hidden
// fragment and the keyword that fired.
func MatchKeyword(a npc.Archetype, question string) (Fragment, string, bool) {
	f, ok := HiddenFor(a)
	if !ok {
		return Fragment{}, "", false
	}
	lowered := strings.ToLower(question)
	for _, kw := range f.Keywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return f, kw, true
		}
	}
	return Fragment{}, "", false
}
