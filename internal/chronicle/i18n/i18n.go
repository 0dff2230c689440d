// Package i18n provides localized display names for eras and NPCs. The
// original world is bilingual; zh-CN carries the canonical names and en-US
// the translated ones.
package i18n

import (
	"golang.org/x/text/language"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/npc"
)

// DefaultLocale is used when no supported locale matches.
const DefaultLocale = "en-US"

// Catalog holds the display names of one locale.
type Catalog struct {
	locale string
	tag    language.Tag
	eras   [5]string
	npcs   map[npc.Archetype]string
}

// Locale returns the catalog's BCP 47 locale.
func (c *Catalog) Locale() string { return c.locale }

// EraName returns the display name of an epoch (0-4). Out-of-range values
// fall back to the terminal era.
func (c *Catalog) EraName(epoch uint8) string {
	if int(epoch) >= len(c.eras) {
		epoch = uint8(len(c.eras) - 1)
	}
	return c.eras[epoch]
}

// NPCName returns the display name of an archetype, or the raw archetype
// when unknown.
func (c *Catalog) NPCName(a npc.Archetype) string {
	if name, ok := c.npcs[a]; ok {
		return name
	}
	return string(a)
}

var enUS = &Catalog{
	locale: "en-US",
	tag:    language.AmericanEnglish,
	eras:   [5]string{"Genesis", "Sprouting", "Flourishing", "Entropy", "Destruction"},
	npcs: map[npc.Archetype]string{
		npc.ArchetypeHistorian: "Historian the Recorder",
		npc.ArchetypeCraftsman: "Craftsman the Shaper",
		npc.ArchetypeMerchant:  "Merchant the Trader",
		npc.ArchetypeProphet:   "Prophet the Seer",
		npc.ArchetypeForgotten: "Forgotten the Witness",
	},
}

var zhCN = &Catalog{
	locale: "zh-CN",
	tag:    language.SimplifiedChinese,
	eras:   [5]string{"创世", "萌芽", "繁盛", "熵化", "毁灭"},
	npcs: map[npc.Archetype]string{
		npc.ArchetypeHistorian: "史官·记录者",
		npc.ArchetypeCraftsman: "工匠·塑造者",
		npc.ArchetypeMerchant:  "商序·交易者",
		npc.ArchetypeProphet:   "先知·预言者",
		npc.ArchetypeForgotten: "遗忘者·见证者",
	},
}

var catalogs = []*Catalog{enUS, zhCN}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, 0, len(catalogs))
	for _, c := range catalogs {
		tags = append(tags, c.tag)
	}
	return language.NewMatcher(tags)
}()

// GetCatalog returns the catalog best matching the requested locale,
// falling back to en-US.
func GetCatalog(locale string) *Catalog {
	if locale == "" {
		return enUS
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return enUS
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return enUS
	}
	return catalogs[index]
}
