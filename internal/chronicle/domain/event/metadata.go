package event

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Well-known metadata keys.
const (
	// MetaRequestID keys the dialogue correlation id on interaction events.
	MetaRequestID = "request_id"
	// MetaNPC keys the NPC archetype involved in an interaction.
	MetaNPC = "npc"
	// MetaBeing keys the being id an event concerns.
	MetaBeing = "being"
	// MetaKind keys the subtype of a discovery event.
	MetaKind = "kind"
	// MetaGenesisHash keys the genesis hash on created events.
	MetaGenesisHash = "genesis_hash"
	// MetaCategory and MetaTag key the classification of memory events.
	MetaCategory = "category"
	MetaTag      = "tag"
	// MetaFragment and MetaKeyword key fragment-grant discovery events.
	MetaFragment = "fragment"
	MetaKeyword  = "keyword"
	// MetaEpoch keys the reached epoch on epoch-advance discovery events.
	MetaEpoch = "epoch"
)

// Discovery event subtypes carried under MetaKind.
const (
	KindFragmentGrant = "fragment_grant"
	KindEpochAdvance  = "epoch_advance"
)

// EncodeMetadata serializes a key/value record into the journal metadata
// string. A nil or empty record encodes to the empty string.
func EncodeMetadata(meta map[string]string) (string, error) {
	if len(meta) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encode event metadata: %w", err)
	}
	return string(raw), nil
}

// DecodeMetadata parses a journal metadata string back into a key/value
// record. The empty string decodes to an empty record.
func DecodeMetadata(raw string) (map[string]string, error) {
	if raw == "" {
		return map[string]string{}, nil
	}
	var meta map[string]string
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, fmt.Errorf("decode event metadata: %w", err)
	}
	return meta, nil
}

// MetadataKeys returns the keys of a metadata record in sorted order.
// Useful for deterministic logging and assertions.
func MetadataKeys(meta map[string]string) []string {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
