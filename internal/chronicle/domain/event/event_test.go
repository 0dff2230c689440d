package event

import (
	"testing"
)

func TestTypeIsValid(t *testing.T) {
	for _, typ := range All() {
		if !typ.IsValid() {
			t.Fatalf("expected %q to be valid", typ)
		}
	}

	invalid := []Type{"", "CREATED", "unknown", "interaction "}
	for _, typ := range invalid {
		if typ.IsValid() {
			t.Fatalf("expected %q to be invalid", typ)
		}
	}
}

func TestTypeMutating(t *testing.T) {
	for _, typ := range All() {
		if !typ.Mutating() {
			t.Fatalf("expected %q to mutate world state", typ)
		}
	}
	if Type("bogus").Mutating() {
		t.Fatal("undefined type must not report as mutating")
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	encoded, err := EncodeMetadata(map[string]string{
		MetaRequestID: "req-1",
		MetaNPC:       "oracle",
	})
	if err != nil {
		t.Fatalf("encode metadata: %v", err)
	}

	decoded, err := DecodeMetadata(encoded)
	if err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if decoded[MetaRequestID] != "req-1" {
		t.Fatalf("expected request id to survive round trip, got %q", decoded[MetaRequestID])
	}
	if decoded[MetaNPC] != "oracle" {
		t.Fatalf("expected npc key to survive round trip, got %q", decoded[MetaNPC])
	}
}

func TestEncodeMetadataEmpty(t *testing.T) {
	encoded, err := EncodeMetadata(nil)
	if err != nil {
		t.Fatalf("encode nil metadata: %v", err)
	}
	if encoded != "" {
		t.Fatalf("expected empty encoding for nil metadata, got %q", encoded)
	}
}

func TestDecodeMetadataEmpty(t *testing.T) {
	decoded, err := DecodeMetadata("")
	if err != nil {
		t.Fatalf("decode empty metadata: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("expected empty record, got %v", decoded)
	}
}

func TestDecodeMetadataMalformed(t *testing.T) {
	if _, err := DecodeMetadata("{not json"); err == nil {
		t.Fatal("expected malformed metadata to fail decoding")
	}
}

func TestEventRequestID(t *testing.T) {
	encoded, err := EncodeMetadata(map[string]string{MetaRequestID: "abc123"})
	if err != nil {
		t.Fatalf("encode metadata: %v", err)
	}

	evt := Event{Type: TypeInteraction, Metadata: encoded}
	if got := evt.RequestID(); got != "abc123" {
		t.Fatalf("expected request id abc123, got %q", got)
	}

	bare := Event{Type: TypeCreated}
	if got := bare.RequestID(); got != "" {
		t.Fatalf("expected empty request id on bare event, got %q", got)
	}

	corrupt := Event{Type: TypeInteraction, Metadata: "{"}
	if got := corrupt.RequestID(); got != "" {
		t.Fatalf("expected empty request id on corrupt metadata, got %q", got)
	}
}

func TestMetadataKeysSorted(t *testing.T) {
	keys := MetadataKeys(map[string]string{"z": "1", "a": "2", "m": "3"})
	want := []string{"a", "m", "z"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected key %q at %d, got %q", want[i], i, keys[i])
		}
	}
}
