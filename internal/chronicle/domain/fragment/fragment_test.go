package fragment

import (
	"testing"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/npc"
)

func TestCatalogShape(t *testing.T) {
	all := Catalog()
	if len(all) != 15 {
		t.Fatalf("expected 15 fragments, got %d", len(all))
	}

	hidden := 0
	for i, f := range all {
		if f.ID != uint32(i) {
			t.Fatalf("expected id %d at position %d, got %d", i, i, f.ID)
		}
		if f.Epoch > 4 {
			t.Fatalf("fragment %d: epoch out of range: %d", f.ID, f.Epoch)
		}
		if f.Hidden {
			hidden++
			if !f.Archetype.IsValid() {
				t.Fatalf("hidden fragment %d lacks an archetype", f.ID)
			}
			if len(f.Keywords) == 0 {
				t.Fatalf("hidden fragment %d lacks trigger keywords", f.ID)
			}
		} else if len(f.Keywords) != 0 {
			t.Fatalf("main fragment %d must not carry keywords", f.ID)
		}
	}
	if hidden != 5 {
		t.Fatalf("expected 5 hidden fragments, got %d", hidden)
	}
}

func TestHiddenFor(t *testing.T) {
	for _, a := range npc.Archetypes() {
		f, ok := HiddenFor(a)
		if !ok {
			t.Fatalf("expected a hidden fragment for %q", a)
		}
		if f.Archetype != a {
			t.Fatalf("expected fragment %d bound to %q, got %q", f.ID, a, f.Archetype)
		}
	}
	if _, ok := HiddenFor("stranger"); ok {
		t.Fatal("expected no hidden fragment for an unknown archetype")
	}
}

func TestMatchKeyword(t *testing.T) {
	f, kw, ok := MatchKeyword(npc.ArchetypeHistorian, "请告诉我关于创世的故事")
	if !ok {
		t.Fatal("expected keyword match in question text")
	}
	if f.ID != 10 {
		t.Fatalf("expected historian fragment 10, got %d", f.ID)
	}
	if kw != "创世" {
		t.Fatalf("expected keyword 创世, got %q", kw)
	}

	if _, _, ok := MatchKeyword(npc.ArchetypeHistorian, "今天天气如何"); ok {
		t.Fatal("expected no match for unrelated question")
	}

	if _, _, ok := MatchKeyword(npc.ArchetypeCraftsman, "创世"); ok {
		t.Fatal("expected keywords to be scoped to their archetype")
	}
}

func TestLedgerGrantIdempotent(t *testing.T) {
	l := NewLedger()
	if !l.Grant("acct", 3) {
		t.Fatal("expected first grant to be new")
	}
	if l.Grant("acct", 3) {
		t.Fatal("expected re-grant to be a no-op")
	}
	if !l.Owns("acct", 3) {
		t.Fatal("expected ownership after grant")
	}
	if l.CountOwned("acct") != 1 {
		t.Fatalf("expected count 1, got %d", l.CountOwned("acct"))
	}
}

func TestLedgerOwnedBySorted(t *testing.T) {
	l := NewLedger()
	for _, id := range []uint32{9, 2, 5} {
		l.Grant("acct", id)
	}
	got := l.OwnedBy("acct")
	want := []uint32{2, 5, 9}
	if len(got) != len(want) {
		t.Fatalf("expected %d ids, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestLedgerAccountsIsolated(t *testing.T) {
	l := NewLedger()
	l.Grant("acct-a", 1)
	if l.Owns("acct-b", 1) {
		t.Fatal("expected ownership to be per account")
	}
	if len(l.OwnedBy("acct-b")) != 0 {
		t.Fatal("expected empty set for unknown account")
	}
}

func TestLedgerNoteKeywordOncePerAccount(t *testing.T) {
	l := NewLedger()
	if !l.NoteKeyword("acct", "创世") {
		t.Fatal("expected first keyword note to be new")
	}
	if l.NoteKeyword("acct", "创世") {
		t.Fatal("expected repeat keyword note to report seen")
	}
	if !l.NoteKeyword("other", "创世") {
		t.Fatal("expected keyword tracking to be per account")
	}
}
