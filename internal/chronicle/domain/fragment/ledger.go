package fragment

import "sort"

// Ledger tracks per-account fragment ownership and which trigger keywords an
// account has already fired. Ownership is boolean; granting an owned
// fragment is a no-op. Not safe for concurrent use; callers serialize.
type Ledger struct {
	owned    map[string]map[uint32]struct{}
	keywords map[string]map[string]struct{}
}

// NewLedger returns an empty ownership ledger.
func NewLedger() *Ledger {
	return &Ledger{
		owned:    make(map[string]map[uint32]struct{}),
		keywords: make(map[string]map[string]struct{}),
	}
}

// Grant records ownership of a fragment. It reports whether the grant was
// new; re-granting is a no-op, not an error.
func (l *Ledger) Grant(account string, fragmentID uint32) bool {
	set, ok := l.owned[account]
	if !ok {
		set = make(map[uint32]struct{})
		l.owned[account] = set
	}
	if _, has := set[fragmentID]; has {
		return false
	}
	set[fragmentID] = struct{}{}
	return true
}

// Owns reports whether the account owns the fragment.
func (l *Ledger) Owns(account string, fragmentID uint32) bool {
	_, has := l.owned[account][fragmentID]
	return has
}

// OwnedBy returns the account's fragment ids in ascending order.
func (l *Ledger) OwnedBy(account string) []uint32 {
	set := l.owned[account]
	out := make([]uint32, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CountOwned returns how many fragments the account owns.
func (l *Ledger) CountOwned(account string) int {
	return len(l.owned[account])
}

// KeywordSeen reports whether the account has already fired the keyword.
func (l *Ledger) KeywordSeen(account, keyword string) bool {
	_, has := l.keywords[account][keyword]
	return has
}

// NoteKeyword records that the account has fired a trigger keyword. It
// reports whether this was the first time, so a keyword grants at most once
// per account.
func (l *Ledger) NoteKeyword(account, keyword string) bool {
	set, ok := l.keywords[account]
	if !ok {
		set = make(map[string]struct{})
		l.keywords[account] = set
	}
	if _, has := set[keyword]; has {
		return false
	}
	set[keyword] = struct{}{}
	return true
}
