// Package epoch advances per-account eras, gated by fragment counts.
package epoch

import (
	"strconv"

	"github.com/yingzhou-world/chronicle/internal/platform/errors"
)

// Terminal is the last epoch on the ladder.
const Terminal uint8 = 4

// Requirements is the static unlock table: Requirements[n] fragments are
// needed to enter epoch n. Epoch 0 is free.
var Requirements = [5]int{0, 1, 3, 6, 10}

// RequirementFor returns the fragment count needed to enter the epoch.
func RequirementFor(epoch uint8) int {
	if epoch > Terminal {
		return Requirements[Terminal]
	}
	return Requirements[epoch]
}

// Tracker holds per-account epoch progress. Accounts start at epoch 0 on
// first query. Not safe for concurrent use; callers serialize.
type Tracker struct {
	current map[string]uint8
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{current: make(map[string]uint8)}
}

// Current returns the account's epoch, 0 for accounts never seen.
func (t *Tracker) Current(account string) uint8 {
	return t.current[account]
}

// Gate checks whether an account at epoch cur with ownedFragments fragments
// may advance. It is pure so callers can validate before committing any
// side effect. The terminal flag is true when the step enters the final
// epoch.
func Gate(account string, cur uint8, ownedFragments int) (next uint8, terminal bool, err error) {
	if cur >= Terminal {
		return cur, false, errors.WithMetadata(errors.CodeAtTerminal, "account is at the terminal epoch", map[string]string{
			"account": account,
		})
	}

	next = cur + 1
	if need := RequirementFor(next); ownedFragments < need {
		return cur, false, errors.WithMetadata(errors.CodeInsufficientFragments, "not enough fragments to advance", map[string]string{
			"account":  account,
			"epoch":    strconv.Itoa(int(next)),
			"required": strconv.Itoa(need),
			"owned":    strconv.Itoa(ownedFragments),
		})
	}
	return next, next == Terminal, nil
}

// Advance moves the account exactly one epoch forward. ownedFragments is the
// account's fragment count, checked against the requirement table. The
// returned terminal flag is true when the account has just entered the final
// epoch, which the caller must propagate to global finalization.
func (t *Tracker) Advance(account string, ownedFragments int) (next uint8, terminal bool, err error) {
	next, terminal, err = Gate(account, t.Current(account), ownedFragments)
	if err != nil {
		return next, false, err
	}
	t.current[account] = next
	return next, terminal, nil
}

// Set restores an account's epoch directly. Used by replay; forward-only.
func (t *Tracker) Set(account string, epoch uint8) {
	if epoch > Terminal {
		epoch = Terminal
	}
	if epoch > t.current[account] {
		t.current[account] = epoch
	}
}
