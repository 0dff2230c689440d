package app

import (
	"context"
	"strconv"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/epoch"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/event"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/fragment"
	"github.com/yingzhou-world/chronicle/internal/chronicle/i18n"
	"github.com/yingzhou-world/chronicle/internal/platform/errors"
)

func formatFragmentID(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

// GrantFragment records fragment ownership for an account. Granting an
// already-owned fragment is a no-op and appends nothing.
func (w *World) GrantFragment(ctx context.Context, account string, fragmentID uint32) error {
	ctx, span := tracer.Start(ctx, "chronicle.grant_fragment")
	defer span.End()

	if _, ok := fragment.ByID(fragmentID); !ok {
		return errors.WithMetadata(errors.CodeNotFound, "fragment not in catalog", map[string]string{
			"fragment": formatFragmentID(fragmentID),
		})
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.proj.Fragments.Owns(account, fragmentID) {
		return nil
	}

	meta, err := event.EncodeMetadata(map[string]string{
		event.MetaKind:     event.KindFragmentGrant,
		event.MetaFragment: formatFragmentID(fragmentID),
	})
	if err != nil {
		return errors.Wrap(errors.CodeUnknown, "encode grant metadata", err)
	}
	_, err = w.appendLocked(ctx, event.Event{
		Type:     event.TypeDiscovery,
		Actor:    account,
		Metadata: meta,
	})
	return err
}

// OwnsFragment reports whether the account owns the fragment.
func (w *World) OwnsFragment(ctx context.Context, account string, fragmentID uint32) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.proj.Fragments.Owns(account, fragmentID)
}

// FragmentsOwnedBy returns the account's fragment ids in ascending order.
func (w *World) FragmentsOwnedBy(ctx context.Context, account string) []uint32 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.proj.Fragments.OwnedBy(account)
}

// FragmentView is one catalog entry with the account's ownership flag.
type FragmentView struct {
	Fragment fragment.Fragment
	Owned    bool
}

// FragmentCollection returns the full catalog with ownership markers for
// the account.
func (w *World) FragmentCollection(ctx context.Context, account string) []FragmentView {
	w.mu.RLock()
	defer w.mu.RUnlock()

	catalog := fragment.Catalog()
	out := make([]FragmentView, 0, len(catalog))
	for _, f := range catalog {
		out = append(out, FragmentView{
			Fragment: f,
			Owned:    w.proj.Fragments.Owns(account, f.ID),
		})
	}
	return out
}

// CurrentEpoch returns the account's epoch, 0 for accounts never seen.
func (w *World) CurrentEpoch(ctx context.Context, account string) uint8 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.proj.Epochs.Current(account)
}

// AdvanceEpoch moves the account exactly one epoch forward, gated by the
// fragment requirement table. Entering the terminal epoch finalizes the
// world globally.
func (w *World) AdvanceEpoch(ctx context.Context, account string) (uint8, error) {
	ctx, span := tracer.Start(ctx, "chronicle.advance_epoch")
	defer span.End()

	w.mu.Lock()
	defer w.mu.Unlock()

	cur := w.proj.Epochs.Current(account)
	owned := w.proj.Fragments.CountOwned(account)
	next, terminal, err := epoch.Gate(account, cur, owned)
	if err != nil {
		return cur, err
	}

	meta, err := event.EncodeMetadata(map[string]string{
		event.MetaKind:  event.KindEpochAdvance,
		event.MetaEpoch: strconv.Itoa(int(next)),
	})
	if err != nil {
		return cur, errors.Wrap(errors.CodeUnknown, "encode epoch metadata", err)
	}
	if _, err := w.appendLocked(ctx, event.Event{
		Type:     event.TypeDiscovery,
		Actor:    account,
		Metadata: meta,
	}); err != nil {
		return cur, err
	}

	if terminal {
		if err := w.finalizeLocked(ctx); err != nil {
			return next, err
		}
	}
	return next, nil
}

// EpochStatus is the per-account progress read model.
type EpochStatus struct {
	Account         string
	CurrentEpoch    uint8
	EraName         string
	OwnedFragments  int
	NextRequirement int
	AtTerminal      bool
}

// EpochStatusFor returns the account's progress with the era name localized.
func (w *World) EpochStatusFor(ctx context.Context, account, locale string) EpochStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()

	cur := w.proj.Epochs.Current(account)
	status := EpochStatus{
		Account:        account,
		CurrentEpoch:   cur,
		EraName:        i18n.GetCatalog(locale).EraName(cur),
		OwnedFragments: w.proj.Fragments.CountOwned(account),
		AtTerminal:     cur >= epoch.Terminal,
	}
	if !status.AtTerminal {
		status.NextRequirement = epoch.RequirementFor(cur + 1)
	}
	return status
}
