package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/yingzhou-world/chronicle/internal/chronicle/app"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/being"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/dialogue"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/event"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/npc"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/world"
	apperrors "github.com/yingzhou-world/chronicle/internal/platform/errors"
	errmsgs "github.com/yingzhou-world/chronicle/internal/platform/errors/i18n"
)

// Chronicle is the world facade surface the MCP handlers consume.
type Chronicle interface {
	CreateBeing(ctx context.Context, owner string) (being.Reflection, error)
	Reflect(ctx context.Context, beingID uint64) (being.Reflection, error)
	BeingByOwner(ctx context.Context, owner string) (being.Reflection, error)
	RecordMemory(ctx context.Context, beingID uint64, caller, contentHash, category, tag string) error
	Memories(ctx context.Context, beingID uint64) ([]being.Memory, error)

	Interact(ctx context.Context, archetype npc.Archetype, inquirer, questionHash string) (string, error)
	StoreContent(ctx context.Context, requestID, question, response string) error
	History(ctx context.Context, archetype npc.Archetype) ([]dialogue.Exchange, error)
	RecordDialogueMemory(ctx context.Context, requestID string) error
	NPCList(ctx context.Context, locale string) []app.NPCView

	GrantFragment(ctx context.Context, account string, fragmentID uint32) error
	FragmentCollection(ctx context.Context, account string) []app.FragmentView
	EpochStatusFor(ctx context.Context, account, locale string) app.EpochStatus
	AdvanceEpoch(ctx context.Context, account string) (uint8, error)

	WorldStatus(ctx context.Context, locale string) (app.Status, error)
	AdvanceWorldState(ctx context.Context, next world.State, grant string) error
	FinalizeWorld(ctx context.Context, grant string) error
	GetEvent(ctx context.Context, id uint64) (event.Event, error)
	ListEvents(ctx context.Context, start uint64, limit int) ([]event.Event, error)
}

// Context is the per-session state shared by tool handlers: the account the
// caller acts as, the preferred locale, and an optional governor grant for
// world-level mutations.
type Context struct {
	Account string
	Locale  string
	Grant   string
}

// ResourceUpdateNotifier signals that a readable resource changed.
type ResourceUpdateNotifier func(ctx context.Context, uri string)

// NotifyResourceUpdates fires the notifier for each URI when one is set.
func NotifyResourceUpdates(ctx context.Context, notify ResourceUpdateNotifier, uris ...string) {
	if notify == nil {
		return
	}
	for _, uri := range uris {
		notify(ctx, uri)
	}
}

// callTimeout bounds a single tool invocation against the facade.
const callTimeout = 10 * time.Second

// toolError wraps a facade failure with the user-facing message localized
// for the session, so MCP clients render something readable. Errors without
// a domain code pass through unchanged.
func toolError(op string, err error, locale string) error {
	code := apperrors.GetCode(err)
	if code == apperrors.CodeUnknown {
		return fmt.Errorf("%s failed: %w", op, err)
	}
	msg := errmsgs.GetCatalog(locale).Format(string(code), apperrors.GetMetadata(err))
	return fmt.Errorf("%s failed: %s", op, msg)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
