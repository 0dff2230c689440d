package app

import (
	"context"
	stderrors "errors"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/dialogue"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/event"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/fragment"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/npc"
	"github.com/yingzhou-world/chronicle/internal/chronicle/i18n"
	"github.com/yingzhou-world/chronicle/internal/chronicle/replay"
	"github.com/yingzhou-world/chronicle/internal/chronicle/storage"
	"github.com/yingzhou-world/chronicle/internal/platform/errors"
	"github.com/yingzhou-world/chronicle/internal/platform/id"
)

// Interact performs phase 1 of a dialogue exchange: it appends the
// interaction event, raises the NPC's degradation, records the dialogue
// entry, and bumps the inquirer's interaction counter. The returned request
// id keys the later phase-2 content write.
func (w *World) Interact(ctx context.Context, archetype npc.Archetype, inquirer, questionHash string) (string, error) {
	ctx, span := tracer.Start(ctx, "chronicle.interact")
	defer span.End()

	nonce, err := id.NewID()
	if err != nil {
		return "", errors.Wrap(errors.CodeUnknown, "generate interaction nonce", err)
	}
	requestID := dialogue.DeriveRequestID(archetype, inquirer, nonce)

	meta, err := event.EncodeMetadata(map[string]string{
		event.MetaNPC:       string(archetype),
		event.MetaRequestID: requestID,
	})
	if err != nil {
		return "", errors.Wrap(errors.CodeUnknown, "encode interaction metadata", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.appendLocked(ctx, event.Event{
		Type:        event.TypeInteraction,
		Actor:       inquirer,
		ContentHash: questionHash,
		Metadata:    meta,
	}); err != nil {
		return "", err
	}
	return requestID, nil
}

// StoreContent performs phase 2: it settles the question/response payload
// under the request id. The write is idempotent for identical payloads and
// rejects orphan request ids. A trigger keyword in the question grants the
// NPC's hidden fragment, at most once per keyword per account.
func (w *World) StoreContent(ctx context.Context, requestID, question, response string) error {
	ctx, span := tracer.Start(ctx, "chronicle.store_content")
	defer span.End()

	w.mu.Lock()
	defer w.mu.Unlock()

	origin, known := w.proj.RequestOrigin(requestID)
	if !known {
		return errors.WithMetadata(errors.CodeUnknownRequest, "no interaction references this request id", map[string]string{
			"request_id": requestID,
		})
	}

	if err := w.store.PutContent(ctx, dialogue.Content{
		RequestID: requestID,
		Question:  question,
		Response:  response,
	}); err != nil {
		if stderrors.Is(err, storage.ErrContentConflict) {
			return errors.WithMetadata(errors.CodeContentConflict, "payload diverges from stored content", map[string]string{
				"request_id": requestID,
			})
		}
		return errors.Wrap(errors.CodeUnknown, "put content", err)
	}

	w.grantKeywordLocked(ctx, origin, question)
	return nil
}

// grantKeywordLocked grants the hidden fragment when the question fires one
// of the origin NPC's trigger keywords. Grants stop once the world is
// finalized; phase-2 settlement itself is still allowed then, so failures
// here never fail the content write.
func (w *World) grantKeywordLocked(ctx context.Context, origin replay.RequestOrigin, question string) {
	frag, keyword, ok := fragment.MatchKeyword(origin.Archetype, question)
	if !ok {
		return
	}
	if w.proj.Fragments.KeywordSeen(origin.Inquirer, keyword) {
		return
	}
	if w.world.Finalized {
		return
	}

	meta, err := event.EncodeMetadata(map[string]string{
		event.MetaKind:     event.KindFragmentGrant,
		event.MetaFragment: formatFragmentID(frag.ID),
		event.MetaKeyword:  keyword,
	})
	if err != nil {
		return
	}
	_, _ = w.appendLocked(ctx, event.Event{
		Type:     event.TypeDiscovery,
		Actor:    origin.Inquirer,
		Metadata: meta,
	})
}

// History reconstructs the NPC's conversation view: timestamp-ordered,
// deduplicated by request id, settled exchanges only.
func (w *World) History(ctx context.Context, archetype npc.Archetype) ([]dialogue.Exchange, error) {
	ctx, span := tracer.Start(ctx, "chronicle.history")
	defer span.End()

	w.mu.RLock()
	records, err := w.proj.NPCs.History(archetype)
	w.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	var lookupErr error
	history := dialogue.BuildHistory(records, func(requestID string) (dialogue.Content, bool) {
		content, ok, err := w.store.GetContent(ctx, requestID)
		if err != nil {
			lookupErr = err
			return dialogue.Content{}, false
		}
		return content, ok
	})
	if lookupErr != nil {
		return nil, errors.Wrap(errors.CodeUnknown, "join dialogue content", lookupErr)
	}
	return history, nil
}

// RecordDialogueMemory echoes a settled exchange into the inquirer's memory
// list: the memory's content hash fingerprints question and response. The
// caller must own a being.
func (w *World) RecordDialogueMemory(ctx context.Context, requestID string) error {
	ctx, span := tracer.Start(ctx, "chronicle.record_dialogue_memory")
	defer span.End()

	w.mu.RLock()
	origin, known := w.proj.RequestOrigin(requestID)
	w.mu.RUnlock()
	if !known {
		return errors.WithMetadata(errors.CodeUnknownRequest, "no interaction references this request id", map[string]string{
			"request_id": requestID,
		})
	}

	content, ok, err := w.store.GetContent(ctx, requestID)
	if err != nil {
		return errors.Wrap(errors.CodeUnknown, "get content", err)
	}
	if !ok {
		return errors.WithMetadata(errors.CodeNotFound, "content has not settled", map[string]string{
			"request_id": requestID,
		})
	}

	w.mu.RLock()
	b, err := w.proj.Beings.ByOwner(origin.Inquirer)
	w.mu.RUnlock()
	if err != nil {
		return err
	}

	hash := dialogue.HashText(content.Question + "\x00" + content.Response)
	return w.RecordMemory(ctx, b.ID, origin.Inquirer, hash, "dialogue", string(origin.Archetype))
}

// DeactivateNPC takes an NPC out of the cast for this process. Deactivation
// is an operational switch, not journal state: a restart restores the full
// cast.
func (w *World) DeactivateNPC(ctx context.Context, archetype npc.Archetype) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.proj.NPCs.Deactivate(archetype)
}

// NPCView is the presentation read model of one NPC.
type NPCView struct {
	Archetype        npc.Archetype
	Name             string
	Description      string
	Active           bool
	Degradation      uint32
	InteractionCount uint64
}

// NPCList returns the cast with names localized for the requested locale.
func (w *World) NPCList(ctx context.Context, locale string) []NPCView {
	catalog := i18n.GetCatalog(locale)

	w.mu.RLock()
	defer w.mu.RUnlock()

	cast := w.proj.NPCs.List()
	out := make([]NPCView, 0, len(cast))
	for _, n := range cast {
		out = append(out, NPCView{
			Archetype:        n.Archetype,
			Name:             catalog.NPCName(n.Archetype),
			Description:      n.Description,
			Active:           n.Active,
			Degradation:      n.Degradation.Value(),
			InteractionCount: n.InteractionCount.Value(),
		})
	}
	return out
}
