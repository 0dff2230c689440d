package domain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yingzhou-world/chronicle/internal/chronicle/app"
	"github.com/yingzhou-world/chronicle/internal/chronicle/storage/memory"
	apperrors "github.com/yingzhou-world/chronicle/internal/platform/errors"
)

func newTestChronicle(t *testing.T) Chronicle {
	t.Helper()
	world, err := app.New(context.Background(), memory.NewStore())
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return world
}

func staticContext(ctx Context) func() Context {
	return func() Context { return ctx }
}

func TestBeingCreateHandlerUsesContextAccount(t *testing.T) {
	world := newTestChronicle(t)
	handler := BeingCreateHandler(world, staticContext(Context{Account: "acct-1"}), nil)

	_, result, err := handler(context.Background(), nil, BeingCreateInput{})
	if err != nil {
		t.Fatalf("being create: %v", err)
	}
	if result.BeingID != 1 {
		t.Fatalf("expected being id 1, got %d", result.BeingID)
	}
	if result.GenesisHash == "" {
		t.Fatal("expected a genesis hash")
	}

	if _, _, err := handler(context.Background(), nil, BeingCreateInput{}); err == nil {
		t.Fatal("expected second create to fail")
	}
}

func TestBeingCreateHandlerRequiresAccount(t *testing.T) {
	world := newTestChronicle(t)
	handler := BeingCreateHandler(world, staticContext(Context{}), nil)

	_, _, err := handler(context.Background(), nil, BeingCreateInput{})
	if err == nil || !strings.Contains(err.Error(), "account is required") {
		t.Fatalf("expected account requirement error, got %v", err)
	}
}

func TestDialogueFlowHandlers(t *testing.T) {
	world := newTestChronicle(t)
	getContext := staticContext(Context{Account: "acct-1"})

	_, opened, err := DialogueInteractHandler(world, getContext, nil)(context.Background(), nil, DialogueInteractInput{
		NPC:      "historian",
		Question: "what came first",
	})
	if err != nil {
		t.Fatalf("interact: %v", err)
	}
	if opened.RequestID == "" {
		t.Fatal("expected a request id")
	}

	_, stored, err := DialogueStoreHandler(world, nil)(context.Background(), nil, DialogueStoreInput{
		RequestID: opened.RequestID,
		Question:  "what came first",
		Response:  "the journal",
	})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if !stored.Stored {
		t.Fatal("expected stored flag")
	}

	_, history, err := DialogueHistoryHandler(world)(context.Background(), nil, DialogueHistoryInput{NPC: "historian"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history.History) != 1 || history.History[0].Response != "the journal" {
		t.Fatalf("expected one settled exchange, got %+v", history.History)
	}
	if len(history.Messages) != 2 {
		t.Fatalf("expected a two-line transcript, got %+v", history.Messages)
	}
	if history.Messages[0].Role != "user" || history.Messages[0].Text != "what came first" {
		t.Fatalf("expected the question first, got %+v", history.Messages[0])
	}
	if history.Messages[1].Role != "npc" || history.Messages[1].Text != "the journal" {
		t.Fatalf("expected the response second, got %+v", history.Messages[1])
	}
	if history.Messages[1].Timestamp <= history.Messages[0].Timestamp {
		t.Fatalf("expected the response one tick after its question, got %q then %q",
			history.Messages[0].Timestamp, history.Messages[1].Timestamp)
	}
}

func TestEpochAndFragmentHandlers(t *testing.T) {
	world := newTestChronicle(t)
	getContext := staticContext(Context{Account: "acct-1"})

	_, granted, err := FragmentGrantHandler(world, getContext, nil)(context.Background(), nil, FragmentGrantInput{FragmentID: 0})
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if !granted.Owned {
		t.Fatal("expected ownership after grant")
	}

	_, advanced, err := EpochAdvanceHandler(world, getContext, nil)(context.Background(), nil, EpochAdvanceInput{})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if advanced.Epoch != 1 {
		t.Fatalf("expected epoch 1, got %d", advanced.Epoch)
	}

	_, status, err := EpochStatusHandler(world, getContext)(context.Background(), nil, EpochStatusInput{})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.CurrentEpoch != 1 || status.OwnedFragments != 1 {
		t.Fatalf("unexpected status %+v", status)
	}

	_, collection, err := FragmentCollectionHandler(world, getContext)(context.Background(), nil, FragmentCollectionInput{})
	if err != nil {
		t.Fatalf("collection: %v", err)
	}
	if collection.Owned != 1 {
		t.Fatalf("expected one owned fragment, got %d", collection.Owned)
	}
}

func TestWorldStatusHandlerAndResource(t *testing.T) {
	world := newTestChronicle(t)
	getContext := staticContext(Context{Locale: "zh-CN"})

	_, status, err := WorldStatusHandler(world, getContext)(context.Background(), nil, WorldStatusInput{})
	if err != nil {
		t.Fatalf("world status: %v", err)
	}
	if status.State != "genesis" || status.Entropy != 0 {
		t.Fatalf("expected fresh genesis world, got %+v", status)
	}
	if status.EraName == "" {
		t.Fatal("expected a localized era name")
	}

	result, err := WorldStatusResourceHandler(world, getContext)(context.Background(), nil)
	if err != nil {
		t.Fatalf("resource read: %v", err)
	}
	if len(result.Contents) != 1 || !strings.Contains(result.Contents[0].Text, "genesis") {
		t.Fatalf("unexpected resource payload %+v", result.Contents)
	}
}

func TestWorldAdvanceHandlerParsesState(t *testing.T) {
	world := newTestChronicle(t)
	getContext := staticContext(Context{})

	_, advanced, err := WorldAdvanceHandler(world, getContext, nil)(context.Background(), nil, WorldAdvanceInput{State: "emergence"})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if advanced.State != "emergence" || advanced.Entropy != 25 {
		t.Fatalf("unexpected result %+v", advanced)
	}

	if _, _, err := WorldAdvanceHandler(world, getContext, nil)(context.Background(), nil, WorldAdvanceInput{State: "nowhere"}); err == nil {
		t.Fatal("expected unknown state to be rejected")
	}
}

func TestEventListHandlerPagination(t *testing.T) {
	world := newTestChronicle(t)
	getContext := staticContext(Context{Account: "acct-1"})

	for i := 0; i < 3; i++ {
		input := FragmentGrantInput{FragmentID: uint32(i)}
		if _, _, err := FragmentGrantHandler(world, getContext, nil)(context.Background(), nil, input); err != nil {
			t.Fatalf("grant %d: %v", i, err)
		}
	}

	_, page, err := EventListHandler(world)(context.Background(), nil, EventListInput{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Events) != 2 || page.Next != 2 {
		t.Fatalf("expected two events and next=2, got %d events next=%d", len(page.Events), page.Next)
	}

	_, rest, err := EventListHandler(world)(context.Background(), nil, EventListInput{Start: page.Next})
	if err != nil {
		t.Fatalf("list rest: %v", err)
	}
	if len(rest.Events) != 1 || rest.Events[0].EventID != 2 {
		t.Fatalf("expected the final event, got %+v", rest.Events)
	}
}

func TestToolErrorLocalizesDomainCodes(t *testing.T) {
	err := toolError("event get", apperrors.New(apperrors.CodeNotFound, "event 9 not found"), "zh-CN")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "未找到请求的记录") {
		t.Fatalf("expected localized message, got %q", err.Error())
	}

	plain := toolError("event get", context.DeadlineExceeded, "zh-CN")
	if !errors.Is(plain, context.DeadlineExceeded) {
		t.Fatalf("expected uncoded errors to pass through, got %v", plain)
	}
}
