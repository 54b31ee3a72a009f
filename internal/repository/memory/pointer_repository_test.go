package memory

import (
	"testing"
	"time"

	"faith-companion-be/pkg/store"
)

func TestPointerRepositoryLifecycle(t *testing.T) {
	repo := NewPointerRepository()

	pointer := &store.ConversationPointer{
		UserID:         "user-1",
		Kind:           store.KindConversation,
		ConversationID: "conv-1",
		TurnCount:      1,
		LastTurnAt:     time.Now(),
	}
	repo.Save(pointer)

	got, found := repo.Get("user-1", store.KindConversation)
	if !found {
		t.Fatal("pointer not found after save")
	}
	if got.ConversationID != "conv-1" {
		t.Errorf("ConversationID = %q", got.ConversationID)
	}

	// Kinds are independent slots
	if _, found := repo.Get("user-1", store.KindJournal); found {
		t.Error("journal slot populated by conversation save")
	}

	repo.Touch("user-1", store.KindConversation)
	got, _ = repo.Get("user-1", store.KindConversation)
	if got.TurnCount != 2 {
		t.Errorf("TurnCount after touch = %d, want 2", got.TurnCount)
	}

	repo.Delete("user-1", store.KindConversation)
	if _, found := repo.Get("user-1", store.KindConversation); found {
		t.Error("pointer still present after delete")
	}
}

func TestPointerRepositoryTouchMissing(t *testing.T) {
	repo := NewPointerRepository()

	// Touching an absent pointer is a no-op
	repo.Touch("ghost", store.KindConversation)
	if _, found := repo.Get("ghost", store.KindConversation); found {
		t.Error("touch created a pointer")
	}
}
