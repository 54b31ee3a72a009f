package transcript

import (
	"context"
	"io"
	"log"
	"testing"

	"faith-companion-be/internal/entity"
	"faith-companion-be/internal/repository/contract"
	"faith-companion-be/internal/repository/specification"
	"faith-companion-be/internal/repository/unitofwork"
	"faith-companion-be/pkg/chat/titler"

	"github.com/google/uuid"
)

// fakeUnitOfWork keeps sessions and messages in memory so Save can be
// exercised end to end without a database. It acts as its own factory.
type fakeUnitOfWork struct {
	sessions []*entity.ChatSession
	messages []*entity.ChatMessage
	begun    int
	commits  int
}

func (f *fakeUnitOfWork) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f }

func (f *fakeUnitOfWork) Begin(ctx context.Context) error { f.begun++; return nil }
func (f *fakeUnitOfWork) Commit() error                   { f.commits++; return nil }
func (f *fakeUnitOfWork) Rollback() error                 { return nil }

func (f *fakeUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeSessionRepo{uow: f}
}

func (f *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return &fakeMessageRepo{uow: f}
}

func (f *fakeUnitOfWork) SessionArtifactRepository() contract.SessionArtifactRepository { return nil }
func (f *fakeUnitOfWork) MemoryItemRepository() contract.MemoryItemRepository           { return nil }
func (f *fakeUnitOfWork) SessionNoteRepository() contract.SessionNoteRepository         { return nil }

type fakeSessionRepo struct {
	uow *fakeUnitOfWork
}

func sessionMatches(s *entity.ChatSession, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if s.Id != sp.ID {
				return false
			}
		case specification.UserOwnedBy:
			if s.UserId != sp.UserID {
				return false
			}
		case specification.ByKind:
			if s.Kind != sp.Kind {
				return false
			}
		case specification.BySessionKey:
			if s.SessionKey != sp.SessionKey {
				return false
			}
		}
	}
	return true
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	copied := *session
	r.uow.sessions = append(r.uow.sessions, &copied)
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	for i, s := range r.uow.sessions {
		if s.Id == session.Id {
			copied := *session
			r.uow.sessions[i] = &copied
			return nil
		}
	}
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	kept := r.uow.sessions[:0]
	for _, s := range r.uow.sessions {
		if s.Id != id {
			kept = append(kept, s)
		}
	}
	r.uow.sessions = kept
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, s := range r.uow.sessions {
		if sessionMatches(s, specs) {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	out := make([]*entity.ChatSession, 0)
	for _, s := range r.uow.sessions {
		if sessionMatches(s, specs) {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	found, _ := r.FindAll(ctx, specs...)
	return int64(len(found)), nil
}

type fakeMessageRepo struct {
	uow *fakeUnitOfWork
}

func (r *fakeMessageRepo) CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error {
	for _, m := range messages {
		copied := *m
		r.uow.messages = append(r.uow.messages, &copied)
	}
	return nil
}

func (r *fakeMessageRepo) DeleteByChatSessionId(ctx context.Context, chatSessionId uuid.UUID) error {
	kept := r.uow.messages[:0]
	for _, m := range r.uow.messages {
		if m.ChatSessionId != chatSessionId {
			kept = append(kept, m)
		}
	}
	r.uow.messages = kept
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	out := make([]*entity.ChatMessage, 0)
	for _, m := range r.uow.messages {
		keep := true
		for _, spec := range specs {
			if sp, ok := spec.(specification.ByChatSessionID); ok && m.ChatSessionId != sp.ChatSessionID {
				keep = false
			}
		}
		if keep {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	found, _ := r.FindAll(ctx, specs...)
	return int64(len(found)), nil
}

func newTestStore(uow *fakeUnitOfWork) *Store {
	discard := log.New(io.Discard, "", 0)
	return NewStore(uow, titler.NewTitler(nil, discard), discard)
}

func TestSaveCreatesSessionAndOrderedMessages(t *testing.T) {
	uow := &fakeUnitOfWork{}
	store := newTestStore(uow)
	userId := uuid.New()

	res, err := store.Save(context.Background(), userId, "conversation", &Transcript{
		SessionKey: "sess-1",
		StartedAt:  "2026-08-01T10:00:00Z",
		Messages: []Message{
			{Role: "user", Content: "Pray for my mom"},
			{Role: "assistant", Content: "I'm holding her in prayer with you."},
		},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !res.Saved {
		t.Fatalf("Saved = false, reason %q", res.Reason)
	}
	if res.Session.Title == "" {
		t.Error("saved session has empty title")
	}
	if res.MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", res.MessageCount)
	}

	if len(uow.sessions) != 1 {
		t.Fatalf("session rows = %d, want 1", len(uow.sessions))
	}
	session := uow.sessions[0]
	if session.UserId != userId || session.Kind != "conversation" || session.SessionKey != "sess-1" {
		t.Errorf("session identity = %+v", session)
	}
	if session.EndedAt == nil {
		t.Error("EndedAt not set")
	}

	if len(uow.messages) != 2 {
		t.Fatalf("message rows = %d, want 2", len(uow.messages))
	}
	for i, want := range []string{"Pray for my mom", "I'm holding her in prayer with you."} {
		if uow.messages[i].Content != want {
			t.Errorf("message[%d].Content = %q, want %q", i, uow.messages[i].Content, want)
		}
		if uow.messages[i].Position != i {
			t.Errorf("message[%d].Position = %d, want %d", i, uow.messages[i].Position, i)
		}
		if uow.messages[i].ChatSessionId != session.Id {
			t.Errorf("message[%d] not linked to session", i)
		}
	}

	if uow.commits != 1 {
		t.Errorf("commits = %d, want 1", uow.commits)
	}
}

func TestSaveTwiceKeepsOneSessionWithLatestMessages(t *testing.T) {
	uow := &fakeUnitOfWork{}
	store := newTestStore(uow)
	userId := uuid.New()

	first := &Transcript{
		SessionKey: "sess-1",
		Messages: []Message{
			{Role: "user", Content: "First version"},
			{Role: "assistant", Content: "Reply"},
		},
	}
	if _, err := store.Save(context.Background(), userId, "conversation", first); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	firstId := uow.sessions[0].Id

	second := &Transcript{
		SessionKey: "sess-1",
		Messages: []Message{
			{Role: "user", Content: "Second version"},
			{Role: "assistant", Content: "Reply"},
			{Role: "user", Content: "One more thing"},
		},
	}
	res, err := store.Save(context.Background(), userId, "conversation", second)
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if res.MessageCount != 3 {
		t.Errorf("MessageCount = %d, want 3", res.MessageCount)
	}

	if len(uow.sessions) != 1 {
		t.Fatalf("session rows = %d, want 1", len(uow.sessions))
	}
	if uow.sessions[0].Id != firstId {
		t.Error("retried save created a new session identity")
	}

	if len(uow.messages) != 3 {
		t.Fatalf("message rows = %d, want exactly the second set", len(uow.messages))
	}
	for i, want := range []string{"Second version", "Reply", "One more thing"} {
		if uow.messages[i].Content != want || uow.messages[i].Position != i {
			t.Errorf("message[%d] = %q at position %d, want %q at %d",
				i, uow.messages[i].Content, uow.messages[i].Position, want, i)
		}
	}
}

func TestSaveTooShortWritesNothing(t *testing.T) {
	uow := &fakeUnitOfWork{}
	store := newTestStore(uow)

	res, err := store.Save(context.Background(), uuid.New(), "conversation", &Transcript{
		SessionKey: "sess-1",
		Messages: []Message{
			{Role: "user", Content: "Hello"},
		},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if res.Saved || res.Reason != ReasonTooShort {
		t.Errorf("result = %+v, want rejected with %q", res, ReasonTooShort)
	}
	if len(uow.sessions) != 0 || len(uow.messages) != 0 {
		t.Errorf("rows written for a rejected transcript: %d sessions, %d messages",
			len(uow.sessions), len(uow.messages))
	}
	if uow.begun != 0 {
		t.Error("transaction opened for a rejected transcript")
	}
}
