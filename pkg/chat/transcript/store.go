package transcript

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"faith-companion-be/internal/constant"
	"faith-companion-be/internal/entity"
	"faith-companion-be/internal/repository/specification"
	"faith-companion-be/internal/repository/unitofwork"
	"faith-companion-be/pkg/chat/titler"
	"faith-companion-be/pkg/llm"

	"github.com/google/uuid"
)

const ReasonTooShort = "too_short"

// Message is one turn of a client-submitted transcript before normalization.
type Message struct {
	Role            string          `json:"role"`
	Content         string          `json:"content"`
	Actions         json.RawMessage `json:"actions,omitempty"`
	ClientTimestamp string          `json:"client_timestamp,omitempty"`
}

// Transcript is the full client-side view of a conversation submitted at end.
type Transcript struct {
	SessionKey string    `json:"session_id"`
	StartedAt  string    `json:"started_at,omitempty"`
	EndedAt    string    `json:"ended_at,omitempty"`
	Messages   []Message `json:"messages"`
}

// SaveResult reports what Save did. Saved=false with a Reason means the
// transcript was rejected without any writes.
type SaveResult struct {
	Saved        bool
	Reason       string
	Session      *entity.ChatSession
	MessageCount int
}

// Store persists ended conversations. Saving the same session key twice
// converges on one ChatSession row with the latest message set.
type Store struct {
	factory unitofwork.RepositoryFactory
	titler  *titler.Titler
	logger  *log.Logger
}

func NewStore(factory unitofwork.RepositoryFactory, titler *titler.Titler, logger *log.Logger) *Store {
	return &Store{
		factory: factory,
		titler:  titler,
		logger:  logger,
	}
}

// Save normalizes and persists a transcript for the given user. Transcripts
// without substance (fewer than two real messages, or no real user message)
// are skipped with reason "too_short".
func (s *Store) Save(ctx context.Context, userId uuid.UUID, kind string, tr *Transcript) (*SaveResult, error) {
	normalized := normalizeMessages(tr.Messages)
	if !hasSubstance(normalized) {
		return &SaveResult{Saved: false, Reason: ReasonTooShort}, nil
	}

	title := s.titler.Title(ctx, kind, toTurns(normalized))

	startedAt := earliestTimestamp(tr, normalized)
	endedAt := parseTimestamp(tr.EndedAt, time.Now())

	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByKind{Kind: kind},
		specification.BySessionKey{SessionKey: tr.SessionKey},
	)
	if err != nil {
		return nil, err
	}

	if session == nil {
		session = &entity.ChatSession{
			Id:         uuid.New(),
			UserId:     userId,
			Kind:       kind,
			SessionKey: tr.SessionKey,
			Title:      title,
			StartedAt:  startedAt,
			EndedAt:    &endedAt,
		}
		if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
			return nil, err
		}
	} else {
		session.Title = title
		session.EndedAt = &endedAt
		if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
			return nil, err
		}
	}

	// Replace the full message set so retried saves stay idempotent
	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, session.Id); err != nil {
		return nil, err
	}

	messages := make([]*entity.ChatMessage, len(normalized))
	for i, m := range normalized {
		messages[i] = &entity.ChatMessage{
			Id:              uuid.New(),
			ChatSessionId:   session.Id,
			Role:            m.Role,
			Content:         m.Content,
			Actions:         m.Actions,
			ClientTimestamp: m.ClientTimestamp,
			Position:        i,
		}
	}
	if err := uow.ChatMessageRepository().CreateBulk(ctx, messages); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Printf("[TRANSCRIPT] Saved session %s (%s) with %d messages", tr.SessionKey, kind, len(messages))

	return &SaveResult{
		Saved:        true,
		Session:      session,
		MessageCount: len(messages),
	}, nil
}

// normalizeMessages trims content and drops turns that carry nothing.
func normalizeMessages(messages []Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		m.Content = content
		m.Role = strings.TrimSpace(strings.ToLower(m.Role))
		out = append(out, m)
	}
	return out
}

func hasSubstance(normalized []Message) bool {
	if len(normalized) < 2 {
		return false
	}
	for _, m := range normalized {
		if m.Role == constant.ChatMessageRoleUser {
			return true
		}
	}
	return false
}

func toTurns(normalized []Message) []llm.Message {
	turns := make([]llm.Message, len(normalized))
	for i, m := range normalized {
		turns[i] = llm.Message{Role: m.Role, Content: m.Content}
	}
	return turns
}

// earliestTimestamp picks startedAt from the transcript header, else the
// earliest parseable client timestamp, else now.
func earliestTimestamp(tr *Transcript, normalized []Message) time.Time {
	if ts, ok := tryParse(tr.StartedAt); ok {
		return ts
	}
	var earliest time.Time
	for _, m := range normalized {
		if ts, ok := tryParse(m.ClientTimestamp); ok {
			if earliest.IsZero() || ts.Before(earliest) {
				earliest = ts
			}
		}
	}
	if !earliest.IsZero() {
		return earliest
	}
	return time.Now()
}

func parseTimestamp(raw string, fallback time.Time) time.Time {
	if ts, ok := tryParse(raw); ok {
		return ts
	}
	return fallback
}

func tryParse(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
