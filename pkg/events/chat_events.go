package events

import "time"

const (
	TypeSessionEnded       = "SESSION_ENDED"
	TypeSessionSaved       = "SESSION_SAVED"
	TypeMemoryConsolidated = "MEMORY_CONSOLIDATED"
)

// SessionEndedEvent fires when a user ends a conversation session. The
// lifecycle consumer picks it up to produce summary artifacts and memory.
type SessionEndedEvent struct {
	UserID         string
	ConversationID string
	Kind           string
	OccurredAt     time.Time
}

func (e SessionEndedEvent) EventType() string {
	return TypeSessionEnded
}

func (e SessionEndedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":         e.UserID,
		"conversation_id": e.ConversationID,
		"kind":            e.Kind,
		"occurred_at":     e.OccurredAt.Format(time.RFC3339),
	}
}

func (e SessionEndedEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// SessionSavedEvent fires after a transcript is persisted.
type SessionSavedEvent struct {
	UserID         string
	ConversationID string
	Title          string
	MessageCount   int
	OccurredAt     time.Time
}

func (e SessionSavedEvent) EventType() string {
	return TypeSessionSaved
}

func (e SessionSavedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":         e.UserID,
		"conversation_id": e.ConversationID,
		"title":           e.Title,
		"message_count":   e.MessageCount,
		"occurred_at":     e.OccurredAt.Format(time.RFC3339),
	}
}

func (e SessionSavedEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// MemoryConsolidatedEvent fires when consolidation turned a conversation's
// notes into durable memory items.
type MemoryConsolidatedEvent struct {
	UserID         string
	ConversationID string
	ItemsCreated   int
	OccurredAt     time.Time
}

func (e MemoryConsolidatedEvent) EventType() string {
	return TypeMemoryConsolidated
}

func (e MemoryConsolidatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":         e.UserID,
		"conversation_id": e.ConversationID,
		"items_created":   e.ItemsCreated,
		"occurred_at":     e.OccurredAt.Format(time.RFC3339),
	}
}

func (e MemoryConsolidatedEvent) Timestamp() time.Time {
	return e.OccurredAt
}
