package store

import "time"

// ConversationPointer tracks the live conversation a user has in flight so
// repeated turns land on the same session key until the session is ended.
type ConversationPointer struct {
	UserID         string    `json:"user_id"`
	Kind           string    `json:"kind"`
	ConversationID string    `json:"conversation_id"`
	TurnCount      int       `json:"turn_count"`
	LastTurnAt     time.Time `json:"last_turn_at"`
}

const (
	// Session kinds the pipeline distinguishes between.
	KindConversation = "conversation"
	KindJournal      = "journal"
)
