package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ChatMessage rows are replaced wholesale on every transcript save; Position
// preserves transcript order independently of created_at ties.
type ChatMessage struct {
	Id              uuid.UUID
	ChatSessionId   uuid.UUID
	Role            string
	Content         string
	Actions         json.RawMessage
	ClientTimestamp string
	Position        int
	CreatedAt       time.Time
}
