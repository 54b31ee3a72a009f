package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionNote is an ephemeral observation captured during a live
// conversation. Consolidation folds notes into MemoryItem rows and deletes
// them.
type SessionNote struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	ConversationId string
	Content        string
	CreatedAt      time.Time
}
