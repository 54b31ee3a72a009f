package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ArtifactTypeSessionSummary = "conversation_session_summary"
	ArtifactStatusActive       = "active"
)

// SessionArtifact is a durable derivation of a finished conversation, created
// at most once per (UserId, SessionKey, Type, Status).
type SessionArtifact struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	SessionKey string
	Type       string
	Status     string
	Content    map[string]interface{}
	CreatedAt  time.Time
}
