package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession identity is (UserId, Kind, SessionKey); SessionKey is the
// client-supplied session id, distinct from the realtime conversation id.
type ChatSession struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	Kind       string
	SessionKey string
	Title      string
	StartedAt  time.Time
	EndedAt    *time.Time
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
