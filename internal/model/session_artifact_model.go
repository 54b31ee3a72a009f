package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SessionArtifact uniqueness on (user, session, type, status) is what closes
// the check-then-create race under concurrent end calls.
type SessionArtifact struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_session_artifacts_identity"`
	SessionKey string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_session_artifacts_identity"`
	Type       string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_session_artifacts_identity"`
	Status     string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_session_artifacts_identity"`
	Content    datatypes.JSON
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (SessionArtifact) TableName() string {
	return "session_artifacts"
}
