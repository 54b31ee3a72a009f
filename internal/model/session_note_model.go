package model

import (
	"time"

	"github.com/google/uuid"
)

type SessionNote struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;index:idx_session_notes_conversation"`
	ConversationId string    `gorm:"type:varchar(100);not null;index:idx_session_notes_conversation"`
	Content        string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (SessionNote) TableName() string {
	return "session_notes"
}
