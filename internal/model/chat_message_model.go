package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChatMessage has no soft delete: the replace-all save deletes rows for real.
type ChatMessage struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Role            string    `gorm:"type:varchar(20);not null"`
	Content         string    `gorm:"type:text;not null"`
	Actions         datatypes.JSON
	ClientTimestamp *string `gorm:"type:varchar(64)"`
	Position        int     `gorm:"not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
