package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatSession struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_chat_sessions_identity"`
	Kind       string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_chat_sessions_identity"`
	SessionKey string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_chat_sessions_identity"`
	Title      string    `gorm:"type:text;not null"`
	StartedAt  time.Time
	EndedAt    *time.Time
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
