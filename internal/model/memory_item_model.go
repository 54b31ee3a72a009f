package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type MemoryItem struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_memory_items_hash"`
	Category    string    `gorm:"type:varchar(50);not null"`
	Content     string    `gorm:"type:text;not null"`
	ContentHash string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_memory_items_hash"`
	Source      string    `gorm:"type:varchar(100)"`
	Embedding   *pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (MemoryItem) TableName() string {
	return "memory_items"
}
