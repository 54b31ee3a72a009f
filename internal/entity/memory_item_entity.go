package entity

import (
	"time"

	"github.com/google/uuid"
)

// MemoryItem is one unit of durable user memory. ContentHash deduplicates
// across consolidations; Embedding is optional and only set when the
// embedding provider was reachable.
type MemoryItem struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Category    string
	Content     string
	ContentHash string
	Source      string
	Embedding   []float32
	CreatedAt   time.Time
}
