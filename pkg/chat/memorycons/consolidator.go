package memorycons

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"

	"faith-companion-be/internal/entity"
	"faith-companion-be/internal/repository/specification"
	"faith-companion-be/internal/repository/unitofwork"
	"faith-companion-be/pkg/embedding"

	"github.com/google/uuid"
)

const memoryCategory = "conversation"

// Stats reports what one consolidation pass did.
type Stats struct {
	NotesProcessed int `json:"notes_processed"`
	ItemsCreated   int `json:"items_created"`
	Duplicates     int `json:"duplicates"`
}

// Consolidator folds a conversation's ephemeral session notes into durable
// memory items, then removes the notes. Running it again for the same
// conversation finds no notes and reports empty stats.
type Consolidator struct {
	factory  unitofwork.RepositoryFactory
	embedder embedding.EmbeddingProvider
	logger   *log.Logger
}

func NewConsolidator(factory unitofwork.RepositoryFactory, embedder embedding.EmbeddingProvider, logger *log.Logger) *Consolidator {
	return &Consolidator{
		factory:  factory,
		embedder: embedder,
		logger:   logger,
	}
}

// Consolidate merges the conversation's notes into the user's memory.
func (c *Consolidator) Consolidate(ctx context.Context, userId uuid.UUID, conversationId string) (*Stats, error) {
	reader := c.factory.NewUnitOfWork(ctx)
	notes, err := reader.SessionNoteRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByConversationID{ConversationID: conversationId},
	)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return &Stats{}, nil
	}

	// Embeddings are fetched before the transaction opens; a missing
	// embedding never blocks consolidation.
	embeddings := make([][]float32, len(notes))
	if c.embedder != nil {
		for i, note := range notes {
			resp, err := c.embedder.Generate(note.Content, "RETRIEVAL_DOCUMENT")
			if err != nil {
				c.logger.Printf("[WARN] Embedding failed for note %s: %v", note.Id, err)
				continue
			}
			embeddings[i] = resp.Embedding.Values
		}
	}

	stats := &Stats{NotesProcessed: len(notes)}

	uow := c.factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	seen := make(map[string]struct{})
	for i, note := range notes {
		content := strings.TrimSpace(note.Content)
		if content == "" {
			continue
		}
		hash := contentHash(content)
		if _, dup := seen[hash]; dup {
			stats.Duplicates++
			continue
		}
		seen[hash] = struct{}{}

		exists, err := uow.MemoryItemRepository().ExistsByHash(ctx, userId, hash)
		if err != nil {
			return nil, err
		}
		if exists {
			stats.Duplicates++
			continue
		}

		item := &entity.MemoryItem{
			Id:          uuid.New(),
			UserId:      userId,
			Category:    memoryCategory,
			Content:     content,
			ContentHash: hash,
			Source:      conversationId,
			Embedding:   embeddings[i],
		}
		if err := uow.MemoryItemRepository().Create(ctx, item); err != nil {
			return nil, err
		}
		stats.ItemsCreated++
	}

	if err := uow.SessionNoteRepository().DeleteByConversationId(ctx, userId, conversationId); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	c.logger.Printf("[MEMORY] Consolidated conversation %s: %d notes, %d items, %d duplicates",
		conversationId, stats.NotesProcessed, stats.ItemsCreated, stats.Duplicates)

	return stats, nil
}

func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
