package unitofwork

import (
	"context"

	"faith-companion-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	SessionArtifactRepository() contract.SessionArtifactRepository
	MemoryItemRepository() contract.MemoryItemRepository
	SessionNoteRepository() contract.SessionNoteRepository
}
