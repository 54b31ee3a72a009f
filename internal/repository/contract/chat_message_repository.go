package contract

import (
	"context"

	"faith-companion-be/internal/entity"
	"faith-companion-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error
	// DeleteByChatSessionId removes the session's messages for real (no soft
	// delete); the replace-all transcript save depends on it.
	DeleteByChatSessionId(ctx context.Context, chatSessionId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
