package contract

import (
	"context"

	"faith-companion-be/internal/entity"
	"faith-companion-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SessionNoteRepository interface {
	CreateBulk(ctx context.Context, notes []*entity.SessionNote) error
	DeleteByConversationId(ctx context.Context, userId uuid.UUID, conversationId string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionNote, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
