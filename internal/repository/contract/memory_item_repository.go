package contract

import (
	"context"

	"faith-companion-be/internal/entity"
	"faith-companion-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MemoryItemRepository interface {
	Create(ctx context.Context, item *entity.MemoryItem) error
	ExistsByHash(ctx context.Context, userId uuid.UUID, contentHash string) (bool, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MemoryItem, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
