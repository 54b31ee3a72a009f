package implementation

import (
	"context"

	"faith-companion-be/internal/entity"
	"faith-companion-be/internal/mapper"
	"faith-companion-be/internal/model"
	"faith-companion-be/internal/repository/contract"
	"faith-companion-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemoryItemRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemoryMapper
}

func NewMemoryItemRepository(db *gorm.DB) contract.MemoryItemRepository {
	return &MemoryItemRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemoryMapper(),
	}
}

func (r *MemoryItemRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MemoryItemRepositoryImpl) Create(ctx context.Context, item *entity.MemoryItem) error {
	m := r.mapper.MemoryItemToModel(item)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.MemoryItemToEntity(m)
	return nil
}

func (r *MemoryItemRepositoryImpl) ExistsByHash(ctx context.Context, userId uuid.UUID, contentHash string) (bool, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.MemoryItem{}),
		specification.UserOwnedBy{UserID: userId},
		specification.ByContentHash{ContentHash: contentHash},
	)
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *MemoryItemRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MemoryItem, error) {
	var models []*model.MemoryItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.MemoryItem, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MemoryItemToEntity(m)
	}
	return entities, nil
}

func (r *MemoryItemRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.MemoryItem{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
