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

type SessionNoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemoryMapper
}

func NewSessionNoteRepository(db *gorm.DB) contract.SessionNoteRepository {
	return &SessionNoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemoryMapper(),
	}
}

func (r *SessionNoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionNoteRepositoryImpl) CreateBulk(ctx context.Context, notes []*entity.SessionNote) error {
	if len(notes) == 0 {
		return nil
	}
	models := make([]*model.SessionNote, len(notes))
	for i, n := range notes {
		models[i] = r.mapper.SessionNoteToModel(n)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*notes[i] = *r.mapper.SessionNoteToEntity(m)
	}
	return nil
}

func (r *SessionNoteRepositoryImpl) DeleteByConversationId(ctx context.Context, userId uuid.UUID, conversationId string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND conversation_id = ?", userId, conversationId).
		Delete(&model.SessionNote{}).Error
}

func (r *SessionNoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionNote, error) {
	var models []*model.SessionNote
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SessionNote, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SessionNoteToEntity(m)
	}
	return entities, nil
}

func (r *SessionNoteRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SessionNote{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
