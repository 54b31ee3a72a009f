package implementation

import (
	"context"
	"errors"

	"faith-companion-be/internal/entity"
	"faith-companion-be/internal/mapper"
	"faith-companion-be/internal/model"
	"faith-companion-be/internal/repository/contract"
	"faith-companion-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionArtifactRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemoryMapper
}

func NewSessionArtifactRepository(db *gorm.DB) contract.SessionArtifactRepository {
	return &SessionArtifactRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemoryMapper(),
	}
}

func (r *SessionArtifactRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Create inserts the artifact; the DB uniqueness constraint converts a
// concurrent duplicate into ErrArtifactExists so two end calls converge on
// one row.
func (r *SessionArtifactRepositoryImpl) Create(ctx context.Context, artifact *entity.SessionArtifact) error {
	m := r.mapper.SessionArtifactToModel(artifact)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return contract.ErrArtifactExists
		}
		return err
	}
	*artifact = *r.mapper.SessionArtifactToEntity(m)
	return nil
}

func (r *SessionArtifactRepositoryImpl) ExistsActive(ctx context.Context, userId uuid.UUID, sessionKey, artifactType string) (bool, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SessionArtifact{}),
		specification.UserOwnedBy{UserID: userId},
		specification.BySessionKey{SessionKey: sessionKey},
		specification.ByArtifactType{Type: artifactType},
		specification.ByArtifactStatus{Status: entity.ArtifactStatusActive},
	)
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *SessionArtifactRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SessionArtifact, error) {
	var m model.SessionArtifact
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SessionArtifactToEntity(&m), nil
}

func (r *SessionArtifactRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionArtifact, error) {
	var models []*model.SessionArtifact
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SessionArtifact, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SessionArtifactToEntity(m)
	}
	return entities, nil
}
