package contract

import (
	"context"
	"errors"

	"faith-companion-be/internal/entity"
	"faith-companion-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ErrArtifactExists is returned by Create when the (user, session, type,
// status) uniqueness constraint fires. Callers treat it as "already exists",
// not as a failure.
var ErrArtifactExists = errors.New("session artifact already exists")

type SessionArtifactRepository interface {
	Create(ctx context.Context, artifact *entity.SessionArtifact) error
	ExistsActive(ctx context.Context, userId uuid.UUID, sessionKey, artifactType string) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SessionArtifact, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionArtifact, error)
}
