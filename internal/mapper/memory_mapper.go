package mapper

import (
	"encoding/json"

	"faith-companion-be/internal/entity"
	"faith-companion-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type MemoryMapper struct{}

func NewMemoryMapper() *MemoryMapper {
	return &MemoryMapper{}
}

// Artifact Mappers

func (m *MemoryMapper) SessionArtifactToEntity(a *model.SessionArtifact) *entity.SessionArtifact {
	if a == nil {
		return nil
	}

	var content map[string]interface{}
	if len(a.Content) > 0 {
		// Content was serialized by us; a decode failure leaves it nil.
		_ = json.Unmarshal(a.Content, &content)
	}

	return &entity.SessionArtifact{
		Id:         a.Id,
		UserId:     a.UserId,
		SessionKey: a.SessionKey,
		Type:       a.Type,
		Status:     a.Status,
		Content:    content,
		CreatedAt:  a.CreatedAt,
	}
}

func (m *MemoryMapper) SessionArtifactToModel(a *entity.SessionArtifact) *model.SessionArtifact {
	if a == nil {
		return nil
	}

	var content datatypes.JSON
	if a.Content != nil {
		if data, err := json.Marshal(a.Content); err == nil {
			content = datatypes.JSON(data)
		}
	}

	return &model.SessionArtifact{
		Id:         a.Id,
		UserId:     a.UserId,
		SessionKey: a.SessionKey,
		Type:       a.Type,
		Status:     a.Status,
		Content:    content,
		CreatedAt:  a.CreatedAt,
	}
}

// Memory Item Mappers

func (m *MemoryMapper) MemoryItemToEntity(item *model.MemoryItem) *entity.MemoryItem {
	if item == nil {
		return nil
	}

	var embedding []float32
	if item.Embedding != nil {
		embedding = item.Embedding.Slice()
	}

	return &entity.MemoryItem{
		Id:          item.Id,
		UserId:      item.UserId,
		Category:    item.Category,
		Content:     item.Content,
		ContentHash: item.ContentHash,
		Source:      item.Source,
		Embedding:   embedding,
		CreatedAt:   item.CreatedAt,
	}
}

func (m *MemoryMapper) MemoryItemToModel(item *entity.MemoryItem) *model.MemoryItem {
	if item == nil {
		return nil
	}

	var embedding *pgvector.Vector
	if len(item.Embedding) > 0 {
		v := pgvector.NewVector(item.Embedding)
		embedding = &v
	}

	return &model.MemoryItem{
		Id:          item.Id,
		UserId:      item.UserId,
		Category:    item.Category,
		Content:     item.Content,
		ContentHash: item.ContentHash,
		Source:      item.Source,
		Embedding:   embedding,
		CreatedAt:   item.CreatedAt,
	}
}

// Session Note Mappers

func (m *MemoryMapper) SessionNoteToEntity(n *model.SessionNote) *entity.SessionNote {
	if n == nil {
		return nil
	}
	return &entity.SessionNote{
		Id:             n.Id,
		UserId:         n.UserId,
		ConversationId: n.ConversationId,
		Content:        n.Content,
		CreatedAt:      n.CreatedAt,
	}
}

func (m *MemoryMapper) SessionNoteToModel(n *entity.SessionNote) *model.SessionNote {
	if n == nil {
		return nil
	}
	return &model.SessionNote{
		Id:             n.Id,
		UserId:         n.UserId,
		ConversationId: n.ConversationId,
		Content:        n.Content,
		CreatedAt:      n.CreatedAt,
	}
}
