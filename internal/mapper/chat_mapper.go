package mapper

import (
	"encoding/json"
	"time"

	"faith-companion-be/internal/entity"
	"faith-companion-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatSession{
		Id:         s.Id,
		UserId:     s.UserId,
		Kind:       s.Kind,
		SessionKey: s.SessionKey,
		Title:      s.Title,
		StartedAt:  s.StartedAt,
		EndedAt:    s.EndedAt,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  s.DeletedAt.Valid,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.ChatSession{
		Id:         s.Id,
		UserId:     s.UserId,
		Kind:       s.Kind,
		SessionKey: s.SessionKey,
		Title:      s.Title,
		StartedAt:  s.StartedAt,
		EndedAt:    s.EndedAt,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
	}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	clientTimestamp := ""
	if msg.ClientTimestamp != nil {
		clientTimestamp = *msg.ClientTimestamp
	}

	var actions json.RawMessage
	if len(msg.Actions) > 0 {
		actions = json.RawMessage(msg.Actions)
	}

	return &entity.ChatMessage{
		Id:              msg.Id,
		ChatSessionId:   msg.ChatSessionId,
		Role:            msg.Role,
		Content:         msg.Content,
		Actions:         actions,
		ClientTimestamp: clientTimestamp,
		Position:        msg.Position,
		CreatedAt:       msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	var clientTimestamp *string
	if msg.ClientTimestamp != "" {
		t := msg.ClientTimestamp
		clientTimestamp = &t
	}

	var actions datatypes.JSON
	if len(msg.Actions) > 0 {
		actions = datatypes.JSON(msg.Actions)
	}

	return &model.ChatMessage{
		Id:              msg.Id,
		ChatSessionId:   msg.ChatSessionId,
		Role:            msg.Role,
		Content:         msg.Content,
		Actions:         actions,
		ClientTimestamp: clientTimestamp,
		Position:        msg.Position,
		CreatedAt:       msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessagesToEntities(models []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(models))
	for i, msg := range models {
		entities[i] = m.ChatMessageToEntity(msg)
	}
	return entities
}
