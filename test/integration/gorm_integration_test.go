package integration

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"testing"
	"time"

	"faith-companion-be/internal/entity"
	"faith-companion-be/internal/repository/contract"
	"faith-companion-be/internal/repository/specification"
	"faith-companion-be/internal/repository/unitofwork"
	"faith-companion-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.ChatMessageRepository())
	assert.NotNil(t, uow.SessionArtifactRepository())
	assert.NotNil(t, uow.MemoryItemRepository())
	assert.NotNil(t, uow.SessionNoteRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check ChatSession Repository", func(t *testing.T) {
		count, err := uow.ChatSessionRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("ChatSession count: %d", count)
	})

	t.Run("Check MemoryItem Repository", func(t *testing.T) {
		count, err := uow.MemoryItemRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("MemoryItem count: %d", count)
	})

	t.Run("Check Transactional Transcript Save", func(t *testing.T) {
		userId := uuid.New()
		sessionKey := "integration-" + uuid.New().String()

		ctx := context.Background()
		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		sessionId := uuid.New()
		session := &entity.ChatSession{
			Id:         sessionId,
			UserId:     userId,
			Kind:       "conversation",
			SessionKey: sessionKey,
			Title:      "Integration Test Session",
			StartedAt:  time.Now(),
		}

		err = uow.ChatSessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		messages := []*entity.ChatMessage{
			{
				Id:            uuid.New(),
				ChatSessionId: sessionId,
				Role:          "user",
				Content:       "Pray for my mom",
				Actions:       json.RawMessage(`[]`),
				Position:      0,
			},
			{
				Id:            uuid.New(),
				ChatSessionId: sessionId,
				Role:          "assistant",
				Content:       "I'm holding her in prayer with you.",
				Actions:       json.RawMessage(`[]`),
				Position:      1,
			},
		}

		err = uow.ChatMessageRepository().CreateBulk(ctx, messages)
		assert.NoError(t, err)

		found, err := uow.ChatSessionRepository().FindOne(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.BySessionKey{SessionKey: sessionKey},
		)
		assert.NoError(t, err)
		assert.Equal(t, "Integration Test Session", found.Title)

		err = uow.Commit()
		assert.NoError(t, err)

		// Cleanup
		assert.NoError(t, uow.ChatMessageRepository().DeleteByChatSessionId(ctx, sessionId))
		assert.NoError(t, uow.ChatSessionRepository().Delete(ctx, sessionId))

		t.Log("Successfully saved transcript in Transaction")
	})

	t.Run("Check SessionArtifact Uniqueness", func(t *testing.T) {
		userId := uuid.New()
		sessionKey := "artifact-" + uuid.New().String()
		ctx := context.Background()

		first := &entity.SessionArtifact{
			Id:         uuid.New(),
			UserId:     userId,
			SessionKey: sessionKey,
			Type:       entity.ArtifactTypeSessionSummary,
			Status:     entity.ArtifactStatusActive,
			Content:    map[string]interface{}{"summary": "first"},
		}
		err := uow.SessionArtifactRepository().Create(ctx, first)
		assert.NoError(t, err)

		second := &entity.SessionArtifact{
			Id:         uuid.New(),
			UserId:     userId,
			SessionKey: sessionKey,
			Type:       entity.ArtifactTypeSessionSummary,
			Status:     entity.ArtifactStatusActive,
			Content:    map[string]interface{}{"summary": "second"},
		}
		err = uow.SessionArtifactRepository().Create(ctx, second)
		assert.ErrorIs(t, err, contract.ErrArtifactExists)

		exists, err := uow.SessionArtifactRepository().ExistsActive(ctx, userId, sessionKey, entity.ArtifactTypeSessionSummary)
		assert.NoError(t, err)
		assert.True(t, exists)
	})
}
