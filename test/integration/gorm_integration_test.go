package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"support-chat-be/internal/constant"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"
	"support-chat-be/pkg/database"

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
	assert.NotNil(t, uow.ContextRuleRepository())
	assert.NotNil(t, uow.WidgetRepository())
	assert.NotNil(t, uow.KnowledgeDocumentRepository())
	assert.NotNil(t, uow.InteractionLogRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Session Repository", func(t *testing.T) {
		count, err := uow.ChatSessionRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Chat session count: %d", count)
	})

	t.Run("Transactional Two-Row Message Write", func(t *testing.T) {
		ctx := context.Background()
		now := time.Now()

		session := &entity.ChatSession{
			Id:             uuid.New(),
			CreatedAt:      now,
			LastActivityAt: now,
		}
		err := uow.ChatSessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		userMessage := &entity.ChatMessage{
			Id:            uuid.New(),
			ChatSessionId: session.Id,
			Content:       "Where is my order?",
			Role:          constant.ChatMessageRoleUser,
			CreatedAt:     now,
		}
		assistantMessage := &entity.ChatMessage{
			Id:            uuid.New(),
			ChatSessionId: session.Id,
			Content:       "Let me check that for you.",
			Role:          constant.ChatMessageRoleAssistant,
			CreatedAt:     now,
		}

		err = uow.ChatMessageRepository().Create(ctx, userMessage)
		assert.NoError(t, err)
		err = uow.ChatMessageRepository().Create(ctx, assistantMessage)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		// Both rows must land, ordered user first by seq.
		rows, err := uow.ChatMessageRepository().FindAll(ctx,
			specification.ByChatSessionID{ChatSessionID: session.Id},
			specification.OrderBy{Field: "seq", Desc: false},
		)
		assert.NoError(t, err)
		assert.Len(t, rows, 2)
		if len(rows) == 2 {
			assert.Equal(t, constant.ChatMessageRoleUser, rows[0].Role)
			assert.Equal(t, constant.ChatMessageRoleAssistant, rows[1].Role)
			assert.Less(t, rows[0].Seq, rows[1].Seq)
		}

		t.Log("Successfully wrote a chat turn in one transaction")
	})

	t.Run("Context Rule Round Trip", func(t *testing.T) {
		ctx := context.Background()

		rule := &entity.ContextRule{
			Id:             uuid.New(),
			Name:           "integration-rule-" + uuid.New().String(),
			IsActive:       true,
			ExcludedTopics: []string{"pricing"},
			ResponseFilters: []entity.ResponseFilter{
				{Type: constant.FilterTypeAppend, Value: "Anything else?"},
			},
			Version:   1,
			CreatedAt: time.Now(),
		}

		err := uow.ContextRuleRepository().Create(ctx, rule)
		assert.NoError(t, err)

		loaded, err := uow.ContextRuleRepository().FindOne(ctx,
			specification.ByID{ID: rule.Id},
			specification.ActiveOnly{},
		)
		assert.NoError(t, err)
		if assert.NotNil(t, loaded) {
			assert.Equal(t, rule.ExcludedTopics, loaded.ExcludedTopics)
			assert.Len(t, loaded.ResponseFilters, 1)
		}
	})
}
