package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/visheshc14/career-counselor-chat/internal/constant"
	"github.com/visheshc14/career-counselor-chat/internal/entity"
	"github.com/visheshc14/career-counselor-chat/internal/repository/specification"
	"github.com/visheshc14/career-counselor-chat/internal/repository/unitofwork"
	"github.com/visheshc14/career-counselor-chat/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.MessageRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Session And Message Round Trip", func(t *testing.T) {
		ctx := context.Background()
		actorId := "it-" + uuid.NewString()

		session := &entity.ChatSession{
			Id:        uuid.New(),
			UserId:    actorId,
			Title:     "Integration Session",
			CreatedAt: time.Now(),
		}
		require.NoError(t, uow.ChatSessionRepository().Create(ctx, session))

		msg := &entity.Message{
			Id:        uuid.New(),
			SessionId: session.Id,
			Role:      constant.ChatMessageRoleUser,
			Content:   "integration hello",
			CreatedAt: time.Now(),
		}
		require.NoError(t, uow.MessageRepository().Create(ctx, msg))

		found, err := uow.ChatSessionRepository().FindOne(ctx,
			specification.ByID{ID: session.Id},
			specification.OwnedBy{ActorID: actorId},
		)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, session.Title, found.Title)

		// Ownership predicate must hide the session from another actor.
		foreign, err := uow.ChatSessionRepository().FindOne(ctx,
			specification.ByID{ID: session.Id},
			specification.OwnedBy{ActorID: "someone-else"},
		)
		require.NoError(t, err)
		assert.Nil(t, foreign)

		history, err := uow.MessageRepository().FindAll(ctx,
			specification.BySessionID{SessionID: session.Id},
			specification.OrderBy{Field: "created_at", Desc: false},
		)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "integration hello", history[0].Content)

		// Cleanup, children first.
		require.NoError(t, uow.MessageRepository().DeleteBySessionIDs(ctx, []uuid.UUID{session.Id}))
		require.NoError(t, uow.ChatSessionRepository().DeleteByIDs(ctx, []uuid.UUID{session.Id}))
	})

	t.Run("Transactional Wipe", func(t *testing.T) {
		ctx := context.Background()
		txUow := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, txUow.Begin(ctx))
		defer txUow.Rollback()

		session := &entity.ChatSession{
			Id:        uuid.New(),
			UserId:    "it-tx-" + uuid.NewString(),
			Title:     "Tx Session",
			CreatedAt: time.Now(),
		}
		require.NoError(t, txUow.ChatSessionRepository().Create(ctx, session))
		require.NoError(t, txUow.MessageRepository().DeleteBySessionIDs(ctx, []uuid.UUID{session.Id}))
		require.NoError(t, txUow.ChatSessionRepository().DeleteByIDs(ctx, []uuid.UUID{session.Id}))

		require.NoError(t, txUow.Commit())
	})
}
