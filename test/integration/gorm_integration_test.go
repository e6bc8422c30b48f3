package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-videochat-be/internal/entity"
	"ai-videochat-be/internal/repository/specification"
	"ai-videochat-be/internal/repository/unitofwork"
	"ai-videochat-be/pkg/database"

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

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.VideoRepository())
	assert.NotNil(t, uow.TranscriptChunkRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Transcript Chunk Repository", func(t *testing.T) {
		count, err := uow.TranscriptChunkRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("TranscriptChunk count: %d", count)
	})

	t.Run("Check Transactional Video Ingestion", func(t *testing.T) {
		ctx := context.Background()

		userId := uuid.New()
		user := &entity.User{
			Id:       userId,
			Email:    "test-integration-" + uuid.New().String() + "@example.com",
			FullName: "Integration Test User",
		}
		err := uow.UserRepository().Create(ctx, user)
		assert.NoError(t, err)

		videoId := uuid.New()
		video := &entity.Video{
			Id:           videoId,
			UserId:       userId,
			YoutubeId:    "dQw4w9WgXcQ",
			Title:        "Integration Test Video",
			ChannelTitle: "Integration Channel",
			Status:       entity.VideoStatusPending,
		}
		err = uow.VideoRepository().Create(ctx, video)
		assert.NoError(t, err)

		// Transaction Test: chunks land together with the status flip
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		embedding := make([]float32, 768)
		embedding[0] = 1.0
		chunks := []*entity.TranscriptChunk{
			{
				Id:         uuid.New(),
				UserId:     userId,
				VideoId:    videoId,
				VideoTitle: video.Title,
				ChunkText:  "Never gonna give you up",
				ChunkIndex: 0,
				Embedding:  embedding,
			},
		}

		err = uow.TranscriptChunkRepository().CreateBulk(ctx, chunks)
		assert.NoError(t, err)

		err = uow.VideoRepository().UpdateStatus(ctx, videoId, entity.VideoStatusReady)
		assert.NoError(t, err)

		err = uow.VideoRepository().UpdateChunkCount(ctx, videoId, len(chunks))
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		// Chunk-level similarity: seeded vector must come back first
		scored, err := uow.TranscriptChunkRepository().SearchSimilar(ctx, embedding, 5, userId, "")
		assert.NoError(t, err)
		if assert.NotEmpty(t, scored) {
			assert.Equal(t, videoId, scored[0].Chunk.VideoId)
			assert.InDelta(t, 1.0, scored[0].Similarity, 0.001)
		}

		// Video-level aggregation
		videos, err := uow.TranscriptChunkRepository().SearchSimilarVideos(ctx, embedding, 5, userId, "")
		assert.NoError(t, err)
		if assert.NotEmpty(t, videos) {
			assert.Equal(t, videoId, videos[0].VideoId)
			assert.Equal(t, 1, videos[0].ChunkCount)
		}

		// Channel scoping narrows both searches
		scoped, err := uow.TranscriptChunkRepository().SearchSimilar(ctx, embedding, 5, userId, "Integration Channel")
		assert.NoError(t, err)
		assert.NotEmpty(t, scoped)

		none, err := uow.TranscriptChunkRepository().SearchSimilar(ctx, embedding, 5, userId, "Some Other Channel")
		assert.NoError(t, err)
		assert.Empty(t, none)

		noneVideos, err := uow.TranscriptChunkRepository().SearchSimilarVideos(ctx, embedding, 5, userId, "Some Other Channel")
		assert.NoError(t, err)
		assert.Empty(t, noneVideos)

		// Deleting the video must hide its chunks from retrieval
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		err = uow.TranscriptChunkRepository().DeleteByVideoId(ctx, videoId)
		assert.NoError(t, err)
		err = uow.VideoRepository().Delete(ctx, videoId)
		assert.NoError(t, err)
		err = uow.Commit()
		assert.NoError(t, err)

		remaining, err := uow.TranscriptChunkRepository().Count(ctx, specification.ByVideoId{VideoId: videoId})
		assert.NoError(t, err)
		assert.Zero(t, remaining)

		t.Log("Successfully ingested and retired a video with chunks in transactions")
	})
}
