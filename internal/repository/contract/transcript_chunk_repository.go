package contract

import (
	"context"

	"ai-videochat-be/internal/entity"
	"ai-videochat-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredChunk wraps a TranscriptChunk with its cosine similarity score.
type ScoredChunk struct {
	Chunk      *entity.TranscriptChunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

// ScoredVideo is a video-granularity aggregate over chunk similarity.
type ScoredVideo struct {
	VideoId    uuid.UUID
	VideoTitle string
	Similarity float64
	ChunkCount int
}

type TranscriptChunkRepository interface {
	Create(ctx context.Context, chunk *entity.TranscriptChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.TranscriptChunk) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByVideoId(ctx context.Context, videoId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TranscriptChunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TranscriptChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Advanced. An empty channelTitle searches the user's whole library.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, channelTitle string) ([]*ScoredChunk, error)
	// SearchSimilarVideos aggregates chunk similarity per video, best chunk wins.
	SearchSimilarVideos(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, channelTitle string) ([]*ScoredVideo, error)
}
