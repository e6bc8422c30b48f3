// Package adapter bridges the persistence layer to the retrieval ports the
// conversation pipeline consumes.
package adapter

import (
	"context"
	"fmt"

	"ai-videochat-be/internal/entity"
	"ai-videochat-be/internal/repository/contract"
	"ai-videochat-be/internal/repository/specification"
	"ai-videochat-be/pkg/rag"
	"ai-videochat-be/pkg/search"

	"github.com/google/uuid"
)

type ChunkSearcher struct {
	chunks contract.TranscriptChunkRepository
}

func NewChunkSearcher(chunks contract.TranscriptChunkRepository) *ChunkSearcher {
	return &ChunkSearcher{chunks: chunks}
}

func (s *ChunkSearcher) SearchChunks(ctx context.Context, queryVector []float32, scope search.Scope, topK int) ([]search.ChunkHit, error) {
	userId, err := uuid.Parse(scope.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", scope.UserID, err)
	}

	scored, err := s.chunks.SearchSimilar(ctx, queryVector, topK, userId, scope.ChannelID)
	if err != nil {
		return nil, err
	}

	hits := make([]search.ChunkHit, len(scored))
	for i, sc := range scored {
		hits[i] = search.ChunkHit{
			ChunkID:    sc.Chunk.Id.String(),
			ChunkText:  sc.Chunk.ChunkText,
			ChunkIndex: sc.Chunk.ChunkIndex,
			VideoID:    sc.Chunk.VideoId.String(),
			VideoTitle: sc.Chunk.VideoTitle,
			Score:      sc.Similarity,
		}
	}
	return hits, nil
}

func (s *ChunkSearcher) SearchVideos(ctx context.Context, queryVector []float32, scope search.Scope, topK int) ([]search.VideoHit, error) {
	userId, err := uuid.Parse(scope.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", scope.UserID, err)
	}

	scored, err := s.chunks.SearchSimilarVideos(ctx, queryVector, topK, userId, scope.ChannelID)
	if err != nil {
		return nil, err
	}

	hits := make([]search.VideoHit, len(scored))
	for i, sv := range scored {
		hits[i] = search.VideoHit{
			VideoID:    sv.VideoId.String(),
			Title:      sv.VideoTitle,
			Score:      sv.Similarity,
			ChunkCount: sv.ChunkCount,
		}
	}
	return hits, nil
}

type VideoCatalog struct {
	videos contract.VideoRepository
}

func NewVideoCatalog(videos contract.VideoRepository) *VideoCatalog {
	return &VideoCatalog{videos: videos}
}

// ListVideos returns the user's ready videos, newest first. Videos still in
// the ingestion pipeline are excluded from the listing.
func (c *VideoCatalog) ListVideos(ctx context.Context, userID string) ([]rag.VideoInfo, error) {
	userId, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	videos, err := c.videos.FindAll(ctx,
		specification.ByUserId{UserId: userId},
		specification.ByStatus{Status: string(entity.VideoStatusReady)},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	infos := make([]rag.VideoInfo, len(videos))
	for i, v := range videos {
		infos[i] = rag.VideoInfo{
			VideoID:      v.Id.String(),
			YoutubeID:    v.YoutubeId,
			Title:        v.Title,
			ChannelTitle: v.ChannelTitle,
			Duration:     v.DurationSeconds,
			ChunkCount:   v.ChunkCount,
		}
	}
	return infos, nil
}
