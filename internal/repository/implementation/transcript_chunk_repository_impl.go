package implementation

import (
	"context"
	"errors"

	"ai-videochat-be/internal/entity"
	"ai-videochat-be/internal/mapper"
	"ai-videochat-be/internal/model"
	"ai-videochat-be/internal/repository/contract"
	"ai-videochat-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type TranscriptChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TranscriptChunkMapper
}

func NewTranscriptChunkRepository(db *gorm.DB) contract.TranscriptChunkRepository {
	return &TranscriptChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewTranscriptChunkMapper(),
	}
}

func (r *TranscriptChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TranscriptChunkRepositoryImpl) Create(ctx context.Context, chunk *entity.TranscriptChunk) error {
	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *TranscriptChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.TranscriptChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := r.mapper.ToModels(chunks)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *TranscriptChunkRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TranscriptChunk{}, id).Error
}

func (r *TranscriptChunkRepositoryImpl) DeleteByVideoId(ctx context.Context, videoId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("video_id = ?", videoId).Delete(&model.TranscriptChunk{}).Error
}

func (r *TranscriptChunkRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TranscriptChunk, error) {
	var m model.TranscriptChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TranscriptChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TranscriptChunk, error) {
	var models []*model.TranscriptChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TranscriptChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.TranscriptChunk{}).Count(&count).Error
	return count, err
}

// SearchSimilar returns the closest chunks for a query vector, scoped to one
// user. Cosine distance in pgvector is 1 - cosine_similarity, so the projected
// similarity is 1 - (embedding <=> query_vector).
func (r *TranscriptChunkRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, channelTitle string) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.TranscriptChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	// Join videos to keep hits from soft-deleted videos out of the answer path.
	query := r.db.WithContext(ctx).
		Table("transcript_chunks").
		Select("transcript_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Joins("JOIN videos ON videos.id = transcript_chunks.video_id").
		Where("transcript_chunks.user_id = ?", userId).
		Where("transcript_chunks.deleted_at IS NULL").
		Where("videos.deleted_at IS NULL")
	if channelTitle != "" {
		query = query.Where("videos.channel_title = ?", channelTitle)
	}
	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredChunk{
			Chunk:      r.mapper.ToEntity(&res.TranscriptChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

// SearchSimilarVideos collapses chunk hits to video granularity. Each video's
// score is its best chunk's similarity.
func (r *TranscriptChunkRepositoryImpl) SearchSimilarVideos(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, channelTitle string) ([]*contract.ScoredVideo, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		VideoId    uuid.UUID
		VideoTitle string
		Similarity float64
		ChunkCount int
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("transcript_chunks").
		Select("transcript_chunks.video_id, MAX(transcript_chunks.video_title) as video_title, MAX(1 - (embedding <=> ?)) as similarity, COUNT(*) as chunk_count", queryVector).
		Joins("JOIN videos ON videos.id = transcript_chunks.video_id").
		Where("transcript_chunks.user_id = ?", userId).
		Where("transcript_chunks.deleted_at IS NULL").
		Where("videos.deleted_at IS NULL")
	if channelTitle != "" {
		query = query.Where("videos.channel_title = ?", channelTitle)
	}
	err := query.
		Group("transcript_chunks.video_id").
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredVideo, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredVideo{
			VideoId:    res.VideoId,
			VideoTitle: res.VideoTitle,
			Similarity: res.Similarity,
			ChunkCount: res.ChunkCount,
		}
	}
	return scored, nil
}
