package mapper

import (
	"time"

	"ai-videochat-be/internal/entity"
	"ai-videochat-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type TranscriptChunkMapper struct{}

func NewTranscriptChunkMapper() *TranscriptChunkMapper {
	return &TranscriptChunkMapper{}
}

func (m *TranscriptChunkMapper) ToEntity(c *model.TranscriptChunk) *entity.TranscriptChunk {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.TranscriptChunk{
		Id:         c.Id,
		UserId:     c.UserId,
		VideoId:    c.VideoId,
		VideoTitle: c.VideoTitle,
		ChunkText:  c.ChunkText,
		ChunkIndex: c.ChunkIndex,
		Embedding:  c.Embedding.Slice(),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  c.DeletedAt.Valid,
	}
}

func (m *TranscriptChunkMapper) ToModel(c *entity.TranscriptChunk) *model.TranscriptChunk {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.TranscriptChunk{
		Id:         c.Id,
		UserId:     c.UserId,
		VideoId:    c.VideoId,
		VideoTitle: c.VideoTitle,
		ChunkText:  c.ChunkText,
		ChunkIndex: c.ChunkIndex,
		Embedding:  pgvector.NewVector(c.Embedding),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *TranscriptChunkMapper) ToEntities(chunks []*model.TranscriptChunk) []*entity.TranscriptChunk {
	entities := make([]*entity.TranscriptChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *TranscriptChunkMapper) ToModels(chunks []*entity.TranscriptChunk) []*model.TranscriptChunk {
	models := make([]*model.TranscriptChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
