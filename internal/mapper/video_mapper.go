package mapper

import (
	"time"

	"ai-videochat-be/internal/entity"
	"ai-videochat-be/internal/model"

	"gorm.io/gorm"
)

type VideoMapper struct{}

func NewVideoMapper() *VideoMapper {
	return &VideoMapper{}
}

func (m *VideoMapper) ToEntity(v *model.Video) *entity.Video {
	if v == nil {
		return nil
	}

	var deletedAt *time.Time
	if v.DeletedAt.Valid {
		t := v.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !v.UpdatedAt.IsZero() {
		t := v.UpdatedAt
		updatedAt = &t
	}

	return &entity.Video{
		Id:              v.Id,
		UserId:          v.UserId,
		YoutubeId:       v.YoutubeId,
		Title:           v.Title,
		ChannelTitle:    v.ChannelTitle,
		DurationSeconds: v.DurationSeconds,
		Transcript:      v.Transcript,
		Status:          entity.VideoStatus(v.Status),
		ChunkCount:      v.ChunkCount,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
		IsDeleted:       v.DeletedAt.Valid,
	}
}

func (m *VideoMapper) ToModel(v *entity.Video) *model.Video {
	if v == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if v.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *v.DeletedAt, Valid: true}
	} else if v.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if v.UpdatedAt != nil {
		updatedAt = *v.UpdatedAt
	}

	return &model.Video{
		Id:              v.Id,
		UserId:          v.UserId,
		YoutubeId:       v.YoutubeId,
		Title:           v.Title,
		ChannelTitle:    v.ChannelTitle,
		DurationSeconds: v.DurationSeconds,
		Transcript:      v.Transcript,
		Status:          string(v.Status),
		ChunkCount:      v.ChunkCount,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
	}
}

func (m *VideoMapper) ToEntities(videos []*model.Video) []*entity.Video {
	entities := make([]*entity.Video, len(videos))
	for i, v := range videos {
		entities[i] = m.ToEntity(v)
	}
	return entities
}

func (m *VideoMapper) ToModels(videos []*entity.Video) []*model.Video {
	models := make([]*model.Video, len(videos))
	for i, v := range videos {
		models[i] = m.ToModel(v)
	}
	return models
}
