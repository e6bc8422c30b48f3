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
	"gorm.io/gorm"
)

type VideoRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VideoMapper
}

func NewVideoRepository(db *gorm.DB) contract.VideoRepository {
	return &VideoRepositoryImpl{
		db:     db,
		mapper: mapper.NewVideoMapper(),
	}
}

func (r *VideoRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *VideoRepositoryImpl) Create(ctx context.Context, video *entity.Video) error {
	m := r.mapper.ToModel(video)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*video = *r.mapper.ToEntity(m)
	return nil
}

func (r *VideoRepositoryImpl) Update(ctx context.Context, video *entity.Video) error {
	m := r.mapper.ToModel(video)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*video = *r.mapper.ToEntity(m)
	return nil
}

func (r *VideoRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Video{}, id).Error
}

func (r *VideoRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Video, error) {
	var m model.Video
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *VideoRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Video, error) {
	var models []*model.Video
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *VideoRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Video{}).Count(&count).Error
	return count, err
}

func (r *VideoRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.VideoStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Video{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

func (r *VideoRepositoryImpl) UpdateChunkCount(ctx context.Context, id uuid.UUID, chunkCount int) error {
	return r.db.WithContext(ctx).
		Model(&model.Video{}).
		Where("id = ?", id).
		Update("chunk_count", chunkCount).Error
}
