package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-videochat-be/internal/dto"
	"ai-videochat-be/internal/entity"
	"ai-videochat-be/internal/repository/specification"
	"ai-videochat-be/internal/repository/unitofwork"
	"ai-videochat-be/pkg/rag"

	"github.com/google/uuid"
)

type IVideoService interface {
	Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitVideoRequest) (*dto.VideoResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.VideoResponse, error)
	Get(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.VideoResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	HandleVideoLoad(ctx context.Context, userId uuid.UUID, youtubeId string) (string, error)
}

type videoService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
}

func NewVideoService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService) IVideoService {
	return &videoService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
	}
}

func toVideoResponse(v *entity.Video) *dto.VideoResponse {
	return &dto.VideoResponse{
		Id:              v.Id,
		YoutubeId:       v.YoutubeId,
		Title:           v.Title,
		ChannelTitle:    v.ChannelTitle,
		DurationSeconds: v.DurationSeconds,
		Status:          string(v.Status),
		ChunkCount:      v.ChunkCount,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

// Submit registers a video and queues its transcript for chunking and
// embedding. The response carries status "pending"; the consumer flips it to
// "ready" once the chunks land.
func (s *videoService) Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitVideoRequest) (*dto.VideoResponse, error) {
	youtubeId, ok := rag.ExtractVideoID(req.YoutubeUrl)
	if !ok {
		return nil, errors.New("could not find a youtube video id in the url")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.VideoRepository().FindOne(ctx,
		specification.ByUserId{UserId: userId},
		specification.ByYoutubeId{YoutubeId: youtubeId},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("video %s is already in your library", youtubeId)
	}

	video := &entity.Video{
		Id:              uuid.New(),
		UserId:          userId,
		YoutubeId:       youtubeId,
		Title:           req.Title,
		ChannelTitle:    req.ChannelTitle,
		DurationSeconds: req.DurationSeconds,
		Transcript:      req.Transcript,
		Status:          entity.VideoStatusPending,
		CreatedAt:       time.Now(),
	}

	if err := uow.VideoRepository().Create(ctx, video); err != nil {
		return nil, err
	}

	msgPayload := dto.PublishIngestVideoMessage{VideoId: video.Id}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, fmt.Errorf("failed to queue video for ingestion: %w", err)
	}

	return toVideoResponse(video), nil
}

func (s *videoService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.VideoResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	videos, err := uow.VideoRepository().FindAll(ctx,
		specification.ByUserId{UserId: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.VideoResponse, len(videos))
	for i, v := range videos {
		responses[i] = toVideoResponse(v)
	}
	return responses, nil
}

func (s *videoService) Get(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.VideoResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	video, err := uow.VideoRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, errors.New("video not found")
	}
	return toVideoResponse(video), nil
}

// Delete removes the video and its chunks in one transaction so retrieval
// never sees orphans.
func (s *videoService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	video, err := uow.VideoRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return err
	}
	if video == nil {
		return errors.New("video not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.TranscriptChunkRepository().DeleteByVideoId(ctx, video.Id); err != nil {
		return err
	}
	if err := uow.VideoRepository().Delete(ctx, video.Id); err != nil {
		return err
	}

	return uow.Commit()
}

// HandleVideoLoad turns a load directive from the conversation pipeline into
// a user-facing confirmation, checking the library first.
func (s *videoService) HandleVideoLoad(ctx context.Context, userId uuid.UUID, youtubeId string) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	video, err := uow.VideoRepository().FindOne(ctx,
		specification.ByUserId{UserId: userId},
		specification.ByYoutubeId{YoutubeId: youtubeId},
	)
	if err != nil {
		return "", err
	}
	if video == nil {
		return fmt.Sprintf("I don't have that video in your library yet. Submit it first (youtube id: %s) and I'll ingest the transcript.", youtubeId), nil
	}

	switch video.Status {
	case entity.VideoStatusReady:
		return fmt.Sprintf("Loaded \"%s\". Ask me anything about it.", video.Title), nil
	case entity.VideoStatusFailed:
		return fmt.Sprintf("\"%s\" is in your library but its transcript failed to ingest. Try resubmitting it.", video.Title), nil
	default:
		return fmt.Sprintf("\"%s\" is still being processed. Give it a moment and try again.", video.Title), nil
	}
}
