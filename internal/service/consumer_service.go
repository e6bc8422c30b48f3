package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-videochat-be/internal/dto"
	"ai-videochat-be/internal/entity"
	"ai-videochat-be/internal/repository/specification"
	"ai-videochat-be/internal/repository/unitofwork"
	"ai-videochat-be/pkg/embedding"
	"ai-videochat-be/pkg/events"
	pktNats "ai-videochat-be/pkg/nats"
	"ai-videochat-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Chunking geometry for transcripts. 1500 chars is roughly 375 tokens, safe
// for the embedding model's context; 200 chars of overlap keeps sentences
// that straddle a boundary retrievable from both sides.
const (
	chunkSize    = 1500
	chunkOverlap = 200
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestVideoMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // malformed, retrying will not help
		return
	}

	log.Printf("[INFO] Processing transcript for VideoId: %s", payload.VideoId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	video, err := uow.VideoRepository().FindOne(ctx, specification.ByID{ID: payload.VideoId})
	if err != nil {
		log.Printf("[ERROR] Failed to get video %s: %v", payload.VideoId, err)
		msg.Nack()
		return
	}
	if video == nil {
		log.Printf("[ERROR] Video not found: %s", payload.VideoId)
		msg.Ack() // deleted before the worker got to it
		return
	}

	if err := uow.VideoRepository().UpdateStatus(ctx, video.Id, entity.VideoStatusProcessing); err != nil {
		log.Printf("[ERROR] Failed to mark video %s processing: %v", video.Id, err)
		msg.Nack()
		return
	}

	chunks := utils.SplitText(video.Transcript, chunkSize, chunkOverlap)
	log.Printf("[INFO] Transcript split into %d chunks", len(chunks))

	vectors, err := cs.embeddingProvider.Embed(ctx, chunks, embedding.TaskRetrievalDocument)
	if err != nil {
		log.Printf("[ERROR] Failed to embed chunks for video %s: %v", video.Id, err)
		cs.failVideo(ctx, uow, video, "embedding failed")
		msg.Nack()
		return
	}
	if len(vectors) != len(chunks) {
		log.Printf("[ERROR] Embedding count mismatch for video %s: %d chunks, %d vectors", video.Id, len(chunks), len(vectors))
		cs.failVideo(ctx, uow, video, "embedding count mismatch")
		msg.Ack()
		return
	}

	newChunks := make([]*entity.TranscriptChunk, len(chunks))
	for i, chunk := range chunks {
		newChunks[i] = &entity.TranscriptChunk{
			Id:         uuid.New(),
			UserId:     video.UserId,
			VideoId:    video.Id,
			VideoTitle: video.Title,
			ChunkText:  chunk,
			ChunkIndex: i,
			Embedding:  vectors[i],
			CreatedAt:  time.Now(),
		}
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	// Re-ingestion replaces the previous chunk set wholesale.
	if err := uow.TranscriptChunkRepository().DeleteByVideoId(ctx, video.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old chunks: %v", err)
		msg.Nack()
		return
	}

	if err := uow.TranscriptChunkRepository().CreateBulk(ctx, newChunks); err != nil {
		log.Printf("[ERROR] Failed to create chunks: %v", err)
		msg.Nack()
		return
	}

	if err := uow.VideoRepository().UpdateStatus(ctx, video.Id, entity.VideoStatusReady); err != nil {
		log.Printf("[ERROR] Failed to mark video ready: %v", err)
		msg.Nack()
		return
	}
	if err := uow.VideoRepository().UpdateChunkCount(ctx, video.Id, len(newChunks)); err != nil {
		log.Printf("[ERROR] Failed to update chunk count: %v", err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	if cs.eventPublisher != nil {
		evt := events.NewVideoIngested(video.Id.String(), video.UserId.String(), video.Title, len(newChunks))
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish VIDEO_INGESTED event: %v", err)
		}
	}

	log.Printf("[SUCCESS] Video processed: %d chunks for VideoId: %s", len(newChunks), video.Id)
	msg.Ack()
}

func (cs *consumerService) failVideo(ctx context.Context, uow unitofwork.UnitOfWork, video *entity.Video, reason string) {
	if err := uow.VideoRepository().UpdateStatus(ctx, video.Id, entity.VideoStatusFailed); err != nil {
		log.Printf("[ERROR] Failed to mark video %s failed: %v", video.Id, err)
	}
	if cs.eventPublisher != nil {
		evt := events.NewVideoIngestFailed(video.Id.String(), video.UserId.String(), reason)
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish VIDEO_INGEST_FAILED event: %v", err)
		}
	}
}
