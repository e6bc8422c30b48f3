package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-videochat-be/internal/dto"
	"ai-videochat-be/internal/entity"
	"ai-videochat-be/internal/pkg/logger"
	"ai-videochat-be/internal/repository/specification"
	"ai-videochat-be/internal/repository/unitofwork"
	"ai-videochat-be/pkg/events"
	pktNats "ai-videochat-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification *entity.Notification)
}

type INotificationService interface {
	Start()
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.NotificationResponse, error)
	MarkRead(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userId uuid.UUID) error
}

type notificationService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	sub *pktNats.Subscriber,
	delivery NotificationDelivery,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		uowFactory: uowFactory,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *notificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *notificationService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	// The NATS subject includes the stream prefix.
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	var title, message string
	switch typeCode {
	case events.TypeVideoIngested:
		title = "Video ready"
		message = fmt.Sprintf("\"%v\" has been processed (%v chunks). You can chat about it now.", payload["title"], payload["chunk_count"])
	case events.TypeVideoIngestFailed:
		title = "Video processing failed"
		message = fmt.Sprintf("A video could not be processed: %v", payload["reason"])
	default:
		// Nothing to surface for this event type.
		return nil
	}

	userIdStr, _ := payload["user_id"].(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		s.logger.Warn("NotificationService", "Event without a valid user_id", map[string]interface{}{
			"type": event.EventType(),
		})
		return nil
	}

	notification := &entity.Notification{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		Message:   message,
		Metadata:  payload,
		CreatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().Create(ctx, notification); err != nil {
		s.logger.Error("NotificationService", "Failed to persist notification", map[string]interface{}{"error": err.Error()})
		return err
	}

	if s.delivery != nil {
		s.delivery.Send(userId, notification)
	}
	return nil
}

func (s *notificationService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.NotificationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notifications, err := uow.NotificationRepository().FindAll(ctx,
		specification.ByUserId{UserId: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = &dto.NotificationResponse{
			Id:        n.Id,
			Title:     n.Title,
			Message:   n.Message,
			Metadata:  n.Metadata,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
	}
	return responses, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notification, err := uow.NotificationRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return err
	}
	if notification == nil {
		return fmt.Errorf("notification not found")
	}
	return uow.NotificationRepository().MarkRead(ctx, id)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkAllRead(ctx, userId)
}
