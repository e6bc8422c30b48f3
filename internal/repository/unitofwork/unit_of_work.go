package unitofwork

import (
	"context"

	"ai-videochat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	VideoRepository() contract.VideoRepository
	TranscriptChunkRepository() contract.TranscriptChunkRepository

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	NotificationRepository() contract.NotificationRepository
}
