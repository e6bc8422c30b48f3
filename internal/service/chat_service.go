package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-videochat-be/internal/dto"
	"ai-videochat-be/internal/entity"
	"ai-videochat-be/internal/pkg/logger"
	"ai-videochat-be/internal/repository/memory"
	"ai-videochat-be/internal/repository/specification"
	"ai-videochat-be/internal/repository/unitofwork"
	"ai-videochat-be/pkg/llm"
	"ai-videochat-be/pkg/rag"
	"ai-videochat-be/pkg/store"

	"github.com/google/uuid"
)

// historyWindow bounds how many stored messages are replayed into the
// pipeline per turn.
const historyWindow = 10

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
	SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
}

type chatService struct {
	uowFactory  unitofwork.RepositoryFactory
	engine      *rag.Engine
	sessions    *memory.SessionRepository
	videoLoader IVideoLoadHandler
	logger      logger.ILogger
}

// IVideoLoadHandler resolves a VIDEO_LOAD_REQUEST into a user-facing reply,
// typically by confirming the video exists in the user's library.
type IVideoLoadHandler interface {
	HandleVideoLoad(ctx context.Context, userId uuid.UUID, youtubeId string) (string, error)
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	engine *rag.Engine,
	sessions *memory.SessionRepository,
	videoLoader IVideoLoadHandler,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:  uowFactory,
		engine:      engine,
		sessions:    sessions,
		videoLoader: videoLoader,
		logger:      log,
	}
}

func (s *chatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	title := req.Title
	if title == "" {
		title = "New conversation"
	}

	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		CreatedAt: time.Now(),
	}

	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

func (s *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx, specification.ByUserId{UserId: userId})
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.GetAllSessionsResponse, len(sessions))
	for i, sess := range sessions {
		responses[i] = &dto.GetAllSessionsResponse{
			Id:        sess.Id,
			Title:     sess.Title,
			CreatedAt: sess.CreatedAt,
			UpdatedAt: sess.UpdatedAt,
		}
	}
	return responses, nil
}

func (s *chatService) GetHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.ownedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx, specification.ByChatSessionId{ChatSessionId: session.Id})
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.GetChatHistoryResponse, len(messages))
	for i, msg := range messages {
		responses[i] = &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			Metadata:  msg.Metadata,
			CreatedAt: msg.CreatedAt,
		}
	}
	return responses, nil
}

func (s *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.ownedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.sessions.Delete(session.Id.String())
	return nil
}

// SendChat runs one conversation turn through the pipeline and persists both
// sides of the exchange.
func (s *chatService) SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.ownedSession(ctx, uow, userId, req.ChatSessionId)
	if err != nil {
		return nil, err
	}

	history, err := s.loadHistory(ctx, uow, session.Id)
	if err != nil {
		return nil, err
	}

	var runConfig *rag.RunConfig
	if req.Model != "" || req.Channel != "" {
		runConfig = &rag.RunConfig{Model: req.Model, ChannelID: req.Channel}
	}

	state, err := s.engine.Run(ctx, req.Message, userId.String(), history, runConfig)
	if err != nil {
		s.logger.Error("ChatService", "pipeline run failed", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to generate a reply: %w", err)
	}

	reply := state.Response
	metadata := map[string]interface{}(state.Metadata)

	// VIDEO_LOAD_REQUEST is a directive for the backend, not a reply. Resolve
	// it here so the user sees a confirmation instead of the raw marker.
	if videoId, ok := metadata["video_id"].(string); ok && metadata["requires_external_handling"] == true && s.videoLoader != nil {
		resolved, loadErr := s.videoLoader.HandleVideoLoad(ctx, userId, videoId)
		if loadErr != nil {
			s.logger.Warn("ChatService", "video load handling failed", map[string]interface{}{
				"youtube_id": videoId,
				"error":      loadErr.Error(),
			})
		} else {
			reply = resolved
		}
	}

	sent := &entity.ChatMessage{
		Id:            uuid.New(),
		Content:       req.Message,
		Role:          "user",
		ChatSessionId: session.Id,
		CreatedAt:     time.Now(),
	}
	replyMsg := &entity.ChatMessage{
		Id:            uuid.New(),
		Content:       reply,
		Role:          "assistant",
		Metadata:      metadata,
		ChatSessionId: session.Id,
		CreatedAt:     time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, sent); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, replyMsg); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.rememberTurn(session, userId, req.Message, state)

	return &dto.SendChatResponse{
		ChatSessionId:    session.Id,
		ChatSessionTitle: session.Title,
		Sent: &dto.SendChatResponseChat{
			Id:        sent.Id,
			Content:   sent.Content,
			Role:      sent.Role,
			CreatedAt: sent.CreatedAt,
		},
		Reply: &dto.SendChatResponseChat{
			Id:        replyMsg.Id,
			Content:   replyMsg.Content,
			Role:      replyMsg.Role,
			Metadata:  replyMsg.Metadata,
			CreatedAt: replyMsg.CreatedAt,
		},
		Intent: string(state.Intent),
	}, nil
}

func (s *chatService) ownedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.New("chat session not found")
	}
	return session, nil
}

func (s *chatService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) ([]llm.Message, error) {
	messages, err := uow.ChatMessageRepository().FindAll(ctx, specification.ByChatSessionId{ChatSessionId: sessionId})
	if err != nil {
		return nil, err
	}

	if len(messages) > historyWindow {
		messages = messages[len(messages)-historyWindow:]
	}

	history := make([]llm.Message, len(messages))
	for i, msg := range messages {
		history[i] = llm.Message{Role: msg.Role, Content: msg.Content}
	}
	return history, nil
}

// rememberTurn keeps lightweight conversation state in memory so follow-up
// turns can see what the user was last doing without a DB read.
func (s *chatService) rememberTurn(session *entity.ChatSession, userId uuid.UUID, query string, state *rag.GraphState) {
	memSession, found := s.sessions.Get(session.Id.String())
	if !found {
		memSession = &store.Session{
			ID:     session.Id.String(),
			UserID: userId.String(),
		}
	}
	memSession.LastIntent = string(state.Intent)
	memSession.LastQuery = query
	if videoId, ok := state.Metadata["video_id"].(string); ok {
		memSession.ActiveVideoID = videoId
	}
	s.sessions.Save(memSession)
}
