package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-videochat-be/internal/adapter"
	"ai-videochat-be/internal/config"
	"ai-videochat-be/internal/controller"
	"ai-videochat-be/internal/handler"
	"ai-videochat-be/internal/pkg/logger"
	"ai-videochat-be/internal/repository/implementation"
	"ai-videochat-be/internal/repository/memory"
	"ai-videochat-be/internal/repository/unitofwork"
	"ai-videochat-be/internal/service"
	"ai-videochat-be/internal/websocket"
	"ai-videochat-be/pkg/embedding"
	"ai-videochat-be/pkg/embedding/jina"
	"ai-videochat-be/pkg/llm"
	"ai-videochat-be/pkg/llm/factory"
	pktNats "ai-videochat-be/pkg/nats"
	"ai-videochat-be/pkg/rag"
	"ai-videochat-be/pkg/rag/prompt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	VideoController        controller.IVideoController
	ChatController         controller.IChatController
	NotificationController controller.INotificationController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	WebSocketHandler *handler.WebSocketHandler
	WebSocketHub     *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	case "jina":
		embeddingProvider = jina.NewJinaProvider(cfg.Ai.JinaAPIKey)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	default:
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Pipeline log goes to its own rotating file so conversation turns can be
	// replayed without digging through the app log.
	pipelineLogger := log.New(&lumberjack.Logger{
		Filename:   cfg.App.PipelineLogPath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
	}, "[RAG] ", log.LstdFlags)

	llmClient := llm.NewClient(llmProvider, llm.NewLogUsageRecorder(pipelineLogger), pipelineLogger)

	// 4. Conversation engine
	chunkSearcher := adapter.NewChunkSearcher(implementation.NewTranscriptChunkRepository(db))
	videoCatalog := adapter.NewVideoCatalog(implementation.NewVideoRepository(db))

	engine := rag.NewEngine(rag.Dependencies{
		LLM:      llmClient,
		Renderer: prompt.NewRenderer(),
		Embedder: embeddingProvider,
		Searcher: chunkSearcher,
		Catalog:  videoCatalog,
		Logger:   pipelineLogger,
	}, rag.Config{
		TopK:            cfg.Rag.TopK,
		VideoTopK:       cfg.Rag.VideoTopK,
		AnswerThreshold: cfg.Rag.AnswerThreshold,
		ListThreshold:   cfg.Rag.ListThreshold,
		Retry: &rag.RetryPolicy{
			MaxAttempts: cfg.Rag.RetryMaxAttempts,
			BaseDelay:   time.Duration(cfg.Rag.RetryBaseDelayMs) * time.Millisecond,
			MaxDelay:    time.Duration(cfg.Rag.RetryMaxDelayMs) * time.Millisecond,
			Multiplier:  2,
			Jitter:      true,
		},
	})

	// In-memory conversation state
	sessionRepo := memory.NewSessionRepository()

	// 5. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 6. Services
	publisherService := service.NewPublisherService(cfg.App.IngestTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.IngestTopic,
		uowFactory,
		embeddingProvider,
		natsPub,
	)

	authService := service.NewAuthService(uowFactory, cfg.Auth, natsPub)
	videoService := service.NewVideoService(uowFactory, publisherService)
	chatService := service.NewChatService(uowFactory, engine, sessionRepo, videoService, sysLogger)

	notifService := service.NewNotificationService(uowFactory, natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	wsHandler := handler.NewWebSocketHandler(wsHub, wsLogger)

	// 7. Controllers
	return &Container{
		AuthController:         controller.NewAuthController(authService),
		VideoController:        controller.NewVideoController(videoService),
		ChatController:         controller.NewChatController(chatService),
		NotificationController: controller.NewNotificationController(notifService),

		ConsumerService: consumerService,

		WebSocketHandler: wsHandler,
		WebSocketHub:     wsHub,

		Logger: sysLogger,
	}
}
