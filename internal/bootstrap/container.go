package bootstrap

import (
	"context"
	"log"

	"support-rag-be/internal/config"
	"support-rag-be/internal/controller"
	"support-rag-be/internal/pkg/logger"
	"support-rag-be/internal/repository/memory"
	"support-rag-be/internal/repository/unitofwork"
	"support-rag-be/internal/service"
	"support-rag-be/internal/websocket"
	"support-rag-be/pkg/embedding"
	"support-rag-be/pkg/llm/factory"
	"support-rag-be/pkg/retrieval"
	"support-rag-be/pkg/workflow"

	pktNats "support-rag-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	IngestService   service.IIngestService

	// WebSockets
	WebSocketHub     *websocket.Hub
	AssistantService service.IAssistantService
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

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-Memory Conversation Storage
	conversationRepo := memory.NewConversationRepository()

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
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
		rdb = nil
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/chat.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Retrieval
	handle := retrieval.NewHandle()
	pgRetriever := retrieval.NewPgVectorRetriever(uowFactory, embeddingProvider, 0.0)

	// 5. Workflow
	classifier := workflow.NewLLMClassifier(llmProvider, cfg.Ai.Temperature)
	composer := workflow.NewRAGComposer(handle, llmProvider, cfg.Ai.RetrievalTopK, cfg.Ai.Temperature)
	wf := workflow.New(classifier, composer)

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.IngestTopic)
	ingestService := service.NewIngestService(
		uowFactory,
		embeddingProvider,
		publisherService,
		natsPub,
		handle,
		pgRetriever,
		sysLogger,
		cfg.Ingest.DataDir,
		cfg.Ingest.ChunkSize,
		cfg.Ingest.ChunkOverlap,
	)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IngestTopic,
		ingestService,
	)
	assistantService := service.NewAssistantService(wf, conversationRepo, sysLogger)

	// Point the handle at any index left from a previous run.
	if err := ingestService.RefreshHandle(context.Background()); err != nil {
		log.Printf("[WARN] Failed to check existing index: %v", err)
	}

	// 7. Notification System
	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	return &Container{
		ChatController:     controller.NewChatController(assistantService),
		DocumentController: controller.NewDocumentController(ingestService),

		ConsumerService: consumerService,
		IngestService:   ingestService,

		WebSocketHub:     wsHub,
		AssistantService: assistantService,
	}
}
