package bootstrap

import (
	"context"
	"log"
	"os"

	"faith-companion-be/internal/config"
	"faith-companion-be/internal/controller"
	"faith-companion-be/internal/pkg/logger"
	"faith-companion-be/internal/pkg/mailer"
	"faith-companion-be/internal/repository/memory"
	"faith-companion-be/internal/repository/unitofwork"
	"faith-companion-be/internal/service"
	"faith-companion-be/pkg/chat/limit"
	"faith-companion-be/pkg/chat/memorycons"
	"faith-companion-be/pkg/chat/stream"
	"faith-companion-be/pkg/chat/summary"
	"faith-companion-be/pkg/chat/titler"
	"faith-companion-be/pkg/chat/transcript"
	"faith-companion-be/pkg/embedding"
	"faith-companion-be/pkg/llm/factory"

	pktNats "faith-companion-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const sessionEndedTopic = "SESSION_ENDED"

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	lifecycleLogger := logger.NewIsolatedLogger(cfg.App.LifecycleLogPath)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	streamProvider, err := factory.NewStreamProvider(llmProvider)
	if err != nil {
		log.Fatalf("[FATAL] LLM Provider does not support streaming: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-memory conversation pointers
	pointerRepo := memory.NewPointerRepository()

	// 4. Infrastructure
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

	limiter := limit.NewLimiter(rdb, cfg.Chat.DailyTurnLimit)

	// 5. Chat pipeline
	pipelineLog := log.New(os.Stdout, "[chat] ", log.LstdFlags)

	streamSession := stream.NewSession(streamProvider, pipelineLog)
	sessionTitler := titler.NewTitler(llmProvider, pipelineLog)
	transcriptStore := transcript.NewStore(uowFactory, sessionTitler, pipelineLog)
	summaryGenerator := summary.NewGenerator(uowFactory, llmProvider, pipelineLog)
	consolidator := memorycons.NewConsolidator(uowFactory, embeddingProvider, pipelineLog)

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, sessionEndedTopic)
	consumerService := service.NewLifecycleConsumerService(
		pubSub,
		sessionEndedTopic,
		emailService,
		natsPub,
		cfg.Chat.SummaryEmail,
		lifecycleLogger,
	)

	auditService := service.NewEventAuditService(natsSub, lifecycleLogger)
	go auditService.Start()

	chatService := service.NewChatService(
		uowFactory,
		streamSession,
		transcriptStore,
		summaryGenerator,
		consolidator,
		limiter,
		pointerRepo,
		publisherService,
		service.ChatModelConfig{
			Model:         cfg.Chat.Model,
			FallbackModel: cfg.Chat.FallbackModel,
			Temperature:   cfg.Chat.Temperature,
			MaxTokens:     cfg.Chat.MaxTokens,
		},
		sysLogger,
	)

	return &Container{
		ChatController:  controller.NewChatController(chatService),
		ConsumerService: consumerService,
	}
}
