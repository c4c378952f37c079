package bootstrap

import (
	"context"
	"log"

	"tabsensei-be/internal/config"
	"tabsensei-be/internal/controller"
	"tabsensei-be/internal/handler"
	"tabsensei-be/internal/pkg/logger"
	"tabsensei-be/internal/pkg/mailer"
	"tabsensei-be/internal/repository/implementation"
	"tabsensei-be/internal/repository/memory"
	"tabsensei-be/internal/repository/unitofwork"
	"tabsensei-be/internal/service"
	"tabsensei-be/internal/websocket"
	"tabsensei-be/pkg/embedding"
	"tabsensei-be/pkg/embedding/jina"
	"tabsensei-be/pkg/llm/factory"

	pktNats "tabsensei-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController       controller.IAuthController
	AgentController      controller.IAgentController
	WatchlistController  controller.IWatchlistController
	SessionController    controller.ISessionController
	PreferenceController controller.IPreferenceController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	WatcherService  service.IWatcherService

	// WebSockets & Alerts
	AlertHandler *handler.AlertHandler
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Glue
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Ai.JinaKey)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFaceKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Initialize In-Memory Conversation Storage
	convRepo := memory.NewConversationRepository()

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
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/alerts.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Ai.EmbedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ai.EmbedTopic,
		uowFactory,
		embeddingProvider, // Injected
	)

	alertRepo := implementation.NewAlertRepository(db)

	authService := service.NewAuthService(uowFactory, alertRepo, cfg.Auth)
	watchlistService := service.NewWatchlistService(uowFactory, alertRepo, natsPub, cfg.Watch)
	sessionService := service.NewSessionService(
		uowFactory,
		publisherService,
		embeddingProvider, // Injected
		natsPub,
	)
	preferenceService := service.NewPreferenceService(alertRepo, cfg.Watch)

	agentService := service.NewAgentService(
		uowFactory,
		alertRepo,
		convRepo,
		watchlistService,
		llmProvider, // Injected
		natsPub,
		sysLogger,
		cfg.Ai,
	)

	// 4.5 Alert System (Dispatch Worker)
	alertService := service.NewAlertService(alertRepo, natsSub, wsHub, emailService, wsLogger) // Hub implements AlertDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go alertService.Start()
	}

	watcherService := service.NewWatcherService(
		watchlistService,
		alertRepo,
		natsPub,
		sysLogger,
		cfg.Watch.CheckIntervalMinutes,
	)

	// Handler
	alertHandler := handler.NewAlertHandler(alertService, natsPub, wsHub, wsLogger)

	// 5. Controllers
	return &Container{
		AlertHandler: alertHandler,
		WebSocketHub: wsHub,

		AuthController:       controller.NewAuthController(authService),
		AgentController:      controller.NewAgentController(agentService),
		WatchlistController:  controller.NewWatchlistController(watchlistService),
		SessionController:    controller.NewSessionController(sessionService),
		PreferenceController: controller.NewPreferenceController(preferenceService),

		ConsumerService: consumerService,
		WatcherService:  watcherService,
	}
}
