package bootstrap

import (
	"context"
	"log"

	"ai-notechat-be/internal/config"
	"ai-notechat-be/internal/controller"
	"ai-notechat-be/internal/pkg/logger"
	"ai-notechat-be/internal/repository/memory"
	"ai-notechat-be/internal/repository/unitofwork"
	"ai-notechat-be/internal/service"
	embeddingBackend "ai-notechat-be/pkg/embedding/backend"
	llmBackend "ai-notechat-be/pkg/llm/backend"
	pkgNats "ai-notechat-be/pkg/nats"
	"ai-notechat-be/pkg/resolver"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NoteController    controller.INoteController
	ChatController    controller.IChatController
	SessionController controller.ISessionController
	SyncController    controller.ISyncController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	IndexGCService  service.IIndexGCService

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

	// 3. AI Backend Clients
	llmProvider := llmBackend.NewProvider(cfg.Ai.BackendBaseURL, cfg.Ai.RequestTimeout)
	embeddingProvider := embeddingBackend.NewClient(cfg.Ai.BackendBaseURL, cfg.Ai.RequestTimeout)
	log.Printf("[INFO] Using AI backend at %s", cfg.Ai.BackendBaseURL)

	// 4. Infrastructure
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
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

	sessionLocks := memory.NewSessionLockRegistry()
	noteResolver := resolver.New()

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Sync.TopicName)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Sync.TopicName,
		uowFactory,
		embeddingProvider,
		sysLogger,
	)
	indexGCService := service.NewIndexGCService(natsSub, uowFactory, embeddingProvider, sysLogger)

	noteService := service.NewNoteService(uowFactory, publisherService, natsPub, sysLogger)
	sessionService := service.NewSessionService(
		uowFactory,
		sessionLocks,
		llmProvider,
		publisherService,
		natsPub,
		sysLogger,
	)
	chatService := service.NewChatService(
		uowFactory,
		sessionService,
		llmProvider,
		embeddingProvider,
		noteResolver,
		rdb,
		cfg.Chat,
		sysLogger,
	)
	syncService := service.NewSyncService(uowFactory, publisherService, cfg.Sync, sysLogger)
	healthService := service.NewHealthService(db, llmProvider, natsPub, rdb)

	// 6. Controllers
	return &Container{
		NoteController:    controller.NewNoteController(noteService),
		ChatController:    controller.NewChatController(chatService),
		SessionController: controller.NewSessionController(sessionService),
		SyncController:    controller.NewSyncController(syncService, healthService),
		ConsumerService:   consumerService,
		IndexGCService:    indexGCService,
		Logger:            sysLogger,
	}
}
