package bootstrap

import (
	"context"
	"log"
	"time"

	"support-chat-be/internal/config"
	"support-chat-be/internal/constant"
	"support-chat-be/internal/controller"
	"support-chat-be/internal/gateway"
	"support-chat-be/internal/handler"
	"support-chat-be/internal/knowledge"
	"support-chat-be/internal/pkg/logger"
	"support-chat-be/internal/policy"
	"support-chat-be/internal/repository/memory"
	"support-chat-be/internal/repository/unitofwork"
	"support-chat-be/internal/service"
	"support-chat-be/internal/session"
	"support-chat-be/internal/websocket"
	"support-chat-be/pkg/events"
	"support-chat-be/pkg/llm/factory"

	pktNats "support-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	InteractionLoggerService service.IInteractionLoggerService

	// WebSockets
	ChatHandler  *handler.ChatHandler
	WebSocketHub *websocket.Hub

	// SessionManager is exposed so main.go can stop the eviction sweep.
	SessionManager *session.Manager
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

	// 3. Model Registry
	registry := factory.NewRegistry()
	for _, modelName := range []string{cfg.Ai.DefaultModel, cfg.Ai.FallbackModel} {
		if modelName == "" {
			continue
		}
		provider, err := factory.NewProviderForModel(
			modelName,
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OpenAIBaseURL,
			cfg.Ai.OpenAIKey,
		)
		if err != nil {
			log.Printf("[WARN] Skipping model %s: %v", modelName, err)
			continue
		}
		registry.Register(modelName, provider)
		log.Printf("[INFO] Registered model: %s", modelName)
	}

	modelGateway := gateway.New(
		registry,
		cfg.Ai.DefaultModel,
		cfg.Ai.FallbackModel,
		time.Duration(cfg.Ai.TimeoutSeconds)*time.Second,
		sysLogger,
	)

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}
	if natsSub != nil {
		// Surface double-failure responses in the operational log.
		err := natsSub.Subscribe("chat."+events.TypeChatResponseFallback, "fallback-alerts", func(ctx context.Context, event events.Event) error {
			sysLogger.Warn("ModelFallback", "A chat turn was answered by the fallback response", event.Payload())
			return nil
		})
		if err != nil {
			log.Printf("[WARN] Failed to subscribe to fallback events: %v", err)
		}
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
	wsLogger := logger.NewIsolatedLogger("logs/chat_ws.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Session and pipeline components
	sessionRepo := memory.NewSessionRepository()
	sessionManager := session.NewManager(
		sessionRepo,
		uowFactory,
		sysLogger,
		cfg.Chat.HistoryLimit,
		time.Duration(cfg.Chat.IdleTTLMinutes)*time.Minute,
	)
	policyStore := policy.NewStore(uowFactory)
	retriever := knowledge.NewRetriever(uowFactory)

	chatService := service.NewChatService(
		uowFactory,
		sessionManager,
		policyStore,
		retriever,
		modelGateway,
		wsHub,
		pubSub,
		natsPub,
		sysLogger,
		cfg.Chat.RetrievalLimit,
	)
	sessionManager.OnEvict(chatService.ReleaseSession)
	sessionManager.StartSweep(time.Duration(cfg.Chat.SweepIntervalMinutes) * time.Minute)

	widgetService := service.NewWidgetService(uowFactory)

	interactionLogger := service.NewInteractionLoggerService(
		pubSub,
		constant.TopicInteractionLogs,
		uowFactory,
	)

	chatHandler := handler.NewChatHandler(chatService, sessionManager, wsHub, cfg.App.JwtSecret, sysLogger)

	return &Container{
		ChatController:           controller.NewChatController(chatService, widgetService),
		InteractionLoggerService: interactionLogger,
		ChatHandler:              chatHandler,
		WebSocketHub:             wsHub,
		SessionManager:           sessionManager,
	}
}
