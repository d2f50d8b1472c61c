package bootstrap

import (
	"log"

	"ai-tutor-be/internal/config"
	"ai-tutor-be/internal/controller"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/memory"
	"ai-tutor-be/internal/service"
	"ai-tutor-be/internal/websocket"
	"ai-tutor-be/pkg/llm/gemini"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	TutorController controller.ITutorController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Model Provider
	if cfg.Keys.GoogleGemini == "" {
		log.Println("[WARN] GOOGLE_GEMINI_API_KEY is empty, model calls will fail")
	}
	llmProvider := gemini.NewProvider(cfg.Keys.GoogleGemini, cfg.Keys.GeminiModel)
	log.Printf("[INFO] Using LLM Provider: GEMINI (%s)", cfg.Keys.GeminiModel)

	// 4. In-Memory Storage
	sessionRepo := memory.NewSessionRepository()
	mistakeRepo := memory.NewMistakeRepository()

	// 5. WebSocket Hub
	wsHub := websocket.NewHub(sysLogger)
	go wsHub.Run()

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Topics.MistakeRecorded)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Topics.MistakeRecorded,
		wsHub,
		sysLogger,
	)

	tutorService := service.NewTutorService(
		sessionRepo,
		mistakeRepo,
		llmProvider,
		publisherService,
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		TutorController: controller.NewTutorController(tutorService, wsHub, sysLogger),
		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
		Logger:          sysLogger,
	}
}
