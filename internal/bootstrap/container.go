package bootstrap

import (
	"log"
	"time"

	"ai-chatrelay-be/internal/config"
	"ai-chatrelay-be/internal/controller"
	"ai-chatrelay-be/internal/pkg/logger"
	"ai-chatrelay-be/internal/pkg/serverutils"
	"ai-chatrelay-be/internal/repository/memory"
	"ai-chatrelay-be/internal/repository/unitofwork"
	"ai-chatrelay-be/internal/service"
	"ai-chatrelay-be/pkg/events"
	pktNats "ai-chatrelay-be/pkg/nats"
	"ai-chatrelay-be/pkg/oracle"

	"github.com/ThreeDotsLabs/watermill"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	KeyController  controller.IKeyController
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Exposed for graceful shutdown
	Logger logger.ILogger
	Bus    *events.Bus
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	bus := events.NewBus(watermillLogger)

	// Optional NATS bridge; chat flows never block on it.
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			natsPub = pub
		}
	}

	// 3. Oracle
	oracleClient, err := oracle.NewOracle(
		cfg.Oracle.Provider,
		cfg.Oracle.Model,
		cfg.Oracle.OllamaBaseURL,
		cfg.Oracle.GeminiAPIKey,
		time.Duration(cfg.Oracle.TimeoutSeconds)*time.Second,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Oracle: %v", err)
	}
	log.Printf("[INFO] Using Oracle provider: %s (%s)", cfg.Oracle.Provider, cfg.Oracle.Model)

	// 4. Services
	tenantCache := memory.NewTenantCache(time.Duration(cfg.Auth.TokenCacheTTLSeconds) * time.Second)
	tenantService := service.NewTenantService(uowFactory, tenantCache, bus, sysLogger)
	chatService := service.NewChatService(uowFactory, oracleClient, bus, sysLogger)
	consumerService := service.NewConsumerService(bus, natsPub, sysLogger)

	// 5. Controllers
	authMiddleware := serverutils.ApiKeyMiddleware(tenantService)

	return &Container{
		KeyController:   controller.NewKeyController(tenantService),
		ChatController:  controller.NewChatController(chatService, authMiddleware),
		ConsumerService: consumerService,
		Logger:          sysLogger,
		Bus:             bus,
	}
}
