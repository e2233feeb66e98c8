package bootstrap

import (
	"context"
	"log"

	"github.com/visheshc14/career-counselor-chat/internal/config"
	"github.com/visheshc14/career-counselor-chat/internal/constant"
	"github.com/visheshc14/career-counselor-chat/internal/controller"
	"github.com/visheshc14/career-counselor-chat/internal/pkg/logger"
	"github.com/visheshc14/career-counselor-chat/internal/ratelimit"
	"github.com/visheshc14/career-counselor-chat/internal/repository/unitofwork"
	"github.com/visheshc14/career-counselor-chat/internal/service"
	"github.com/visheshc14/career-counselor-chat/pkg/llm/gateway"
	"github.com/visheshc14/career-counselor-chat/pkg/llm/openai"
	"github.com/visheshc14/career-counselor-chat/pkg/llm/openrouter"

	pktNats "github.com/visheshc14/career-counselor-chat/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
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

	// 2.5 Infrastructure
	// NATS (optional; auth events are best-effort)
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			natsPub = pub
		}
	}

	// Rate limiter backend
	var admitter ratelimit.Admitter
	if cfg.RateLimit.UseRedis {
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
		admitter = ratelimit.NewRedisAdmitter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window, sysLogger)
		log.Printf("[INFO] Rate limiter backend: REDIS")
	} else {
		admitter = ratelimit.NewMemoryAdmitter(cfg.RateLimit.Limit, cfg.RateLimit.Window)
		log.Printf("[INFO] Rate limiter backend: MEMORY")
	}

	// Model gateway: OpenRouter primary + alternates, then OpenAI.
	modelGateway := gateway.New(gateway.Config{
		Attempts:     buildAttempts(cfg),
		SystemPrompt: constant.CounselorSystemPromptV1,
		Fallback:     constant.GatewayFallbackMessage,
		Timeout:      cfg.Ai.RequestTimeout,
		Logger:       sysLogger,
	})

	// 3. Services
	publisherService := service.NewPublisherService(cfg.App.ChatEventTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.ChatEventTopic,
		uowFactory,
	)

	authService := service.NewAuthService(uowFactory, cfg.Auth.JwtSecret, natsPub)
	chatService := service.NewChatService(
		uowFactory,
		admitter,
		modelGateway,
		publisherService,
		sysLogger,
	)

	// 4. Controllers
	return &Container{
		AuthController: controller.NewAuthController(authService),
		ChatController: controller.NewChatController(chatService),

		ConsumerService: consumerService,
	}
}

// buildAttempts assembles the provider fallback order from config. A missing
// API key removes that provider's attempts entirely.
func buildAttempts(cfg *config.Config) []gateway.Attempt {
	var attempts []gateway.Attempt

	if cfg.Ai.OpenRouterAPIKey != "" {
		orProvider := openrouter.NewProvider(
			cfg.Ai.OpenRouterAPIKey,
			"",
			cfg.Ai.OpenRouterModel,
			cfg.App.BaseURL,
			cfg.App.Name,
		)
		attempts = append(attempts, gateway.Attempt{Provider: orProvider, Model: cfg.Ai.OpenRouterModel})
		for _, model := range cfg.Ai.OpenRouterAltModels {
			attempts = append(attempts, gateway.Attempt{Provider: orProvider, Model: model})
		}
	}

	if cfg.Ai.OpenAIAPIKey != "" {
		oaProvider := openai.NewProvider(
			cfg.Ai.OpenAIAPIKey,
			"",
			cfg.Ai.OpenAIModel,
			cfg.Ai.OpenAIProject,
		)
		attempts = append(attempts, gateway.Attempt{Provider: oaProvider, Model: cfg.Ai.OpenAIModel})
	}

	if len(attempts) == 0 {
		log.Printf("[WARN] No LLM API keys configured; chat replies will use the fallback text")
	}
	return attempts
}
