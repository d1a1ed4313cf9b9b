package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rrens/business-assistant/internal/api"
	"github.com/Rrens/business-assistant/internal/bot"
	"github.com/Rrens/business-assistant/internal/config"
	"github.com/Rrens/business-assistant/internal/llm"
	"github.com/Rrens/business-assistant/internal/llm/anthropic"
	"github.com/Rrens/business-assistant/internal/llm/gemini"
	"github.com/Rrens/business-assistant/internal/llm/ollama"
	"github.com/Rrens/business-assistant/internal/llm/openai"
	"github.com/Rrens/business-assistant/internal/llm/stub"
	"github.com/Rrens/business-assistant/internal/logger"
	"github.com/Rrens/business-assistant/internal/repository/postgres"
	"github.com/Rrens/business-assistant/internal/repository/redis"
	"github.com/Rrens/business-assistant/internal/security"
	"github.com/Rrens/business-assistant/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	lockTTL        = 10 * time.Second
	dialogTTL      = 30 * time.Minute
	pollingTimeout = 60
	webhookMode    = "webhook"
	startupTimeout = 15 * time.Second

	webhookSecretBytes = 32
	jwtSecretBytes     = 32
)

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logCloser, err := logger.Setup(cfg.Logging, os.Getenv("ENV"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("Server failed")
		logCloser.Close()
		os.Exit(1)
	}
	log.Info().Msg("Server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("telegram_mode", cfg.Telegram.Mode).
		Msg("Starting business assistant")

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	// Database
	db, err := postgres.NewDB(startCtx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.Database.DSN(), cfg.Database.MigrationsURL()); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	userRepo := postgres.NewUserRepository(db)
	convRepo := postgres.NewConversationRepository(db)
	productRepo := postgres.NewProductRepository(db)
	saleRepo := postgres.NewSaleRepository(db)
	movementRepo := postgres.NewStockMovementRepository(db)
	ideaRepo := postgres.NewMarketingIdeaRepository(db)
	docRepo := postgres.NewDocumentRepository(db)
	insightRepo := postgres.NewInsightRepository(db)
	txManager := postgres.NewTxManager(db)

	deps := api.Deps{Config: cfg, DB: db}

	// Redis is optional: without it locks are in-process, reports are not cached
	// and nothing is rate limited.
	var (
		locker      service.Locker = service.NewKeyedMutex()
		reportCache service.ReportCache
		limiter     bot.Limiter
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(startCtx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer redisClient.Close()

		cache := redis.NewReportCache(redisClient, cfg.Reporting.CacheTTL)
		rateLimiter := redis.NewRateLimiter(redisClient, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)

		if cfg.Database.MigrateOnStart {
			// cached reports may predate the schema
			if n, err := cache.FlushAll(startCtx); err != nil {
				log.Warn().Err(err).Msg("Failed to flush report cache")
			} else if n > 0 {
				log.Info().Int64("keys", n).Msg("Report cache flushed after migrations")
			}
		}

		locker = redis.NewLocker(redisClient, lockTTL)
		reportCache = cache
		limiter = rateLimiter

		deps.Redis = redisClient
		deps.ReportCache = cache
		deps.RateLimiter = rateLimiter
	} else {
		log.Warn().Msg("Redis disabled: using in-process locks, no report cache, no rate limiting")
	}

	// LLM providers
	geminiProvider := gemini.NewProvider(cfg.LLM.Gemini)
	defer geminiProvider.Close()
	llmRouter := newLLMRouter(cfg.LLM, geminiProvider)
	provider := cfg.LLM.DefaultProvider

	// Services
	loc := cfg.Reporting.Location()
	conversations := service.NewConversationService(convRepo, txManager, locker, cfg.Conversation.Window)
	users := service.NewUserService(userRepo, convRepo, loc)
	assistant := service.NewAssistantService(conversations, llmRouter, provider)
	warehouse := service.NewWarehouseService(productRepo, saleRepo, movementRepo, txManager, locker, reportCache)
	reports := service.NewReportService(productRepo, saleRepo, reportCache, cfg.Reporting)
	analytics := service.NewAnalyticService(convRepo, loc)
	marketing := service.NewMarketingService(ideaRepo, llmRouter, provider)
	documents := service.NewDocumentService(docRepo, insightRepo, llmRouter, provider)

	if cfg.Auth.JWTSecret == "" {
		secret, err := security.GenerateSecret(jwtSecretBytes)
		if err != nil {
			return err
		}
		cfg.Auth.JWTSecret = secret
		log.Warn().Msg("JWT_SECRET is not set, using a random secret: issued tokens will not survive a restart")
	}
	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)

	deps.JWT = jwtManager
	deps.LLM = llmRouter
	deps.Users = users
	deps.Conversations = conversations
	deps.Assistant = assistant
	deps.Warehouse = warehouse
	deps.Reports = reports
	deps.Analytics = analytics
	deps.Marketing = marketing
	deps.Documents = documents

	// Telegram
	var botAPI *tgbotapi.BotAPI
	var assistantBot *bot.Bot
	if cfg.Telegram.Token != "" {
		botAPI, err = tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			return fmt.Errorf("failed to create Telegram client: %w", err)
		}
		botAPI.Debug = cfg.Telegram.Debug
		log.Info().Str("bot", botAPI.Self.UserName).Msg("Authorized on Telegram")

		assistantBot = bot.New(botAPI, bot.Services{
			Users:         users,
			Assistant:     assistant,
			Conversations: conversations,
			Reports:       reports,
			Analytics:     analytics,
			Warehouse:     warehouse,
			Marketing:     marketing,
			Documents:     documents,
			Tokens:        jwtManager,
			Limiter:       limiter,
		}, bot.NewStateStore(dialogTTL))
	} else {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN is not set, running the HTTP API only")
	}

	botDone := make(chan error, 1)
	switch {
	case assistantBot == nil:
		close(botDone)
	case cfg.Telegram.Mode == webhookMode:
		if err := setWebhook(botAPI, &cfg.Telegram); err != nil {
			return err
		}
		deps.Updates = assistantBot
		go func() { botDone <- assistantBot.Run(ctx, nil) }()
	default:
		if _, err := botAPI.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			log.Warn().Err(err).Msg("Failed to delete webhook before polling")
		}
		u := tgbotapi.NewUpdate(0)
		u.Timeout = pollingTimeout
		updates := botAPI.GetUpdatesChan(u)
		go func() { botDone <- assistantBot.Run(ctx, updates) }()
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down...")
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	if botAPI != nil && cfg.Telegram.Mode != webhookMode {
		botAPI.StopReceivingUpdates()
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	select {
	case err := <-botDone:
		if err != nil {
			log.Error().Err(err).Msg("Bot stopped with error")
		}
	case <-shutdownCtx.Done():
		log.Warn().Msg("Bot did not stop in time")
	}
	return nil
}

// newLLMRouter registers every provider; unconfigured ones stay listed but unusable.
// The stub provider is always available so the bot works without API keys.
func newLLMRouter(cfg config.LLMConfig, geminiProvider *gemini.Provider) *llm.Router {
	router := llm.NewRouter(cfg.DefaultProvider)
	router.SetTimeout(cfg.Timeout)

	router.RegisterProvider(stub.NewProvider())
	router.RegisterProvider(openai.NewProvider(cfg.OpenAI))
	router.RegisterProvider(anthropic.NewProvider(cfg.Anthropic))
	router.RegisterProvider(geminiProvider)
	router.RegisterProvider(ollama.NewProvider(cfg.Ollama))

	if _, err := router.GetProvider(""); err != nil {
		log.Warn().Err(err).Str("provider", cfg.DefaultProvider).Msg("Default LLM provider is unavailable, answers will use fallbacks")
	}
	return router
}

// setWebhook registers the webhook URL together with the secret Telegram echoes back
// in the X-Telegram-Bot-Api-Secret-Token header. A missing secret is generated.
func setWebhook(botAPI *tgbotapi.BotAPI, cfg *config.TelegramConfig) error {
	if cfg.WebhookURL == "" {
		return errors.New("telegram webhook mode requires TELEGRAM_WEBHOOK_URL")
	}

	if cfg.WebhookSecret == "" {
		secret, err := security.GenerateSecret(webhookSecretBytes)
		if err != nil {
			return err
		}
		cfg.WebhookSecret = secret
	}

	params := tgbotapi.Params{
		"url":          cfg.WebhookURL,
		"secret_token": cfg.WebhookSecret,
	}
	if _, err := botAPI.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	log.Info().Str("url", cfg.WebhookURL).Msg("Telegram webhook registered")
	return nil
}
