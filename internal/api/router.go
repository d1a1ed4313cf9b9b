package api

import (
	"net/http"

	"github.com/Rrens/business-assistant/internal/api/handler"
	customMiddleware "github.com/Rrens/business-assistant/internal/api/middleware"
	"github.com/Rrens/business-assistant/internal/config"
	"github.com/Rrens/business-assistant/internal/security"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// Deps are the collaborators the HTTP API is built from
type Deps struct {
	Config *config.Config
	JWT    *security.JWTManager

	DB    handler.Pinger
	Redis handler.Pinger // nil when Redis is disabled

	// RateLimiter and ReportCache are optional
	RateLimiter customMiddleware.Limiter
	ReportCache handler.CacheInvalidator

	LLM           handler.ProviderLister
	Users         handler.UserService
	Conversations handler.ConversationService
	Assistant     handler.AssistantService
	Warehouse     handler.WarehouseService
	Reports       handler.ReportService
	Analytics     handler.AnalyticService
	Marketing     handler.MarketingService
	Documents     handler.DocumentService

	// Updates receives webhook updates; nil disables the webhook route
	Updates handler.UpdateHandler
}

// NewRouter creates and configures the HTTP router
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handler.NewAuthHandler(deps.JWT, deps.Users)
	chatHandler := handler.NewChatHandler(deps.Users, deps.Assistant)
	profileHandler := handler.NewProfileHandler(deps.Users, deps.Conversations)
	warehouseHandler := handler.NewWarehouseHandler(deps.Warehouse, deps.Reports)
	reportHandler := handler.NewReportHandler(deps.Reports, deps.Analytics)
	marketingHandler := handler.NewMarketingHandler(deps.Marketing)
	documentHandler := handler.NewDocumentHandler(deps.Documents)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(deps.JWT)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(deps.DB, deps.Redis))
		r.Get("/llm-providers", handler.ListLLMProviders(deps.LLM))

		// Auth routes (public)
		r.Post("/auth/refresh", authHandler.Refresh)

		// Telegram pushes updates here in webhook mode
		if deps.Updates != nil {
			webhookHandler := handler.NewWebhookHandler(cfg.Telegram.WebhookSecret, deps.Updates)
			r.Post("/telegram/webhook", webhookHandler.Receive)
		}

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			if deps.RateLimiter != nil {
				r.Use(customMiddleware.NewRateLimitMiddleware(deps.RateLimiter).Limit)
			} else {
				log.Warn().Msg("Rate limiter disabled, API requests are not throttled")
			}

			r.Post("/chat", chatHandler.Chat)

			r.Route("/me", func(r chi.Router) {
				r.Get("/", profileHandler.Get)
				r.Patch("/", profileHandler.Update)
				r.Get("/stats", profileHandler.Stats)
				r.Get("/trend", profileHandler.Trend)

				r.Route("/conversations", func(r chi.Router) {
					r.Get("/", profileHandler.ListConversations)
					r.Get("/{conversationID}", profileHandler.GetConversation)
				})

				r.Route("/products", func(r chi.Router) {
					r.Get("/", warehouseHandler.ListProducts)
					r.Post("/", warehouseHandler.CreateProduct)
					r.Get("/low-stock", warehouseHandler.LowStock)
					r.Get("/search", warehouseHandler.SearchProducts)

					r.Route("/{productID}", func(r chi.Router) {
						r.Get("/", warehouseHandler.GetProduct)
						r.Patch("/", warehouseHandler.UpdateProduct)
						r.Delete("/", warehouseHandler.DeleteProduct)
						r.Get("/movements", warehouseHandler.ListMovements)
						r.Post("/movements", warehouseHandler.CreateMovement)
					})
				})

				r.Route("/sales", func(r chi.Router) {
					r.Post("/", warehouseHandler.CreateSale)
					r.Get("/recent", warehouseHandler.RecentSales)
				})

				r.Route("/reports", func(r chi.Router) {
					r.Get("/sales", reportHandler.Sales)
					r.Get("/stock", reportHandler.Stock)
					r.Get("/finance", reportHandler.Finance)
					r.Get("/warehouse", reportHandler.Warehouse)
					r.Get("/activity", reportHandler.Activity)
					r.Get("/categories", reportHandler.Categories)
					r.Get("/weekly", reportHandler.Weekly)
				})

				r.Route("/marketing/ideas", func(r chi.Router) {
					r.Get("/", marketingHandler.List)
					r.Post("/", marketingHandler.Generate)
				})

				r.Route("/documents", func(r chi.Router) {
					r.Get("/", documentHandler.List)
					r.Post("/", documentHandler.Upload)
					r.Post("/contract", documentHandler.CreateContract)
					r.Post("/act", documentHandler.CreateAct)
					r.Post("/check", documentHandler.Check)

					r.Route("/{documentID}", func(r chi.Router) {
						r.Get("/", documentHandler.Get)
						r.Post("/analyze", documentHandler.Analyze)
					})
				})

				// Cache management
				if deps.ReportCache != nil {
					r.Post("/cache/flush", handler.FlushCache(deps.ReportCache))
				}
			})
		})
	})

	return r
}
