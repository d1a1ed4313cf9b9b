package bot

import (
	"context"
	"time"

	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/Rrens/business-assistant/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of the Bot API client the bot uses
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type UserService interface {
	GetOrCreate(ctx context.Context, identity domain.UserIdentity) (*domain.User, bool, error)
	UpdateProfile(ctx context.Context, id int64, patch domain.ProfilePatch) (*domain.User, error)
	Stats(ctx context.Context, id int64) (*domain.UserStats, error)
}

type AssistantService interface {
	Answer(ctx context.Context, user *domain.User, text string) (*service.Reply, error)
	Record(ctx context.Context, userID int64, userText, botText, category string) error
}

type ConversationService interface {
	List(ctx context.Context, userID int64, limit int) ([]domain.Conversation, error)
	Get(ctx context.Context, userID, id int64) (*domain.Conversation, error)
}

type ReportService interface {
	DefaultSalesDays() int
	DefaultFinanceDays() int
	SalesForDays(ctx context.Context, userID int64, days int) (*domain.SalesReport, error)
	Stock(ctx context.Context, userID int64) (*domain.StockReport, error)
	FinanceForDays(ctx context.Context, userID int64, days int) (*domain.FinancialOverview, error)
	WarehouseSummary(ctx context.Context, userID int64) (*domain.WarehouseSummary, error)
}

type AnalyticService interface {
	DailyActivity(ctx context.Context, userID int64) (*domain.DailyActivity, error)
	CategoryInsights(ctx context.Context, userID int64) ([]domain.CategoryInsight, error)
}

type WarehouseService interface {
	GetProductByName(ctx context.Context, userID int64, name string) (*domain.Product, error)
	SearchProducts(ctx context.Context, userID int64, query string, limit int) ([]domain.Product, error)
	LowStock(ctx context.Context, userID int64) ([]domain.Product, error)
	CreateSale(ctx context.Context, userID int64, input domain.SaleCreate) (*domain.OperationResult, error)
}

type MarketingService interface {
	GenerateIdea(ctx context.Context, userID int64, req domain.MarketingRequest) (*domain.MarketingIdea, error)
	List(ctx context.Context, userID int64, limit int) ([]domain.MarketingIdea, error)
}

type DocumentService interface {
	CreateContract(ctx context.Context, userID int64, details string) (*domain.GeneratedDocument, error)
	CreateAct(ctx context.Context, userID int64, details string) (*domain.GeneratedDocument, error)
	CheckDocument(ctx context.Context, text string) (*domain.DocumentReview, error)
	Upload(ctx context.Context, userID int64, input domain.DocumentUpload) (*domain.Document, error)
	Analyze(ctx context.Context, userID, documentID int64) (*domain.Insight, error)
}

// TokenIssuer mints API tokens for the /token command
type TokenIssuer interface {
	GenerateTokenPair(userID int64, username string) (accessToken, refreshToken string, expiresIn int64, err error)
}

// Limiter throttles incoming updates per user
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, int, time.Time, error)
}

// Services bundles what the bot talks to. Limiter is optional.
type Services struct {
	Users         UserService
	Assistant     AssistantService
	Conversations ConversationService
	Reports       ReportService
	Analytics     AnalyticService
	Warehouse     WarehouseService
	Marketing     MarketingService
	Documents     DocumentService
	Tokens        TokenIssuer
	Limiter       Limiter
}
