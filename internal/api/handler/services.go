package handler

import (
	"context"

	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/Rrens/business-assistant/internal/service"
)

// The handlers depend on these narrow views of the service layer.

type UserService interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, patch domain.ProfilePatch) (*domain.User, error)
	Stats(ctx context.Context, id int64) (*domain.UserStats, error)
	ActivityTrend(ctx context.Context, id int64, days int) (*domain.ActivityTrend, error)
}

type ConversationService interface {
	List(ctx context.Context, userID int64, limit int) ([]domain.Conversation, error)
	Get(ctx context.Context, userID, id int64) (*domain.Conversation, error)
}

type AssistantService interface {
	Answer(ctx context.Context, user *domain.User, text string) (*service.Reply, error)
}

type WarehouseService interface {
	CreateProduct(ctx context.Context, userID int64, input domain.ProductCreate) (*domain.Product, error)
	GetProduct(ctx context.Context, userID, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, userID int64, category string) ([]domain.Product, error)
	SearchProducts(ctx context.Context, userID int64, query string, limit int) ([]domain.Product, error)
	LowStock(ctx context.Context, userID int64) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, userID, id int64, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, userID, id int64) error
	CreateSale(ctx context.Context, userID int64, input domain.SaleCreate) (*domain.OperationResult, error)
	CreateStockMovement(ctx context.Context, userID int64, input domain.StockMovementCreate) (*domain.OperationResult, error)
	ListMovements(ctx context.Context, userID, productID int64, limit int) ([]domain.StockMovement, error)
}

type ReportService interface {
	DefaultSalesDays() int
	DefaultFinanceDays() int
	Sales(ctx context.Context, userID int64, period domain.Period) (*domain.SalesReport, error)
	Stock(ctx context.Context, userID int64) (*domain.StockReport, error)
	Finance(ctx context.Context, userID int64, period domain.Period) (*domain.FinancialOverview, error)
	WarehouseSummary(ctx context.Context, userID int64) (*domain.WarehouseSummary, error)
	RecentSales(ctx context.Context, userID int64, limit int) ([]domain.SaleDetail, error)
	PeriodFromDays(days int) (domain.Period, error)
}

type AnalyticService interface {
	DailyActivity(ctx context.Context, userID int64) (*domain.DailyActivity, error)
	CategoryInsights(ctx context.Context, userID int64) ([]domain.CategoryInsight, error)
	WeeklyReport(ctx context.Context, userID int64) (*service.WeeklyReport, error)
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
	List(ctx context.Context, userID int64, limit int) ([]domain.Document, error)
	Get(ctx context.Context, userID, id int64) (*domain.Document, error)
}
