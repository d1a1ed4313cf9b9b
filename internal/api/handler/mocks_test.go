package handler_test

import (
	"context"

	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/Rrens/business-assistant/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id int64, patch domain.ProfilePatch) (*domain.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Stats(ctx context.Context, id int64) (*domain.UserStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserStats), args.Error(1)
}

func (m *MockUserService) ActivityTrend(ctx context.Context, id int64, days int) (*domain.ActivityTrend, error) {
	args := m.Called(ctx, id, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ActivityTrend), args.Error(1)
}

type MockAssistantService struct {
	mock.Mock
}

func (m *MockAssistantService) Answer(ctx context.Context, user *domain.User, text string) (*service.Reply, error) {
	args := m.Called(ctx, user, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Reply), args.Error(1)
}

type MockWarehouseService struct {
	mock.Mock
}

func (m *MockWarehouseService) CreateProduct(ctx context.Context, userID int64, input domain.ProductCreate) (*domain.Product, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockWarehouseService) GetProduct(ctx context.Context, userID, id int64) (*domain.Product, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockWarehouseService) ListProducts(ctx context.Context, userID int64, category string) ([]domain.Product, error) {
	args := m.Called(ctx, userID, category)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockWarehouseService) SearchProducts(ctx context.Context, userID int64, query string, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, userID, query, limit)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockWarehouseService) LowStock(ctx context.Context, userID int64) ([]domain.Product, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockWarehouseService) UpdateProduct(ctx context.Context, userID, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	args := m.Called(ctx, userID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockWarehouseService) DeleteProduct(ctx context.Context, userID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockWarehouseService) CreateSale(ctx context.Context, userID int64, input domain.SaleCreate) (*domain.OperationResult, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationResult), args.Error(1)
}

func (m *MockWarehouseService) CreateStockMovement(ctx context.Context, userID int64, input domain.StockMovementCreate) (*domain.OperationResult, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationResult), args.Error(1)
}

func (m *MockWarehouseService) ListMovements(ctx context.Context, userID, productID int64, limit int) ([]domain.StockMovement, error) {
	args := m.Called(ctx, userID, productID, limit)
	return args.Get(0).([]domain.StockMovement), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) DefaultSalesDays() int {
	return m.Called().Int(0)
}

func (m *MockReportService) DefaultFinanceDays() int {
	return m.Called().Int(0)
}

func (m *MockReportService) Sales(ctx context.Context, userID int64, period domain.Period) (*domain.SalesReport, error) {
	args := m.Called(ctx, userID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalesReport), args.Error(1)
}

func (m *MockReportService) Stock(ctx context.Context, userID int64) (*domain.StockReport, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockReport), args.Error(1)
}

func (m *MockReportService) Finance(ctx context.Context, userID int64, period domain.Period) (*domain.FinancialOverview, error) {
	args := m.Called(ctx, userID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialOverview), args.Error(1)
}

func (m *MockReportService) WarehouseSummary(ctx context.Context, userID int64) (*domain.WarehouseSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WarehouseSummary), args.Error(1)
}

func (m *MockReportService) RecentSales(ctx context.Context, userID int64, limit int) ([]domain.SaleDetail, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.SaleDetail), args.Error(1)
}

func (m *MockReportService) PeriodFromDays(days int) (domain.Period, error) {
	args := m.Called(days)
	return args.Get(0).(domain.Period), args.Error(1)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) CreateContract(ctx context.Context, userID int64, details string) (*domain.GeneratedDocument, error) {
	args := m.Called(ctx, userID, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedDocument), args.Error(1)
}

func (m *MockDocumentService) CreateAct(ctx context.Context, userID int64, details string) (*domain.GeneratedDocument, error) {
	args := m.Called(ctx, userID, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedDocument), args.Error(1)
}

func (m *MockDocumentService) CheckDocument(ctx context.Context, text string) (*domain.DocumentReview, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentReview), args.Error(1)
}

func (m *MockDocumentService) Upload(ctx context.Context, userID int64, input domain.DocumentUpload) (*domain.Document, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) Analyze(ctx context.Context, userID, documentID int64) (*domain.Insight, error) {
	args := m.Called(ctx, userID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Insight), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, userID int64, limit int) ([]domain.Document, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, userID, id int64) (*domain.Document, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

type fakeTokens struct {
	userID int64
	err    error
}

func (f fakeTokens) GenerateTokenPair(userID int64, username string) (string, string, int64, error) {
	return "access-" + username, "refresh", 900, nil
}

func (f fakeTokens) ValidateRefreshToken(token string) (int64, error) {
	return f.userID, f.err
}

type recordingUpdates struct {
	updates []tgbotapi.Update
}

func (r *recordingUpdates) HandleUpdate(_ context.Context, update tgbotapi.Update) {
	r.updates = append(r.updates, update)
}

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error {
	return f.err
}

type MockAnalyticService struct {
	mock.Mock
}

func (m *MockAnalyticService) DailyActivity(ctx context.Context, userID int64) (*domain.DailyActivity, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyActivity), args.Error(1)
}

func (m *MockAnalyticService) CategoryInsights(ctx context.Context, userID int64) ([]domain.CategoryInsight, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.CategoryInsight), args.Error(1)
}

func (m *MockAnalyticService) WeeklyReport(ctx context.Context, userID int64) (*service.WeeklyReport, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WeeklyReport), args.Error(1)
}
