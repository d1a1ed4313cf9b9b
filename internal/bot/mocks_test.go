package bot

import (
	"context"
	"sync"
	"time"

	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/Rrens/business-assistant/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"
)

// fakeSender captures everything the bot sends
type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	editErr  error
	fileURL  string
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := c.(tgbotapi.EditMessageTextConfig); ok && f.editErr != nil {
		return tgbotapi.Message{}, f.editErr
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) GetFileDirectURL(fileID string) (string, error) {
	return f.fileURL, nil
}

// texts returns the text of every sent or edited message, in order
func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeSender) last() string {
	texts := f.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetOrCreate(ctx context.Context, identity domain.UserIdentity) (*domain.User, bool, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Bool(1), args.Error(2)
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

func (m *MockAssistantService) Record(ctx context.Context, userID int64, userText, botText, category string) error {
	return m.Called(ctx, userID, userText, botText, category).Error(0)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) DefaultSalesDays() int   { return 7 }
func (m *MockReportService) DefaultFinanceDays() int { return 30 }

func (m *MockReportService) SalesForDays(ctx context.Context, userID int64, days int) (*domain.SalesReport, error) {
	args := m.Called(ctx, userID, days)
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

func (m *MockReportService) FinanceForDays(ctx context.Context, userID int64, days int) (*domain.FinancialOverview, error) {
	args := m.Called(ctx, userID, days)
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

type MockWarehouseService struct {
	mock.Mock
}

func (m *MockWarehouseService) GetProductByName(ctx context.Context, userID int64, name string) (*domain.Product, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockWarehouseService) SearchProducts(ctx context.Context, userID int64, query string, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, userID, query, limit)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}

func (m *MockWarehouseService) LowStock(ctx context.Context, userID int64) ([]domain.Product, error) {
	args := m.Called(ctx, userID)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}

func (m *MockWarehouseService) CreateSale(ctx context.Context, userID int64, input domain.SaleCreate) (*domain.OperationResult, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationResult), args.Error(1)
}

type MockMarketingService struct {
	mock.Mock
}

func (m *MockMarketingService) GenerateIdea(ctx context.Context, userID int64, req domain.MarketingRequest) (*domain.MarketingIdea, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MarketingIdea), args.Error(1)
}

func (m *MockMarketingService) List(ctx context.Context, userID int64, limit int) ([]domain.MarketingIdea, error) {
	args := m.Called(ctx, userID, limit)
	ideas, _ := args.Get(0).([]domain.MarketingIdea)
	return ideas, args.Error(1)
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

type fakeTokens struct{}

func (fakeTokens) GenerateTokenPair(userID int64, username string) (string, string, int64, error) {
	return "access-token", "refresh-token", 900, nil
}

type fakeLimiter struct {
	allowed bool
	err     error
}

func (f fakeLimiter) Allow(context.Context, string) (bool, int, time.Time, error) {
	return f.allowed, 0, time.Time{}, f.err
}
