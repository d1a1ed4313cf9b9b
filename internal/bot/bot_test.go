package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/Rrens/business-assistant/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testUserID int64 = 42

type testBot struct {
	*Bot
	sender    *fakeSender
	users     *MockUserService
	assistant *MockAssistantService
	reports   *MockReportService
	warehouse *MockWarehouseService
	marketing *MockMarketingService
	documents *MockDocumentService
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()

	tb := &testBot{
		sender:    &fakeSender{},
		users:     new(MockUserService),
		assistant: new(MockAssistantService),
		reports:   new(MockReportService),
		warehouse: new(MockWarehouseService),
		marketing: new(MockMarketingService),
		documents: new(MockDocumentService),
	}
	tb.Bot = New(tb.sender, Services{
		Users:     tb.users,
		Assistant: tb.assistant,
		Reports:   tb.reports,
		Warehouse: tb.warehouse,
		Marketing: tb.marketing,
		Documents: tb.documents,
		Tokens:    fakeTokens{},
	}, nil)

	user := &domain.User{ID: testUserID, FirstName: "Иван", BusinessType: domain.DefaultBusinessType}
	tb.users.On("GetOrCreate", mock.Anything, domain.UserIdentity{ID: testUserID, FirstName: "Иван"}).
		Return(user, false, nil).Maybe()
	return tb
}

func (tb *testBot) text(text string) {
	msg := &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: testUserID, FirstName: "Иван"},
		Chat:      &tgbotapi.Chat{ID: testUserID},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(strings.Fields(text)[0])}}
	}
	tb.HandleUpdate(context.Background(), tgbotapi.Update{UpdateID: 1, Message: msg})
}

func (tb *testBot) press(data string) {
	tb.HandleUpdate(context.Background(), tgbotapi.Update{
		UpdateID: 2,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb-1",
			From:    &tgbotapi.User{ID: testUserID, FirstName: "Иван"},
			Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: testUserID}},
			Data:    data,
		},
	})
}

func (tb *testBot) step() string {
	d, ok := tb.states.Get(testUserID)
	if !ok {
		return ""
	}
	return d.Step
}

func TestBot_Start(t *testing.T) {
	tb := newTestBot(t)
	tb.states.Start(testUserID, stepCheck)

	tb.text("/start")

	require.Len(t, tb.sender.sent, 1)
	msg, ok := tb.sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "Привет, Иван")
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.IsType(t, tgbotapi.ReplyKeyboardMarkup{}, msg.ReplyMarkup)
	assert.Empty(t, tb.step(), "commands abandon the active dialog")
}

func TestBot_UnknownCommand(t *testing.T) {
	tb := newTestBot(t)

	tb.text("/dance")

	assert.Contains(t, tb.sender.last(), "Неизвестная команда")
}

func TestBot_Token(t *testing.T) {
	tb := newTestBot(t)

	tb.text("/token")

	assert.Contains(t, tb.sender.last(), "<code>access-token</code>")
	assert.Contains(t, tb.sender.last(), "15 мин")
}

func TestBot_FreeTextGoesToAssistant(t *testing.T) {
	tb := newTestBot(t)
	tb.assistant.On("Answer", mock.Anything, mock.AnythingOfType("*domain.User"), "как снизить налоги?").
		Return(&service.Reply{Text: "Используйте <УСН>", Category: domain.CategoryLegal}, nil)

	tb.text("  как снизить налоги?  ")

	assert.Equal(t, "Используйте &lt;УСН&gt;", tb.sender.last())
	tb.assistant.AssertExpectations(t)
}

func TestBot_AssistantFailure(t *testing.T) {
	tb := newTestBot(t)
	tb.assistant.On("Answer", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("llm: %w", domain.ErrUnavailable))

	tb.text("привет")

	assert.Equal(t, userMessage(domain.ErrUnavailable), tb.sender.last())
}

func TestBot_MenuButtonOpensSection(t *testing.T) {
	tb := newTestBot(t)

	tb.text(btnAnalytics)

	require.Len(t, tb.sender.sent, 1)
	msg := tb.sender.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, analyticsMenu(), msg.ReplyMarkup)
	tb.assistant.AssertNotCalled(t, "Answer", mock.Anything, mock.Anything, mock.Anything)
}

func TestBot_MarketingWizard(t *testing.T) {
	tb := newTestBot(t)
	want := domain.MarketingRequest{
		Niche:         "кофейня",
		Goal:          "привлечь клиентов",
		Platform:      "Instagram",
		CustomRequest: "нет",
	}
	tb.marketing.On("GenerateIdea", mock.Anything, testUserID, want).
		Return(&domain.MarketingIdea{Title: "Кофе дня", Description: "Скидка на напиток дня", Platform: "Instagram", Goal: want.Goal}, nil)
	tb.assistant.On("Record", mock.Anything, testUserID, mock.Anything, "Кофе дня\nСкидка на напиток дня", domain.CategoryMarketing).
		Return(nil)

	tb.press(cbMktIdeas)
	assert.Equal(t, stepNiche, tb.step())

	tb.text("кофейня")
	assert.Equal(t, stepGoal, tb.step())

	tb.text("привлечь клиентов")
	assert.Equal(t, stepPlatform, tb.step())

	tb.press(prefPlatform + "Instagram")
	assert.Equal(t, stepCustomRequest, tb.step())

	tb.text("нет")
	assert.Empty(t, tb.step())
	assert.Contains(t, tb.sender.last(), "Кофе дня")

	tb.marketing.AssertExpectations(t)
	tb.assistant.AssertExpectations(t)
	assert.Len(t, tb.sender.requests, 2, "every callback is answered")
}

func TestBot_PlatformCallbackOutsideWizard(t *testing.T) {
	tb := newTestBot(t)

	tb.press(prefPlatform + "VK")

	assert.Contains(t, tb.sender.last(), "Диалог устарел")
	assert.Empty(t, tb.step())
}

func TestBot_QuickSale(t *testing.T) {
	product := &domain.Product{ID: 3, Name: "Капучино", StockQuantity: 2, Unit: "шт"}

	t.Run("insufficient stock keeps the dialog", func(t *testing.T) {
		tb := newTestBot(t)
		tb.warehouse.On("GetProductByName", mock.Anything, testUserID, "Капучино").Return(product, nil)
		tb.warehouse.On("CreateSale", mock.Anything, testUserID, domain.SaleCreate{ProductID: 3, Quantity: 5}).
			Return(&domain.OperationResult{Success: false, Message: "❌ Недостаточно товара. Доступно: 2 шт", Err: domain.ErrInsufficientStock}, nil)

		tb.press(cbQuickSale)
		tb.text("Капучино 5")

		assert.Contains(t, tb.sender.last(), "Недостаточно товара")
		assert.Equal(t, stepQuickSale, tb.step())
	})

	t.Run("success clears the dialog", func(t *testing.T) {
		tb := newTestBot(t)
		tb.warehouse.On("GetProductByName", mock.Anything, testUserID, "Капучино").Return(product, nil)
		tb.warehouse.On("CreateSale", mock.Anything, testUserID, domain.SaleCreate{ProductID: 3, Quantity: 2, UnitPrice: 180}).
			Return(&domain.OperationResult{Success: true, Message: "✅ Продажа зафиксирована"}, nil)

		tb.press(cbQuickSale)
		tb.text("Капучино 2 180")

		assert.Equal(t, "✅ Продажа зафиксирована", tb.sender.last())
		assert.Empty(t, tb.step())
	})

	t.Run("unknown product suggests similar", func(t *testing.T) {
		tb := newTestBot(t)
		tb.warehouse.On("GetProductByName", mock.Anything, testUserID, "Капуч").
			Return(nil, fmt.Errorf("product: %w", domain.ErrNotFound))
		tb.warehouse.On("SearchProducts", mock.Anything, testUserID, "Капуч", suggestionLimit).
			Return([]domain.Product{*product}, nil)

		tb.press(cbQuickSale)
		tb.text("Капуч 1")

		assert.Contains(t, tb.sender.last(), "Возможно, вы имели в виду")
		assert.Contains(t, tb.sender.last(), "Капучино (остаток 2)")
		assert.Equal(t, stepQuickSale, tb.step())
	})

	t.Run("bad input keeps the dialog", func(t *testing.T) {
		tb := newTestBot(t)

		tb.press(cbQuickSale)
		tb.text("Капучино")

		assert.Contains(t, tb.sender.last(), "Формат")
		assert.Equal(t, stepQuickSale, tb.step())
		tb.warehouse.AssertNotCalled(t, "GetProductByName", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBot_SalesReportEditsMessage(t *testing.T) {
	tb := newTestBot(t)
	tb.reports.On("SalesForDays", mock.Anything, testUserID, 7).Return(&domain.SalesReport{
		TotalRevenue:  12500,
		TotalQuantity: 50,
		TotalSales:    10,
		AvgSaleAmount: 1250,
		TopProducts:   []domain.ProductSales{{Name: "Латте", Quantity: 30, Revenue: 9000}},
	}, nil)

	tb.press(cbSales)

	require.Len(t, tb.sender.sent, 1)
	edit, ok := tb.sender.sent[0].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, 7, edit.MessageID)
	assert.Contains(t, edit.Text, "12 500 руб")
	assert.Contains(t, edit.Text, "1. Латте - 9 000 руб (30 шт)")
}

func TestBot_EditFallsBackToSend(t *testing.T) {
	tb := newTestBot(t)
	tb.sender.editErr = errors.New("message is not modified")
	tb.reports.On("Stock", mock.Anything, testUserID).Return(&domain.StockReport{}, nil)

	tb.press(cbStock)

	require.Len(t, tb.sender.sent, 1)
	assert.IsType(t, tgbotapi.MessageConfig{}, tb.sender.sent[0])
}

func TestBot_ContractDialog(t *testing.T) {
	tb := newTestBot(t)
	tb.documents.On("CreateContract", mock.Anything, testUserID, "поставка кофе").
		Return(&domain.GeneratedDocument{Title: "Договор поставки", Content: "1. Предмет"}, nil)
	tb.assistant.On("Record", mock.Anything, testUserID, "Договор: поставка кофе", "Договор поставки\n1. Предмет", domain.CategoryDocuments).
		Return(errors.New("db down"))

	tb.press(cbDocContract)
	tb.text("поставка кофе")

	assert.Contains(t, tb.sender.last(), "Договор поставки")
	assert.Empty(t, tb.step())
	tb.assistant.AssertExpectations(t)
}

func TestBot_EditName(t *testing.T) {
	tb := newTestBot(t)
	first, last := "Иван", "Петров"
	tb.users.On("UpdateProfile", mock.Anything, testUserID, domain.ProfilePatch{FirstName: &first, LastName: &last}).
		Return(&domain.User{ID: testUserID, FirstName: first, LastName: last}, nil)

	tb.press(cbEditPersonal)
	tb.text("Иван")
	assert.Contains(t, tb.sender.last(), "имя и фамилию")
	assert.Equal(t, stepProfileField, tb.step())

	tb.text("Иван Петров")
	assert.Contains(t, tb.sender.last(), "Данные обновлены")
	assert.Empty(t, tb.step())
	tb.users.AssertExpectations(t)
}

func TestBot_Cancel(t *testing.T) {
	tb := newTestBot(t)
	tb.states.Start(testUserID, stepContract)

	tb.text("/cancel")

	assert.Empty(t, tb.step())
	assert.Contains(t, tb.sender.last(), "Диалог прерван")
}

func TestBot_RateLimit(t *testing.T) {
	t.Run("limited", func(t *testing.T) {
		tb := newTestBot(t)
		tb.svc.Limiter = fakeLimiter{allowed: false}

		tb.text("привет")

		assert.Equal(t, userMessage(domain.ErrRateLimited), tb.sender.last())
		tb.users.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
	})

	t.Run("limiter failure lets the update through", func(t *testing.T) {
		tb := newTestBot(t)
		tb.svc.Limiter = fakeLimiter{err: errors.New("redis down")}
		tb.assistant.On("Answer", mock.Anything, mock.Anything, "привет").Return(&service.Reply{Text: "Здравствуйте"}, nil)

		tb.text("привет")

		assert.Equal(t, "Здравствуйте", tb.sender.last())
	})
}

func TestBot_IdentifyFailure(t *testing.T) {
	tb := newTestBot(t)
	tb.users.ExpectedCalls = nil
	tb.users.On("GetOrCreate", mock.Anything, mock.Anything).Return(nil, false, errors.New("db down"))

	tb.text("привет")

	assert.Equal(t, userMessage(errors.New("db down")), tb.sender.last())
}

func TestParseQuickSale(t *testing.T) {
	tests := []struct {
		input    string
		name     string
		quantity int
		price    float64
		wantErr  bool
	}{
		{"Капучино 2", "Капучино", 2, 0, false},
		{"Капучино 2 180", "Капучино", 2, 180, false},
		{"Кофе латте 3", "Кофе латте", 3, 0, false},
		{"Кофе латте 3 199,90", "Кофе латте", 3, 199.90, false},
		{"Вода 0.5 4", "Вода 0.5", 4, 0, false},
		{"Капучино", "", 0, 0, true},
		{"Капучино два", "", 0, 0, true},
		{"Капучино 0", "", 0, 0, true},
		{"Капучино -1 100", "", 0, 0, true},
		{"Капучино 2 дорого", "", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			name, quantity, price, err := parseQuickSale(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.quantity, quantity)
			assert.InDelta(t, tt.price, price, 0.001)
		})
	}
}

func TestStateStore(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewStateStore(10 * time.Minute)
	store.now = func() time.Time { return now }

	store.Start(1, stepNiche)
	store.Advance(1, stepGoal, "niche", "кофейня")

	d, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, stepGoal, d.Step)
	assert.Equal(t, "кофейня", d.Data["niche"])

	d.Data["niche"] = "changed"
	d, _ = store.Get(1)
	assert.Equal(t, "кофейня", d.Data["niche"], "Get returns a copy")

	store.Start(2, stepCheck)
	now = now.Add(11 * time.Minute)
	store.Start(3, stepAct)

	assert.Equal(t, 2, store.Sweep())
	assert.Equal(t, 1, store.Len())

	now = now.Add(11 * time.Minute)
	_, ok = store.Get(3)
	assert.False(t, ok, "expired dialogs vanish on access")
	assert.Equal(t, 0, store.Len())
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "12 500 руб", money(12500))
	assert.Equal(t, "1 234 568 руб", money(1234567.8))
	assert.Equal(t, "950 руб", money(950))
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short"))

	line := strings.Repeat("я", 100) + "\n"
	text := strings.Repeat(line, 100)
	chunks := splitMessage(text)

	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8Len(c), maxMessageLen)
		assert.True(t, strings.HasSuffix(c, "\n"), "chunks break on line boundaries")
	}
	assert.Equal(t, text, strings.Join(chunks, ""))

	long := strings.Repeat("ж", maxMessageLen+10)
	chunks = splitMessage(long)
	require.Len(t, chunks, 2)
	assert.Equal(t, 10, utf8Len(chunks[1]))
}
