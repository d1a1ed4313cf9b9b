package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/Rrens/business-assistant/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

const ideasListLimit = 10

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
		b.answer(cb.ID, "")
		return
	}
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	if !b.allow(ctx, cb.From.ID, chatID) {
		b.answer(cb.ID, "")
		return
	}

	user, err := b.identify(ctx, cb.From)
	if err != nil {
		b.answer(cb.ID, "")
		b.fail(chatID, "identify user", err)
		return
	}

	note := b.dispatchCallback(ctx, user, chatID, messageID, cb.Data)
	b.answer(cb.ID, note)
}

// answer acknowledges the callback so the client stops its spinner
func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Debug().Err(err).Msg("Failed to answer callback")
	}
}

// dispatchCallback runs the action behind data and returns an optional toast
func (b *Bot) dispatchCallback(ctx context.Context, user *domain.User, chatID int64, messageID int, data string) string {
	switch {
	case data == cbAIClients:
		b.send(chatID, "🧠 Ответы клиентам. Напишите вопрос клиента.", nil)
	case data == cbAILegal:
		b.send(chatID, "⚖️ Юридическая консультация. Напишите вопрос.", nil)
	case data == cbAIGeneral:
		b.send(chatID, "💬 Общая консультация. Опишите задачу.", nil)

	case data == cbSales:
		b.showSales(ctx, user, chatID, messageID)
	case data == cbStock:
		b.showStock(ctx, user, chatID, messageID)
	case data == cbFinance:
		b.showFinance(ctx, user, chatID, messageID)
	case data == cbWarehouse, data == cbQuickStock:
		b.showWarehouse(ctx, user, chatID)
	case data == cbActivity, data == cbProfileAnalytics:
		b.showActivity(ctx, user, chatID)

	case data == cbMktIdeas:
		b.states.Start(user.ID, stepNiche)
		b.send(chatID, "🎯 <b>Генератор маркетинговых идей</b>\n\n📝 Введите вашу нишу (чем занимаетесь):", nil)
	case data == cbMktHistory:
		b.showIdeas(ctx, user, chatID)
	case strings.HasPrefix(data, prefPlatform):
		b.choosePlatform(user, chatID, strings.TrimPrefix(data, prefPlatform))

	case data == cbDocContract:
		b.states.Start(user.ID, stepContract)
		b.send(chatID, "📄 <b>Создание договора</b>\n\nОпишите детали договора:\n"+
			"• Стороны договора\n• Предмет договора\n• Сроки\n• Условия оплаты\n• Особые условия", nil)
	case data == cbDocAct:
		b.states.Start(user.ID, stepAct)
		b.send(chatID, "🧾 <b>Создание акта</b>\n\nВведите данные для акта:\n"+
			"• Наименование работ/услуг\n• Стоимость\n• Сроки выполнения\n• Участники", nil)
	case data == cbDocCheck:
		b.states.Start(user.ID, stepCheck)
		b.send(chatID, "📑 <b>Проверка документа</b>\n\nВведите текст документа для проверки на ошибки и риски:", nil)
	case data == cbDocAnalyze:
		b.states.Start(user.ID, stepUpload)
		b.send(chatID, "🔍 Отправьте текстовый файл (.txt, .md, .csv) или вставьте текст документа.", nil)

	case data == cbQuickSale:
		b.states.Start(user.ID, stepQuickSale)
		b.send(chatID, "🛒 <b>Быстрая продажа</b>\n\nНапишите: <code>название количество [цена]</code>\nПример: <code>Капучино 2 180</code>", nil)
	case data == cbQuickLowStock:
		b.showLowStock(ctx, user, chatID)

	case data == cbProfileHistory:
		b.showHistory(ctx, user, chatID, 0)
	case data == cbProfileSettings:
		b.edit(chatID, messageID, renderProfile(user), ptr(settingsMenu()))
	case data == cbProfileRefresh:
		b.showStats(ctx, user, chatID)
	case strings.HasPrefix(data, prefOpenDialog):
		b.openDialog(ctx, user, chatID, strings.TrimPrefix(data, prefOpenDialog))

	case data == cbEditPersonal:
		b.states.Set(user.ID, Dialog{Step: stepProfileField, Data: map[string]string{"field": fieldName}})
		b.send(chatID, "✏️ <b>Редактирование личных данных</b>\n\n"+
			"Текущие данные: "+orDash(user.FirstName)+" "+orDash(user.LastName)+"\n\n"+
			"Отправьте: <code>Имя Фамилия</code>", nil)
	case data == cbEditBusiness:
		b.edit(chatID, messageID, "💼 <b>Редактирование бизнес-профиля</b>\n\nВыберите что хотите изменить:", ptr(businessMenu()))
	case data == cbBusinessType:
		b.edit(chatID, messageID, "🏢 <b>Выберите тип бизнеса:</b>", ptr(businessTypeMenu()))
	case strings.HasPrefix(data, prefBusinessType):
		return b.setBusinessType(ctx, user, chatID, strings.TrimPrefix(data, prefBusinessType))
	case strings.HasPrefix(data, prefEditField):
		b.askField(user, chatID, strings.TrimPrefix(data, prefEditField))
	case data == cbNotifications:
		return b.toggleNotifications(ctx, user, chatID)

	default:
		log.Debug().Str("data", data).Int64("user_id", user.ID).Msg("Unknown callback")
	}
	return ""
}

func ptr[T any](v T) *T {
	return &v
}

func (b *Bot) showSales(ctx context.Context, user *domain.User, chatID int64, messageID int) {
	days := b.svc.Reports.DefaultSalesDays()
	report, err := b.svc.Reports.SalesForDays(ctx, user.ID, days)
	if err != nil {
		b.fail(chatID, "sales report", err)
		return
	}
	b.edit(chatID, messageID, renderSalesReport(report, days), ptr(analyticsMenu()))
}

func (b *Bot) showStock(ctx context.Context, user *domain.User, chatID int64, messageID int) {
	report, err := b.svc.Reports.Stock(ctx, user.ID)
	if err != nil {
		b.fail(chatID, "stock report", err)
		return
	}
	b.edit(chatID, messageID, renderStockReport(report), ptr(analyticsMenu()))
}

func (b *Bot) showFinance(ctx context.Context, user *domain.User, chatID int64, messageID int) {
	days := b.svc.Reports.DefaultFinanceDays()
	overview, err := b.svc.Reports.FinanceForDays(ctx, user.ID, days)
	if err != nil {
		b.fail(chatID, "finance report", err)
		return
	}
	b.edit(chatID, messageID, renderFinance(overview, days), ptr(analyticsMenu()))
}

func (b *Bot) showWarehouse(ctx context.Context, user *domain.User, chatID int64) {
	summary, err := b.svc.Reports.WarehouseSummary(ctx, user.ID)
	if err != nil {
		b.fail(chatID, "warehouse summary", err)
		return
	}
	b.send(chatID, renderWarehouse(summary), nil)
}

func (b *Bot) showLowStock(ctx context.Context, user *domain.User, chatID int64) {
	products, err := b.svc.Warehouse.LowStock(ctx, user.ID)
	if err != nil {
		b.fail(chatID, "low stock", err)
		return
	}
	b.send(chatID, renderLowStock(products), nil)
}

func (b *Bot) showActivity(ctx context.Context, user *domain.User, chatID int64) {
	activity, err := b.svc.Analytics.DailyActivity(ctx, user.ID)
	if err != nil {
		b.fail(chatID, "daily activity", err)
		return
	}
	insights, err := b.svc.Analytics.CategoryInsights(ctx, user.ID)
	if err != nil {
		b.fail(chatID, "category insights", err)
		return
	}
	b.send(chatID, renderActivity(activity, insights), nil)
}

func (b *Bot) showIdeas(ctx context.Context, user *domain.User, chatID int64) {
	ideas, err := b.svc.Marketing.List(ctx, user.ID, ideasListLimit)
	if err != nil {
		b.fail(chatID, "list ideas", err)
		return
	}
	b.send(chatID, renderIdeas(ideas), nil)
}

func (b *Bot) openDialog(ctx context.Context, user *domain.User, chatID int64, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		b.send(chatID, "❌ Этот диалог не найден или был удалён.", nil)
		return
	}

	conversation, err := b.svc.Conversations.Get(ctx, user.ID, id)
	if err != nil {
		b.fail(chatID, "open dialog", err)
		return
	}
	b.send(chatID, renderConversation(conversation), nil)
}

func (b *Bot) setBusinessType(ctx context.Context, user *domain.User, chatID int64, businessType string) string {
	updated, err := b.svc.Users.UpdateProfile(ctx, user.ID, domain.ProfilePatch{BusinessType: &businessType})
	if err != nil {
		b.fail(chatID, "update business type", err)
		return ""
	}
	b.send(chatID, "✅ Тип бизнеса: <b>"+esc(updated.BusinessType)+"</b>", nil)
	return "Сохранено"
}

func (b *Bot) toggleNotifications(ctx context.Context, user *domain.User, chatID int64) string {
	enabled := !user.NotificationsEnabled
	if _, err := b.svc.Users.UpdateProfile(ctx, user.ID, domain.ProfilePatch{NotificationsEnabled: &enabled}); err != nil {
		b.fail(chatID, "toggle notifications", err)
		return ""
	}

	status := "выключены ❌"
	if enabled {
		status = "включены ✅"
	}
	b.send(chatID, "🔔 Уведомления "+status, nil)
	return "Уведомления " + status
}

var fieldPrompts = map[string]string{
	fieldIndustry: "📊 Введите вашу отрасль (например: кофейня, одежда, IT-услуги):",
	fieldSize:     "👥 Введите размер бизнеса (например: 5 сотрудников):",
	fieldRevenue:  "💰 Введите месячный доход в рублях (только число):",
}

func (b *Bot) askField(user *domain.User, chatID int64, field string) {
	prompt, ok := fieldPrompts[field]
	if !ok {
		return
	}
	b.states.Set(user.ID, Dialog{Step: stepProfileField, Data: map[string]string{"field": field}})
	b.send(chatID, prompt, nil)
}

func (b *Bot) choosePlatform(user *domain.User, chatID int64, platform string) {
	d, ok := b.states.Get(user.ID)
	if !ok || d.Step != stepPlatform {
		b.send(chatID, "⌛ Диалог устарел. Начните заново из раздела Маркетинг.", nil)
		return
	}
	b.states.Advance(user.ID, stepCustomRequest, "platform", platform)
	b.send(chatID, "📱 Площадка: "+esc(platform)+"\n\n💡 Есть особые пожелания?\n(или напишите 'нет')", nil)
}
