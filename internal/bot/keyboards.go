package bot

import (
	"fmt"

	"github.com/Rrens/business-assistant/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Main menu buttons. Their text arrives back as plain messages.
const (
	btnIntelligence = "🧠 Интеллект"
	btnAnalytics    = "📊 Аналитика"
	btnDocuments    = "📄 Документы"
	btnMarketing    = "📈 Маркетинг"
	btnQuick        = "⚡ Быстрое"
	btnSupport      = "🆘 Поддержка"
	btnProfile      = "👤 Мой профиль"
)

// Callback data
const (
	cbAIClients = "ai:clients"
	cbAILegal   = "ai:legal"
	cbAIGeneral = "ai:general"

	cbSales     = "an:sales"
	cbStock     = "an:stock"
	cbFinance   = "an:finance"
	cbActivity  = "an:activity"
	cbWarehouse = "an:warehouse"

	cbDocContract = "doc:contract"
	cbDocAct      = "doc:act"
	cbDocCheck    = "doc:check"
	cbDocAnalyze  = "doc:analyze"

	cbMktIdeas   = "mkt:ideas"
	cbMktHistory = "mkt:history"
	prefPlatform = "platform:"

	cbQuickSale     = "quick:sale"
	cbQuickStock    = "quick:stock"
	cbQuickLowStock = "quick:lowstock"

	cbProfileHistory   = "profile:history"
	cbProfileAnalytics = "profile:analytics"
	cbProfileSettings  = "profile:settings"
	cbProfileRefresh   = "profile:refresh"

	cbEditPersonal  = "settings:personal"
	cbEditBusiness  = "settings:business"
	cbNotifications = "settings:notifications"

	cbBusinessType   = "business:type"
	prefBusinessType = "bus_type:"
	prefEditField    = "edit:"

	prefOpenDialog = "open_dialog:"
)

// Profile fields editable through a text prompt
const (
	fieldName     = "name"
	fieldIndustry = "industry"
	fieldSize     = "size"
	fieldRevenue  = "revenue"
)

var (
	businessTypes = []string{"ИП", "ООО", "Самозанятый", "Фрилансер", "АО", "НКО"}
	platforms     = []string{"Instagram", "Telegram", "VK", "TikTok", "YouTube", "Сайт"}
)

func button(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

func mainMenu() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnIntelligence), tgbotapi.NewKeyboardButton(btnAnalytics)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnDocuments), tgbotapi.NewKeyboardButton(btnMarketing)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnQuick), tgbotapi.NewKeyboardButton(btnSupport)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnProfile)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func intelligenceMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button("Ответы клиентам", cbAIClients), button("Юр. консультации", cbAILegal)),
		tgbotapi.NewInlineKeyboardRow(button("Общая консультация", cbAIGeneral)),
	)
}

func analyticsMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button("Отчет по продажам", cbSales), button("Остатки товара", cbStock)),
		tgbotapi.NewInlineKeyboardRow(button("Финансовый обзор", cbFinance), button("Склад", cbWarehouse)),
		tgbotapi.NewInlineKeyboardRow(button("Моя активность", cbActivity)),
	)
}

func documentsMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button("Создать договор", cbDocContract), button("Создать акт", cbDocAct)),
		tgbotapi.NewInlineKeyboardRow(button("Анализ файла", cbDocAnalyze), button("Проверка документа", cbDocCheck)),
	)
}

func marketingMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button("Генератор маркет. идей", cbMktIdeas)),
		tgbotapi.NewInlineKeyboardRow(button("Мои идеи", cbMktHistory)),
	)
}

func quickMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button("Продажа", cbQuickSale), button("Остатки", cbQuickStock)),
		tgbotapi.NewInlineKeyboardRow(button("Заканчивается", cbQuickLowStock)),
	)
}

func profileMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button("📝 История диалогов", cbProfileHistory), button("📊 Аналитика", cbProfileAnalytics)),
		tgbotapi.NewInlineKeyboardRow(button("⚙️ Настройки профиля", cbProfileSettings), button("🔄 Обновить", cbProfileRefresh)),
	)
}

func settingsMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button("✏️ Личные данные", cbEditPersonal)),
		tgbotapi.NewInlineKeyboardRow(button("💼 Бизнес-профиль", cbEditBusiness)),
		tgbotapi.NewInlineKeyboardRow(button("🔔 Уведомления", cbNotifications)),
		tgbotapi.NewInlineKeyboardRow(button("⬅️ Назад в профиль", cbProfileRefresh)),
	)
}

func businessMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button("🏢 Тип бизнеса", cbBusinessType)),
		tgbotapi.NewInlineKeyboardRow(button("📊 Отрасль", prefEditField+fieldIndustry)),
		tgbotapi.NewInlineKeyboardRow(button("👥 Размер бизнеса", prefEditField+fieldSize)),
		tgbotapi.NewInlineKeyboardRow(button("💰 Месячный доход", prefEditField+fieldRevenue)),
		tgbotapi.NewInlineKeyboardRow(button("⬅️ Назад", cbProfileSettings)),
	)
}

func businessTypeMenu() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(businessTypes)+1)
	for _, t := range businessTypes {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(t, prefBusinessType+t)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("⬅️ Назад", cbEditBusiness)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func platformMenu() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(platforms); i += 2 {
		row := []tgbotapi.InlineKeyboardButton{button(platforms[i], prefPlatform+platforms[i])}
		if i+1 < len(platforms) {
			row = append(row, button(platforms[i+1], prefPlatform+platforms[i+1]))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func conversationButtons(conversations []domain.Conversation) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(conversations))
	for _, c := range conversations {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button(fmt.Sprintf("Открыть диалог #%d", c.ID), fmt.Sprintf("%s%d", prefOpenDialog, c.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
