package bot

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/dustin/go-humanize"
)

const (
	// maxMessageLen is Telegram's limit for one text message
	maxMessageLen = 4096

	dateTimeLayout = "02.01 15:04"
	fullDateLayout = "02.01.2006 15:04"

	historyPreviewLen = 80
	reportTopN        = 3
	recentSalesShown  = 5
)

var categoryTitles = map[string]string{
	domain.CategoryGeneral:   "Общее",
	domain.CategoryAnalytics: "Аналитика",
	domain.CategoryTemplates: "Ответы клиентам",
	domain.CategoryDocuments: "Документы",
	domain.CategoryMarketing: "Маркетинг",
	domain.CategoryLegal:     "Юридическое",
}

func categoryTitle(category string) string {
	if t, ok := categoryTitles[category]; ok {
		return t
	}
	return category
}

// money formats a rouble amount with space-grouped thousands and no kopecks
func money(v float64) string {
	return humanize.FormatFloat("# ###.", v) + " руб"
}

func utf8Len(s string) int {
	return utf8.RuneCountInString(s)
}

func esc(s string) string {
	return html.EscapeString(s)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return esc(s)
}

// truncate cuts s to n runes, marking the cut with an ellipsis
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// splitMessage breaks text into Telegram-sized chunks, preferring line breaks
func splitMessage(text string) []string {
	if utf8.RuneCountInString(text) <= maxMessageLen {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		for utf8.RuneCountInString(line) > maxMessageLen {
			if curLen > 0 {
				chunks = append(chunks, cur.String())
				cur.Reset()
				curLen = 0
			}
			r := []rune(line)
			chunks = append(chunks, string(r[:maxMessageLen]))
			line = string(r[maxMessageLen:])
		}
		n := utf8.RuneCountInString(line)
		if curLen+n > maxMessageLen {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
		cur.WriteString(line)
		curLen += n
	}
	if curLen > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

// userMessage turns a service error into a short reply
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "⚠️ Проверьте введённые данные и попробуйте снова."
	case errors.Is(err, domain.ErrNotFound):
		return "❌ Ничего не найдено."
	case errors.Is(err, domain.ErrRateLimited):
		return "⏳ Слишком много запросов. Подождите минуту."
	case errors.Is(err, domain.ErrUnavailable):
		return "⏳ Сервис временно недоступен, попробуйте позже."
	default:
		return "❌ Произошла ошибка, попробуйте позже."
	}
}

func renderWelcome(user *domain.User) string {
	return fmt.Sprintf("👋 Привет, %s!\n\n", esc(user.DisplayName())) +
		"Я твой ИИ-помощник для управления бизнесом. Помогаю с операционными задачами:\n\n" +
		"• 💬 Быстрые ответы клиентам\n" +
		"• 📊 Анализ продаж и остатков\n" +
		"• 📝 Договоры и документы\n" +
		"• 📈 Маркетинг и посты\n" +
		"• ⚖️ Юридические консультации\n\n" +
		"Выбери что нужно сделать:"
}

const helpText = "🆘 <b>Business Assistant - помощь</b>\n\n" +
	"<b>Основные команды:</b>\n" +
	"/start - главное меню\n" +
	"/help - эта справка\n" +
	"/profile - мой профиль\n" +
	"/history - история консультаций\n" +
	"/quick - быстрые действия\n" +
	"/token - ключ доступа к API\n" +
	"/cancel - прервать текущий диалог\n\n" +
	"<b>Быстрые действия (просто напиши):</b>\n" +
	"• 'анализ продаж' - отчет по продажам\n" +
	"• 'ответ клиенту' - шаблоны ответов\n" +
	"• 'договор' - создать документ\n" +
	"• 'маркетинг' - идеи для постов\n" +
	"• 'налоги' - консультация\n\n" +
	"Или используй кнопки меню 👇"

func renderStats(stats *domain.UserStats) string {
	var b strings.Builder
	b.WriteString("👤 <b>Ваш бизнес-профиль:</b>\n\n")
	fmt.Fprintf(&b, "• Консультаций: %d\n", stats.TotalConsultations)
	fmt.Fprintf(&b, "• За последние 7 дней: %d\n", stats.RecentConsultations)

	if len(stats.TopCategories) == 0 {
		b.WriteString("• Популярные темы: Еще нет\n")
	} else {
		names := make([]string, 0, len(stats.TopCategories))
		for _, c := range stats.TopCategories {
			names = append(names, categoryTitle(c.Category))
		}
		fmt.Fprintf(&b, "• Популярные темы: %s\n", strings.Join(names, ", "))
	}

	if stats.LastConsultation != nil {
		fmt.Fprintf(&b, "• Последняя консультация: %s\n", stats.LastConsultation.Format(fullDateLayout))
	}
	fmt.Fprintf(&b, "• С нами с: %s", stats.MemberSince.Format("02.01.2006"))
	return b.String()
}

func renderProfile(user *domain.User) string {
	revenue := 0
	if user.MonthlyRevenue != nil {
		revenue = *user.MonthlyRevenue
	}
	notifications := "Выключены ❌"
	if user.NotificationsEnabled {
		notifications = "Включены ✅"
	}

	lines := []string{
		"👤 <b>Личный профиль:</b>",
		fmt.Sprintf("• ID: %d", user.ID),
		"• Никнейм: @" + orDash(user.Username),
		fmt.Sprintf("• Имя: %s %s", orDash(user.FirstName), esc(user.LastName)),
		"• Язык: " + esc(user.Language),
		"",
		"💼 <b>Бизнес-профиль:</b>",
		"• Тип: " + orDash(user.BusinessType),
		"• Отрасль: " + orDash(user.Industry),
		"• Размер бизнеса: " + orDash(user.BusinessSize),
		"• Месячный доход: " + humanize.FormatInteger("# ###.", revenue) + " ₽",
		"",
		"🔔 <b>Уведомления:</b> " + notifications,
		"",
		"📅 <b>Аккаунт создан:</b> " + user.CreatedAt.Format(fullDateLayout),
		"🕒 <b>Последняя активность:</b> " + user.LastActive.Format(fullDateLayout),
	}
	return strings.Join(lines, "\n")
}

func renderHistory(conversations []domain.Conversation) string {
	if len(conversations) == 0 {
		return "📝 У вас еще не было консультаций."
	}

	var b strings.Builder
	b.WriteString("📝 <b>Последние консультации:</b>\n\n")
	for i, c := range conversations {
		turns := c.UserTurns()
		last := turns[len(turns)-1]
		fmt.Fprintf(&b, "%d. #%d | %s | %s\n", i+1, c.ID, categoryTitle(c.Category), c.CreatedAt.Format(dateTimeLayout))
		fmt.Fprintf(&b, "   💬 %s\n\n", esc(truncate(last, historyPreviewLen)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderConversation pairs user and bot turns. Extra turns on either side are kept.
func renderConversation(c *domain.Conversation) string {
	userTurns := c.UserTurns()
	botTurns := c.BotTurns()

	var b strings.Builder
	fmt.Fprintf(&b, "🗂 <b>Диалог #%d</b>\n", c.ID)
	fmt.Fprintf(&b, "Категория: %s\n", categoryTitle(c.Category))
	fmt.Fprintf(&b, "Создан: %s\n", c.CreatedAt.Format(dateTimeLayout))

	n := max(len(userTurns), len(botTurns))
	for i := 0; i < n; i++ {
		b.WriteString("\n")
		if i < len(userTurns) {
			fmt.Fprintf(&b, "🧑 %s\n", esc(userTurns[i]))
		}
		if i < len(botTurns) {
			fmt.Fprintf(&b, "🤖 %s\n", esc(botTurns[i]))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderSalesReport(report *domain.SalesReport, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 <b>ОТЧЕТ ПО ПРОДАЖАМ</b> (за %d дн.)\n\n", days)
	fmt.Fprintf(&b, "💰 <b>Выручка:</b> %s\n", money(report.TotalRevenue))
	fmt.Fprintf(&b, "📦 <b>Продано:</b> %d шт\n", report.TotalQuantity)
	fmt.Fprintf(&b, "🛒 <b>Транзакций:</b> %d\n", report.TotalSales)
	fmt.Fprintf(&b, "📊 <b>Средний чек:</b> %s\n", money(report.AvgSaleAmount))

	if len(report.TopProducts) == 0 {
		b.WriteString("\n📝 <i>Пока нет данных о продажах</i>")
		return b.String()
	}

	b.WriteString("\n🏆 <b>ТОП ТОВАРОВ ПО ВЫРУЧКЕ:</b>\n")
	for i, p := range report.TopProducts {
		fmt.Fprintf(&b, "%d. %s - %s (%d шт)\n", i+1, esc(p.Name), money(p.Revenue), p.Quantity)
	}

	if len(report.RecentSales) > 0 {
		b.WriteString("\n🕒 <b>ПОСЛЕДНИЕ ПРОДАЖИ:</b>\n")
		for i, s := range report.RecentSales {
			if i == recentSalesShown {
				break
			}
			fmt.Fprintf(&b, "📅 %s • %s - %d шт • %s\n",
				s.Sale.SaleDate.Format(dateTimeLayout), esc(s.Product.Name), s.Sale.Quantity, money(s.Sale.TotalAmount))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderStockReport(report *domain.StockReport) string {
	var b strings.Builder
	b.WriteString("📦 <b>ОСТАТКИ ТОВАРА</b>\n\n")
	fmt.Fprintf(&b, "📊 <b>Товаров:</b> %d\n", report.TotalProducts)
	fmt.Fprintf(&b, "💰 <b>Стоимость запасов:</b> %s\n", money(report.TotalStockValue))
	fmt.Fprintf(&b, "⚠️ <b>Низкий запас:</b> %d позиций\n", report.LowStockCount)

	if len(report.NeedRestock) > 0 {
		b.WriteString("\n🚨 <b>СРОЧНО ПОПОЛНИТЬ:</b>\n")
		for i, item := range report.NeedRestock {
			if i == reportTopN {
				break
			}
			fmt.Fprintf(&b, "• %s - %d шт (нужно +%d)\n", esc(item.Name), item.CurrentStock, item.NeedQuantity)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderFinance(overview *domain.FinancialOverview, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💰 <b>ФИНАНСОВЫЙ ОБЗОР</b> (за %d дн.)\n\n", days)
	fmt.Fprintf(&b, "📈 <b>Выручка:</b> %s\n", money(overview.Revenue.Total))
	fmt.Fprintf(&b, "💵 <b>Прибыль:</b> %s\n", money(overview.Profit.Total))
	fmt.Fprintf(&b, "🎯 <b>Маржа:</b> %.1f%%\n\n", overview.Profit.Margin)
	fmt.Fprintf(&b, "🏭 <b>Активы:</b> %s\n", money(overview.Assets.StockValue))
	fmt.Fprintf(&b, "📊 <b>Оборот:</b> %.1f\n", overview.Efficiency.StockTurnover)
	fmt.Fprintf(&b, "🔮 <b>Прогноз выручки на месяц:</b> %s\n", money(overview.Revenue.Forecast))

	if len(overview.CategoryPerformance) > 0 {
		b.WriteString("\n📂 <b>Эффективность по категориям:</b>\n")
		for i, c := range overview.CategoryPerformance {
			if i == reportTopN {
				break
			}
			fmt.Fprintf(&b, "• %s: %s (маржа %.1f%%)\n", esc(c.Category), money(c.Profit), c.Margin())
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderWarehouse(summary *domain.WarehouseSummary) string {
	var b strings.Builder
	b.WriteString("🏭 <b>СКЛАД</b>\n\n")
	fmt.Fprintf(&b, "📦 Товаров: %d\n", summary.TotalProducts)
	fmt.Fprintf(&b, "⚠️ Низкий запас: %d\n", summary.LowStockCount)
	fmt.Fprintf(&b, "💰 Стоимость запасов: %s\n", money(summary.StockValue))
	fmt.Fprintf(&b, "📈 Выручка за неделю: %s (%d продаж)", money(summary.WeeklyRevenue), summary.WeeklySales)
	return b.String()
}

func renderLowStock(products []domain.Product) string {
	if len(products) == 0 {
		return "✅ Все товары в достаточном количестве."
	}
	var b strings.Builder
	b.WriteString("🚨 <b>ЗАКАНЧИВАЮТСЯ:</b>\n\n")
	for _, p := range products {
		fmt.Fprintf(&b, "• %s - %d %s (минимум %d)\n", esc(p.Name), p.StockQuantity, esc(p.Unit), p.MinStock)
	}
	return strings.TrimRight(b.String(), "\n")
}

// activityBar scales count against max into at most 10 blocks
func activityBar(count, maxCount int) string {
	if maxCount <= 0 {
		return ""
	}
	return strings.Repeat("█", count*10/maxCount)
}

func renderActivity(activity *domain.DailyActivity, insights []domain.CategoryInsight) string {
	var b strings.Builder
	b.WriteString("📈 <b>Ваша недельная активность</b>\n\n")
	fmt.Fprintf(&b, "• Всего консультаций за неделю: <b>%d</b>\n", activity.Total)
	if activity.MostActiveDay != nil {
		fmt.Fprintf(&b, "• Самый активный день: <b>%s</b> (%d запросов)\n", activity.MostActiveDay.Date, activity.MostActiveDay.Count)
	}

	if len(activity.Days) > 0 {
		maxCount := 0
		for _, d := range activity.Days {
			maxCount = max(maxCount, d.Count)
		}
		b.WriteString("\n📅 <b>Активность по дням:</b>\n")
		for _, d := range activity.Days {
			fmt.Fprintf(&b, "%s: %s (%d)\n", d.Date, activityBar(d.Count, maxCount), d.Count)
		}
	}

	if len(insights) > 0 {
		b.WriteString("\n📂 <b>Категории запросов:</b>\n")
		for _, in := range insights {
			fmt.Fprintf(&b, "• %s: %d запросов\n", categoryTitle(in.Category), in.Count)
			if len(in.Examples) > 0 {
				fmt.Fprintf(&b, "  Примеры: %s\n", esc(strings.Join(in.Examples, "; ")))
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderIdea(idea *domain.MarketingIdea) string {
	var b strings.Builder
	b.WriteString("🎯 <b>МАРКЕТИНГОВАЯ ИДЕЯ</b>\n\n")
	fmt.Fprintf(&b, "📌 <b>%s</b>\n\n", esc(idea.Title))
	fmt.Fprintf(&b, "%s\n", esc(idea.Description))
	if idea.Examples != "" {
		fmt.Fprintf(&b, "\n📝 <b>Примеры:</b>\n%s\n", esc(idea.Examples))
	}
	fmt.Fprintf(&b, "\n📱 %s • 🎯 %s", esc(idea.Platform), esc(idea.Goal))
	return b.String()
}

func renderIdeas(ideas []domain.MarketingIdea) string {
	if len(ideas) == 0 {
		return "💡 Вы еще не генерировали идей."
	}
	var b strings.Builder
	b.WriteString("💡 <b>Ваши идеи:</b>\n\n")
	for i, idea := range ideas {
		fmt.Fprintf(&b, "%d. %s (%s, %s)\n", i+1, esc(idea.Title), esc(idea.Platform), idea.CreatedAt.Format("02.01"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func bulletList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "• %s\n", esc(item))
	}
	return b.String()
}

func renderGenerated(doc *domain.GeneratedDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📄 <b>%s</b>\n", esc(doc.Title))
	if doc.Document != nil {
		fmt.Fprintf(&b, "🗂 Файл: %s\n", esc(doc.Document.Filename))
	}

	if len(doc.KeyPoints) > 0 {
		b.WriteString("\n🔑 <b>КЛЮЧЕВЫЕ ПУНКТЫ:</b>\n")
		b.WriteString(bulletList(doc.KeyPoints))
	}
	if len(doc.RequiredFields) > 0 {
		b.WriteString("\n📋 <b>ОБЯЗАТЕЛЬНЫЕ ПОЛЯ:</b>\n")
		b.WriteString(bulletList(doc.RequiredFields))
	}
	if doc.Checklist != "" {
		fmt.Fprintf(&b, "\n✅ <b>ЧЕК-ЛИСТ:</b>\n%s\n", esc(doc.Checklist))
	}
	if doc.Risks != "" {
		fmt.Fprintf(&b, "\n⚠️ <b>РИСКИ:</b>\n%s\n", esc(doc.Risks))
	}
	if doc.Recommendations != "" {
		fmt.Fprintf(&b, "\n💡 <b>РЕКОМЕНДАЦИИ:</b>\n%s\n", esc(doc.Recommendations))
	}

	fmt.Fprintf(&b, "\n📝 <b>ТЕКСТ:</b>\n\n%s", esc(doc.Content))
	return b.String()
}

var reviewStatusEmoji = map[string]string{
	"ok":       "✅",
	"risky":    "⚠️",
	"critical": "❌",
}

func renderReview(review *domain.DocumentReview) string {
	emoji, ok := reviewStatusEmoji[review.Status]
	if !ok {
		emoji = "📄"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>РЕЗУЛЬТАТ ПРОВЕРКИ</b>\n\n", emoji)
	fmt.Fprintf(&b, "📊 Статус: %s\n", strings.ToUpper(esc(review.Status)))
	fmt.Fprintf(&b, "📝 Общая оценка: %s\n", orDash(review.Summary))

	b.WriteString("\n❌ <b>ОШИБКИ:</b>\n")
	if len(review.Errors) == 0 {
		b.WriteString("Ошибок не найдено!\n")
	} else {
		b.WriteString(bulletList(review.Errors))
	}

	b.WriteString("\n⚠️ <b>РИСКИ:</b>\n")
	if len(review.Risks) == 0 {
		b.WriteString("Рисков не обнаружено!\n")
	} else {
		b.WriteString(bulletList(review.Risks))
	}

	if len(review.Recommendations) > 0 {
		b.WriteString("\n💡 <b>РЕКОМЕНДАЦИИ:</b>\n")
		b.WriteString(bulletList(review.Recommendations))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderInsight(doc *domain.Document, insight *domain.Insight) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 <b>АНАЛИЗ: %s</b>\n\n", esc(doc.Filename))
	fmt.Fprintf(&b, "%s\n", esc(insight.Summary))
	if len(insight.Risks) > 0 {
		b.WriteString("\n⚠️ <b>РИСКИ:</b>\n")
		b.WriteString(bulletList(insight.Risks))
	}
	if len(insight.Recommendations) > 0 {
		b.WriteString("\n💡 <b>РЕКОМЕНДАЦИИ:</b>\n")
		b.WriteString(bulletList(insight.Recommendations))
	}
	return strings.TrimRight(b.String(), "\n")
}
