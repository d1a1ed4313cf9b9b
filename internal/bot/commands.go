package bot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/Rrens/business-assistant/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

const historyCommandLimit = 5

var uploadExts = map[string]bool{".txt": true, ".md": true, ".csv": true}

func (b *Bot) handleCommand(ctx context.Context, user *domain.User, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	// Any command abandons the current dialog.
	b.states.Clear(user.ID)

	switch msg.Command() {
	case "start":
		b.send(chatID, renderWelcome(user), mainMenu())
	case "help":
		b.send(chatID, helpText, nil)
	case "profile":
		b.showStats(ctx, user, chatID)
	case "history":
		b.showHistory(ctx, user, chatID, historyCommandLimit)
	case "quick":
		b.send(chatID, "🚀 <b>Быстрые действия для бизнеса:</b>\n\nВыберите категорию:", quickMenu())
	case "token":
		b.issueToken(user, chatID)
	case "cancel":
		b.send(chatID, "↩️ Диалог прерван.", mainMenu())
	default:
		b.send(chatID, "Неизвестная команда. /help - справка.", nil)
	}
}

func (b *Bot) showStats(ctx context.Context, user *domain.User, chatID int64) {
	stats, err := b.svc.Users.Stats(ctx, user.ID)
	if err != nil {
		b.fail(chatID, "stats", err)
		return
	}
	b.send(chatID, renderStats(stats), profileMenu())
}

func (b *Bot) showHistory(ctx context.Context, user *domain.User, chatID int64, limit int) {
	conversations, err := b.svc.Conversations.List(ctx, user.ID, limit)
	if err != nil {
		b.fail(chatID, "history", err)
		return
	}
	if len(conversations) == 0 {
		b.send(chatID, renderHistory(nil), nil)
		return
	}
	b.send(chatID, renderHistory(conversations), conversationButtons(conversations))
}

func (b *Bot) issueToken(user *domain.User, chatID int64) {
	if b.svc.Tokens == nil {
		b.send(chatID, "🔒 API недоступно.", nil)
		return
	}

	access, refresh, expiresIn, err := b.svc.Tokens.GenerateTokenPair(user.ID, user.Username)
	if err != nil {
		b.fail(chatID, "token", err)
		return
	}

	log.Info().Int64("user_id", user.ID).Msg("API token issued")
	b.send(chatID, fmt.Sprintf(
		"🔑 <b>Ключ доступа к API</b> (действует %d мин.)\n\n<code>%s</code>\n\n"+
			"♻️ <b>Ключ обновления:</b>\n<code>%s</code>\n\n"+
			"Никому не передавайте эти ключи.",
		expiresIn/60, access, refresh,
	), nil)
}

// handleText routes plain text: an active dialog first, then menu buttons, then the assistant
func (b *Bot) handleText(ctx context.Context, user *domain.User, chatID int64, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	if d, ok := b.states.Get(user.ID); ok {
		b.handleDialog(ctx, user, chatID, d, text)
		return
	}

	if b.openSection(chatID, text) {
		return
	}

	reply, err := b.svc.Assistant.Answer(ctx, user, text)
	if err != nil {
		b.fail(chatID, "answer", err)
		return
	}
	b.send(chatID, esc(reply.Text), nil)
}

// openSection reacts to main menu buttons
func (b *Bot) openSection(chatID int64, text string) bool {
	switch text {
	case btnIntelligence:
		b.send(chatID, "🧠 Раздел: Интеллект", intelligenceMenu())
	case btnAnalytics:
		b.send(chatID, "📊 Раздел: Аналитика", analyticsMenu())
	case btnDocuments:
		b.send(chatID, "📄 Раздел: Документы", documentsMenu())
	case btnMarketing:
		b.send(chatID, "📈 Раздел: Маркетинг", marketingMenu())
	case btnQuick:
		b.send(chatID, "⚡ Быстрые действия:", quickMenu())
	case btnSupport:
		b.send(chatID, "Чем могу помочь? Опишите вопрос одним сообщением.", nil)
	case btnProfile:
		b.send(chatID, "👤 Профиль", profileMenu())
	default:
		return false
	}
	return true
}

// handleDocument stores an uploaded text file and analyzes it
func (b *Bot) handleDocument(ctx context.Context, user *domain.User, chatID int64, file *tgbotapi.Document) {
	b.states.Clear(user.ID)

	ext := strings.ToLower(filepath.Ext(file.FileName))
	if !uploadExts[ext] {
		b.send(chatID, "⚠️ Поддерживаются только текстовые файлы: .txt, .md, .csv", nil)
		return
	}
	if file.FileSize > maxDownloadSize {
		b.send(chatID, "⚠️ Файл слишком большой. Максимум 1 МБ.", nil)
		return
	}

	data, err := b.download(ctx, file.FileID)
	if err != nil {
		b.fail(chatID, "download", err)
		return
	}
	if !utf8.Valid(data) {
		b.send(chatID, "⚠️ Файл должен быть в кодировке UTF-8.", nil)
		return
	}

	b.analyzeText(ctx, user, chatID, file.FileName, string(data))
}

func (b *Bot) analyzeText(ctx context.Context, user *domain.User, chatID int64, filename, content string) {
	doc, err := b.svc.Documents.Upload(ctx, user.ID, domain.DocumentUpload{Filename: filename, Content: content})
	if err != nil {
		b.fail(chatID, "upload", err)
		return
	}

	b.send(chatID, "🔍 Анализирую документ...", nil)
	insight, err := b.svc.Documents.Analyze(ctx, user.ID, doc.ID)
	if err != nil {
		b.fail(chatID, "analyze", err)
		return
	}
	b.send(chatID, renderInsight(doc, insight), nil)
}
