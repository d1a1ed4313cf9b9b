package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/Rrens/business-assistant/internal/llm"
	"github.com/rs/zerolog/log"
)

// categoryKeywords is checked in order; the first category with a matching stem wins
var categoryKeywords = []struct {
	category string
	stems    []string
}{
	{domain.CategoryAnalytics, []string{"анализ", "отчет", "отчёт", "продаж", "финанс"}},
	{domain.CategoryTemplates, []string{"ответ", "клиен", "шаблон"}},
	{domain.CategoryDocuments, []string{"договор", "документ", "акт "}},
	{domain.CategoryMarketing, []string{"маркетинг", "пост", "акци", "реклам"}},
	{domain.CategoryLegal, []string{"налог", "юри", "отчетност"}},
}

var cannedReplies = map[string]string{
	domain.CategoryAnalytics: "📈 Аналитика:\n" +
		"• Отчет по продажам\n" +
		"• Остатки на складе\n" +
		"• Финансовый обзор\n\n" +
		"Откройте раздел «Аналитика» в меню.",
	domain.CategoryTemplates: "💬 Готовые ответы:\n" +
		"— Отследить заказ\n" +
		"— Ответ на жалобу\n" +
		"— Уточнение деталей\n" +
		"— Благодарность за отзыв",
	domain.CategoryDocuments: "📝 Генератор документов:\n" +
		"• Договор\n" +
		"• Акт\n" +
		"• Коммерческое предложение\n" +
		"• Уведомления",
	domain.CategoryMarketing: "📣 Идеи для маркетинга:\n" +
		"— Акции недели\n" +
		"— Идеи для соцсетей\n" +
		"— Готовые тексты постов",
	domain.CategoryLegal: "⚖️ Консультация:\n" +
		"— Сроки отчетности\n" +
		"— Налоги\n" +
		"— Претензии клиентов",
	domain.CategoryGeneral: "🤖 Я бизнес-ассистент. Спросите меня о продажах, документах, маркетинге или налогах.",
}

// Classify maps free text to a conversation category by keyword stems
func Classify(text string) string {
	lower := strings.ToLower(text) + " "
	for _, kw := range categoryKeywords {
		for _, stem := range kw.stems {
			if strings.Contains(lower, stem) {
				return kw.category
			}
		}
	}
	return domain.CategoryGeneral
}

// CannedReply is the offline answer for a category
func CannedReply(category string) string {
	if reply, ok := cannedReplies[category]; ok {
		return reply
	}
	return cannedReplies[domain.CategoryGeneral]
}

// Reply is the assistant's answer to one message
type Reply struct {
	Text         string               `json:"text"`
	Category     string               `json:"category"`
	Generated    bool                 `json:"generated"`
	Conversation *domain.Conversation `json:"conversation,omitempty"`
}

// AssistantService answers free-form questions and records every exchange
type AssistantService struct {
	conversations *ConversationService
	llm           Completer
	provider      string
}

// NewAssistantService creates a new assistant. A nil completer answers with canned text only.
func NewAssistantService(conversations *ConversationService, completer Completer, provider string) *AssistantService {
	return &AssistantService{
		conversations: conversations,
		llm:           completer,
		provider:      provider,
	}
}

// Answer classifies text, produces a reply and records the exchange.
// LLM failures fall back to the canned reply of the category.
func (s *AssistantService) Answer(ctx context.Context, user *domain.User, text string) (*Reply, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: user is required", domain.ErrValidation)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message is empty", domain.ErrValidation)
	}

	reply := &Reply{Category: Classify(text)}
	reply.Text, reply.Generated = s.generate(ctx, user, reply.Category, text)

	conv, err := s.conversations.RecordExchange(ctx, user.ID, text, reply.Text, reply.Category)
	if err != nil {
		return nil, err
	}
	reply.Conversation = conv
	return reply, nil
}

// Record stores an exchange produced outside Answer, such as a menu action
func (s *AssistantService) Record(ctx context.Context, userID int64, userText, botText, category string) error {
	_, err := s.conversations.RecordExchange(ctx, userID, userText, botText, category)
	return err
}

func (s *AssistantService) generate(ctx context.Context, user *domain.User, category, text string) (string, bool) {
	if s.llm == nil {
		return CannedReply(category), false
	}

	resp, err := s.llm.Complete(ctx, s.provider, llm.Request{
		Task:   llm.TaskChat,
		System: llm.AssistantSystemPrompt,
		Prompt: llm.BuildChatPrompt(category, text, llm.BusinessContext{
			BusinessType: user.BusinessType,
			Industry:     user.Industry,
			BusinessSize: user.BusinessSize,
		}),
		Temperature: 0.7,
		MaxTokens:   1024,
	})
	if err != nil || strings.TrimSpace(resp.Content) == "" {
		log.Warn().Err(err).Int64("user_id", user.ID).Str("provider", s.provider).Msg("LLM reply failed, using canned reply")
		return CannedReply(category), false
	}
	return strings.TrimSpace(resp.Content), true
}
