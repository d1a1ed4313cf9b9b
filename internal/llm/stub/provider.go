// Package stub provides a deterministic offline provider. It answers every task
// with canned content in the shape the caller asked for.
package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/Rrens/business-assistant/internal/llm"
)

const Name = "stub"

// Provider implements llm.Provider without any network access
type Provider struct{}

// NewProvider creates a new stub provider
func NewProvider() llm.Provider {
	return &Provider{}
}

func (p *Provider) Name() string {
	return Name
}

func (p *Provider) AvailableModels() []string {
	return []string{"stub"}
}

func (p *Provider) DefaultModel() string {
	return "stub"
}

func (p *Provider) IsConfigured() bool {
	return true
}

// Complete returns canned content for req.Task
func (p *Provider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var payload any
	switch req.Task {
	case llm.TaskMarketing:
		payload = map[string]any{
			"title":       "Идея для продвижения",
			"description": "Создайте серию коротких видео о том, как работает ваш бизнес изнутри.",
			"examples":    "«Как мы готовим заказы за 60 секунд»\n«Топ-3 проблемы клиентов и как мы их решаем»",
		}
	case llm.TaskContract:
		payload = map[string]any{
			"document_type":   "договор",
			"title":           "Договор оказания услуг",
			"content":         "ДОГОВОР\n\n1. Предмет договора\n" + req.Prompt,
			"key_points":      []string{"Предмет договора", "Сроки", "Стоимость"},
			"risks":           "Риски не выявлены",
			"recommendations": "Проверьте реквизиты сторон перед подписанием",
		}
	case llm.TaskAct:
		payload = map[string]any{
			"document_type":   "акт",
			"title":           "Акт выполненных работ",
			"content":         "АКТ\n\n" + req.Prompt,
			"required_fields": []string{"Дата", "Реквизиты сторон", "Сумма"},
			"checklist":       "Заполните даты, суммы и подписи сторон",
		}
	case llm.TaskReview:
		payload = map[string]any{
			"status":          "ok",
			"errors":          []string{},
			"risks":           []string{},
			"recommendations": []string{"Сверьте реквизиты сторон"},
			"summary":         "Критичных ошибок не найдено",
		}
	case llm.TaskInsight:
		payload = map[string]any{
			"summary":         "Документ содержит " + fmt.Sprint(utf8.RuneCountInString(req.Prompt)) + " символов текста",
			"risks":           []string{},
			"recommendations": []string{"Сохраните документ в архиве"},
		}
	default:
		return &llm.Response{
			Content: fmt.Sprintf("[Ответ ассистента на запрос: %s]", preview(req.Prompt, 60)),
			Model:   "stub",
		}, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stub answer: %w", err)
	}
	return &llm.Response{Content: string(data), Model: "stub"}, nil
}

func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
