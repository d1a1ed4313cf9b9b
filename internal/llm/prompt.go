package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// AssistantSystemPrompt frames every chat answer
const AssistantSystemPrompt = `Ты — бизнес-ассистент для предпринимателей малого бизнеса.
Отвечай по-русски, кратко и по делу. Если вопрос юридический, напоминай, что ответ не заменяет консультацию юриста.`

// JSONSystemPrompt is used for every structured generation
const JSONSystemPrompt = `Ты — помощник малого бизнеса. Отвечай ТОЛЬКО одним JSON-объектом, без пояснений и markdown.`

// BusinessContext describes the user for personalised prompts
type BusinessContext struct {
	BusinessType string
	Industry     string
	BusinessSize string
}

// BuildChatPrompt creates the prompt for a free-form question of the given category
func BuildChatPrompt(category, question string, bc BusinessContext) string {
	var b strings.Builder
	b.WriteString("Категория запроса: " + category + "\n")
	if bc.BusinessType != "" {
		b.WriteString("Форма бизнеса: " + bc.BusinessType + "\n")
	}
	if bc.Industry != "" {
		b.WriteString("Отрасль: " + bc.Industry + "\n")
	}
	if bc.BusinessSize != "" {
		b.WriteString("Размер бизнеса: " + bc.BusinessSize + "\n")
	}
	b.WriteString("\nВопрос пользователя:\n")
	b.WriteString(question)
	return b.String()
}

// BuildMarketingPrompt asks for one promotion idea
func BuildMarketingPrompt(niche, goal, platform, customRequest string) string {
	if customRequest == "" {
		customRequest = "нет"
	}
	return fmt.Sprintf(`Ты — эксперт по маркетингу малого бизнеса.
Твоя задача — придумать сильную маркетинговую идею.

Данные бизнеса:
- Ниша: %s
- Цель: %s
- Площадка: %s

Дополнительный запрос:
%s

Сформируй результат в JSON:
{
    "title": "короткое название идеи",
    "description": "подробное описание, как реализовать",
    "examples": "несколько примеров постов или формулировок"
}`, niche, goal, platform, customRequest)
}

// BuildContractPrompt asks for a contract drafted from free-form details
func BuildContractPrompt(details string) string {
	return fmt.Sprintf(`Сгенерируй юридический договор на основе следующих деталей:

%s

Верни результат в JSON:
{
    "document_type": "договор",
    "title": "название договора",
    "content": "полный текст договора с разделами",
    "key_points": ["ключевой пункт 1", "ключевой пункт 2"],
    "risks": "потенциальные риски",
    "recommendations": "рекомендации по использованию"
}`, details)
}

// BuildActPrompt asks for an act of completed work or of transfer
func BuildActPrompt(details string) string {
	return fmt.Sprintf(`Сгенерируй юридический акт (акт выполненных работ или акт приема-передачи) на основе данных:

%s

Верни результат в JSON:
{
    "document_type": "акт",
    "title": "название акта",
    "content": "полный текст акта с реквизитами",
    "required_fields": ["поле 1", "поле 2"],
    "checklist": "чек-лист для заполнения"
}`, details)
}

// BuildReviewPrompt asks for legal errors and risks in a document
func BuildReviewPrompt(text string) string {
	return fmt.Sprintf(`Проверь документ на юридические ошибки и риски, дай рекомендации:

%s

Верни результат в JSON:
{
    "status": "ok/risky/critical",
    "errors": ["ошибка 1"],
    "risks": ["риск 1"],
    "recommendations": ["рекомендация 1"],
    "summary": "общая оценка документа"
}`, text)
}

// BuildInsightPrompt asks for a summary of an uploaded document
func BuildInsightPrompt(text string) string {
	return fmt.Sprintf(`Проанализируй документ и выдели главное для владельца бизнеса:

%s

Верни результат в JSON:
{
    "summary": "краткое содержание",
    "risks": ["риск 1"],
    "recommendations": ["рекомендация 1"]
}`, text)
}

// ErrNoJSON is returned when a completion contains no JSON object
var ErrNoJSON = errors.New("no JSON object in response")

// ExtractJSON pulls the JSON object out of an LLM answer, which may wrap it in
// a markdown code block or surround it with prose.
func ExtractJSON(content string) string {
	if s := extractFromCodeBlock(content, "```json"); s != "" {
		return s
	}
	if s := extractFromCodeBlock(content, "```"); s != "" && strings.HasPrefix(s, "{") {
		return s
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end < start {
		return ""
	}
	return content[start : end+1]
}

// DecodeJSON extracts the JSON object from content and unmarshals it into v
func DecodeJSON(content string, v any) error {
	raw := ExtractJSON(content)
	if raw == "" {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to decode LLM JSON: %w", err)
	}
	return nil
}

func extractFromCodeBlock(content, marker string) string {
	startIdx := strings.Index(content, marker)
	if startIdx == -1 {
		return ""
	}

	rest := content[startIdx+len(marker):]
	endIdx := strings.Index(rest, "```")
	if endIdx == -1 {
		return ""
	}
	return strings.TrimSpace(rest[:endIdx])
}
