package llm_test

import (
	"testing"

	"github.com/Rrens/business-assistant/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMarketingPrompt(t *testing.T) {
	prompt := llm.BuildMarketingPrompt("кофейня", "больше клиентов", "Instagram", "")

	for _, s := range []string{"кофейня", "больше клиентов", "Instagram", "нет", `"title"`, `"examples"`} {
		assert.Contains(t, prompt, s)
	}
}

func TestBuildChatPrompt(t *testing.T) {
	prompt := llm.BuildChatPrompt("legal", "Как оформить договор?", llm.BusinessContext{BusinessType: "ИП", Industry: "retail"})

	assert.Contains(t, prompt, "legal")
	assert.Contains(t, prompt, "ИП")
	assert.Contains(t, prompt, "retail")
	assert.NotContains(t, prompt, "Размер бизнеса")
	assert.Contains(t, prompt, "Как оформить договор?")
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "plain object",
			content: `{"title":"x"}`,
			want:    `{"title":"x"}`,
		},
		{
			name:    "json code block",
			content: "Вот идея:\n```json\n{\"title\":\"x\"}\n```\nУдачи!",
			want:    `{"title":"x"}`,
		},
		{
			name:    "bare code block",
			content: "```\n{\"a\":1}\n```",
			want:    `{"a":1}`,
		},
		{
			name:    "surrounded by prose",
			content: `Ответ: {"a": {"b": 2}} конец`,
			want:    `{"a": {"b": 2}}`,
		},
		{
			name:    "no object",
			content: "просто текст",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, llm.ExtractJSON(tt.content))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Title string `json:"title"`
	}

	require.NoError(t, llm.DecodeJSON("```json\n{\"title\":\"Идея\"}\n```", &out))
	assert.Equal(t, "Идея", out.Title)

	assert.ErrorIs(t, llm.DecodeJSON("nothing", &out), llm.ErrNoJSON)
	assert.Error(t, llm.DecodeJSON("{broken", &out))
}
