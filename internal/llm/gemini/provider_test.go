package gemini

import (
	"context"
	"testing"

	"github.com/Rrens/business-assistant/internal/config"
	"github.com/Rrens/business-assistant/internal/llm"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Defaults(t *testing.T) {
	p := NewProvider(config.GeminiConfig{})

	assert.Equal(t, Name, p.Name())
	assert.Equal(t, defaultModel, p.DefaultModel())
	assert.False(t, p.IsConfigured())

	p = NewProvider(config.GeminiConfig{APIKey: "key", Model: "gemini-2.5-pro"})
	assert.Equal(t, "gemini-2.5-pro", p.DefaultModel())
	assert.True(t, p.IsConfigured())
}

func TestProvider_CompleteUnconfigured(t *testing.T) {
	p := NewProvider(config.GeminiConfig{})

	_, err := p.Complete(context.Background(), llm.Request{Prompt: "hi"}, "")
	require.ErrorIs(t, err, errNotConfigured)
	assert.NoError(t, p.Close())
}

func TestCandidateText(t *testing.T) {
	assert.Empty(t, candidateText(nil))
	assert.Empty(t, candidateText(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Привет, "), genai.Text("мир")}},
		}},
	}
	assert.Equal(t, "Привет, мир", candidateText(resp))
}
