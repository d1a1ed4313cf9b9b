// Package gemini adapts Google's Gemini API to llm.Provider.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Rrens/business-assistant/internal/config"
	"github.com/Rrens/business-assistant/internal/llm"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	// Name identifies the provider in the router
	Name         = "gemini"
	defaultModel = "gemini-2.5-flash"
)

var errNotConfigured = errors.New("gemini provider is not configured (missing API key)")

// Provider talks to Gemini through one lazily created client
type Provider struct {
	apiKey string
	model  string

	mu     sync.Mutex
	client *genai.Client
}

func NewProvider(cfg config.GeminiConfig) *Provider {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Provider{apiKey: cfg.APIKey, model: model}
}

func (p *Provider) Name() string {
	return Name
}

func (p *Provider) AvailableModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-2.5-pro",
		"gemini-1.5-flash",
	}
}

func (p *Provider) DefaultModel() string {
	return p.model
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

func (p *Provider) getClient(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	p.client = client
	return client, nil
}

// Close releases the underlying client, if one was created
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}

func (p *Provider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	if !p.IsConfigured() {
		return nil, errNotConfigured
	}
	if model == "" {
		model = p.model
	}

	client, err := p.getClient(ctx)
	if err != nil {
		return nil, err
	}

	gm := client.GenerativeModel(model)
	gm.SetTemperature(req.Temperature)
	gm.SetMaxOutputTokens(int32(req.MaxTokensOr()))
	if req.System != "" {
		gm.SystemInstruction = genai.NewUserContent(genai.Text(req.System))
	}
	if req.JSON {
		gm.ResponseMIMEType = "application/json"
	}

	start := time.Now()
	resp, err := gm.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	content := candidateText(resp)
	if content == "" {
		return nil, errors.New("empty response from gemini")
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return &llm.Response{
		Content:    content,
		Model:      model,
		TokensUsed: tokens,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}

// candidateText joins the text parts of the first candidate
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
