// Package ollama runs completions against a self-hosted Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Rrens/business-assistant/internal/config"
	"github.com/Rrens/business-assistant/internal/llm"
)

const (
	Name         = "ollama"
	defaultModel = "llama3"
	chatPath     = "/api/chat"

	// local models are slow on CPU; the router's own timeout usually fires first
	httpTimeout = 5 * time.Minute

	maxErrorBody = 512
)

type Provider struct {
	host   string
	model  string
	client *http.Client
}

func NewProvider(cfg config.OllamaConfig) llm.Provider {
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	return &Provider{
		host:   strings.TrimRight(cfg.Host, "/"),
		model:  model,
		client: &http.Client{Timeout: httpTimeout},
	}
}

func (p *Provider) Name() string { return Name }

func (p *Provider) AvailableModels() []string {
	return []string{"llama3", "llama3.1", "llama3.2", "mistral", "qwen2.5"}
}

func (p *Provider) DefaultModel() string { return p.model }

// IsConfigured reports whether a server address is set
func (p *Provider) IsConfigured() bool { return p.host != "" }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type options struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Format   string    `json:"format,omitempty"`
	Stream   bool      `json:"stream"`
	Options  options   `json:"options"`
}

type chatResponse struct {
	Message         message `json:"message"`
	PromptEvalCount int     `json:"prompt_eval_count"`
	EvalCount       int     `json:"eval_count"`
}

func buildChatRequest(req llm.Request, model string) chatRequest {
	msgs := make([]message, 0, 2)
	if req.System != "" {
		msgs = append(msgs, message{Role: "system", Content: req.System})
	}
	msgs = append(msgs, message{Role: "user", Content: req.Prompt})

	out := chatRequest{
		Model:    model,
		Messages: msgs,
		Options:  options{Temperature: req.Temperature, NumPredict: req.MaxTokensOr()},
	}
	if req.JSON {
		out.Format = "json"
	}
	return out
}

// Complete sends a single non-streaming chat turn
func (p *Provider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	if model == "" {
		model = p.model
	}

	body, err := json.Marshal(buildChatRequest(req, model))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+chatPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if strings.TrimSpace(out.Message.Content) == "" {
		return nil, errors.New("empty response from ollama")
	}

	return &llm.Response{
		Content:    out.Message.Content,
		Model:      model,
		TokensUsed: out.PromptEvalCount + out.EvalCount,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}
