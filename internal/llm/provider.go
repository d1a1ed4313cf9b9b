package llm

import "context"

// Tasks tell a provider what shape of answer the caller expects.
// The stub provider answers by task; real providers only use it for logging.
const (
	TaskChat      = "chat"
	TaskMarketing = "marketing"
	TaskContract  = "contract"
	TaskAct       = "act"
	TaskReview    = "review"
	TaskInsight   = "insight"
)

// Request contains one completion request
type Request struct {
	Task        string
	System      string
	Prompt      string
	JSON        bool // answer must be a single JSON object
	Temperature float32
	MaxTokens   int
}

// Response contains LLM generation result
type Response struct {
	Content    string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Complete runs one prompt through the model
	Complete(ctx context.Context, req Request, model string) (*Response, error)
}

const defaultMaxTokens = 2048

// MaxTokensOr returns req.MaxTokens or the package default
func (r Request) MaxTokensOr() int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	return defaultMaxTokens
}
