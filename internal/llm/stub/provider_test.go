package stub_test

import (
	"context"
	"testing"

	"github.com/Rrens/business-assistant/internal/llm"
	"github.com/Rrens/business-assistant/internal/llm/stub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Complete(t *testing.T) {
	p := stub.NewProvider()
	ctx := context.Background()

	tests := []struct {
		task  string
		field string
	}{
		{llm.TaskMarketing, "title"},
		{llm.TaskContract, "content"},
		{llm.TaskAct, "required_fields"},
		{llm.TaskReview, "status"},
		{llm.TaskInsight, "summary"},
	}

	for _, tt := range tests {
		t.Run(tt.task, func(t *testing.T) {
			resp, err := p.Complete(ctx, llm.Request{Task: tt.task, Prompt: "детали", JSON: true}, "")
			require.NoError(t, err)

			var out map[string]any
			require.NoError(t, llm.DecodeJSON(resp.Content, &out))
			assert.Contains(t, out, tt.field)
		})
	}
}

func TestProvider_Chat(t *testing.T) {
	resp, err := stub.NewProvider().Complete(context.Background(), llm.Request{Task: llm.TaskChat, Prompt: "привет"}, "")

	require.NoError(t, err)
	assert.Contains(t, resp.Content, "привет")
}

func TestProvider_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stub.NewProvider().Complete(ctx, llm.Request{}, "")
	assert.ErrorIs(t, err, context.Canceled)
}
