package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Rrens/business-assistant/internal/api/response"
	"github.com/Rrens/business-assistant/internal/security"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

type chatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type chatResponse struct {
	Reply          string `json:"reply"`
	Category       string `json:"category"`
	Generated      bool   `json:"generated"`
	ConversationID int64  `json:"conversation_id,omitempty"`
}

// ChatHandler answers free-form questions outside Telegram
type ChatHandler struct {
	users     UserService
	assistant AssistantService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(users UserService, assistant AssistantService) *ChatHandler {
	return &ChatHandler{users: users, assistant: assistant}
}

// Chat classifies the message, answers it and records the exchange
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var input chatRequest
	if !decodeBody(w, r, &input) {
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	reply, err := h.assistant.Answer(r.Context(), user, input.Message)
	if err != nil {
		response.FromError(w, err)
		return
	}

	out := chatResponse{
		Reply:     reply.Text,
		Category:  reply.Category,
		Generated: reply.Generated,
	}
	if reply.Conversation != nil {
		out.ConversationID = reply.Conversation.ID
	}
	response.OK(w, out)
}

// UpdateHandler consumes Telegram updates
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// WebhookHandler receives Telegram updates pushed by the Bot API
type WebhookHandler struct {
	secret  string
	updates UpdateHandler
}

// NewWebhookHandler creates a webhook receiver. An empty secret disables the header check.
func NewWebhookHandler(secret string, updates UpdateHandler) *WebhookHandler {
	return &WebhookHandler{secret: secret, updates: updates}
}

// Receive decodes one update and hands it to the bot.
// Telegram retries non-2xx answers, so handling failures are only logged.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if !security.VerifySecret(h.secret, r.Header.Get(security.WebhookSecretHeader)) {
		response.Unauthorized(w, "invalid webhook secret")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Warn().Err(err).Msg("Failed to decode Telegram update")
		response.BadRequest(w, "invalid update")
		return
	}

	h.updates.HandleUpdate(r.Context(), update)
	response.OK(w, map[string]any{"ok": true})
}
