package domain

import (
	"context"
	"strings"
	"time"
)

const (
	// TurnSeparator joins consecutive turns inside one conversation record
	TurnSeparator = "\n\n"

	// ConversationWindow is how long a conversation stays appendable after its last message
	ConversationWindow = 12 * time.Hour

	DefaultCategory = "general"
)

// Conversation categories assigned by the assistant
const (
	CategoryGeneral   = DefaultCategory
	CategoryAnalytics = "analytics"
	CategoryTemplates = "templates"
	CategoryDocuments = "documents"
	CategoryMarketing = "marketing"
	CategoryLegal     = "legal"
)

// Conversation groups message turns exchanged with one user inside the activity window
type Conversation struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Category      string    `json:"category"`
	UserMessage   string    `json:"user_message"`
	BotResponse   string    `json:"bot_response"`
	CreatedAt     time.Time `json:"created_at"`
	LastMessageAt time.Time `json:"last_message_at"`
}

// Appendable reports whether the conversation can still take new turns at now
func (c *Conversation) Appendable(now time.Time, window time.Duration) bool {
	return now.Sub(c.LastMessageAt) <= window
}

// Append adds one exchange to the conversation and moves its activity timestamp
func (c *Conversation) Append(userText, botText string, now time.Time) {
	c.UserMessage += TurnSeparator + userText
	c.BotResponse += TurnSeparator + botText
	c.LastMessageAt = now
}

// UserTurns splits the stored user text back into individual turns
func (c *Conversation) UserTurns() []string {
	return SplitTurns(c.UserMessage)
}

// BotTurns splits the stored bot text back into individual turns
func (c *Conversation) BotTurns() []string {
	return SplitTurns(c.BotResponse)
}

// SplitTurns splits a concatenated conversation field on TurnSeparator
func SplitTurns(text string) []string {
	return strings.Split(text, TurnSeparator)
}

// ConversationRepository defines the interface for conversation storage
type ConversationRepository interface {
	// FindLatest returns the most recent conversation whose last activity is at or after since, or nil
	FindLatest(ctx context.Context, userID int64, since time.Time) (*Conversation, error)
	Create(ctx context.Context, conv *Conversation) error
	Update(ctx context.Context, conv *Conversation) error
	GetByID(ctx context.Context, id int64) (*Conversation, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]Conversation, error)
	ListSince(ctx context.Context, userID int64, since time.Time) ([]Conversation, error)
	// Summarize aggregates every conversation of the user; recentSince bounds Recent
	Summarize(ctx context.Context, userID int64, recentSince time.Time) (*ConversationSummary, error)
	// CountByCategory returns the limit largest categories, ties by name
	CountByCategory(ctx context.Context, userID int64, limit int) ([]CategoryCount, error)
}

// ConversationSummary holds counts and bounds over a user's whole history.
// First and Last are nil when the user has no conversations.
type ConversationSummary struct {
	Total  int
	Recent int
	First  *time.Time
	Last   *time.Time
}
