package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/jackc/pgx/v5"
)

const conversationColumns = `id, user_id, category, user_message, bot_response, created_at, last_message_at`

// ConversationRepository implements domain.ConversationRepository
type ConversationRepository struct {
	db *DB
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// FindLatest returns the most recently active conversation of the user with
// last_message_at >= since, or nil. Inside a transaction the row stays locked until commit.
func (r *ConversationRepository) FindLatest(ctx context.Context, userID int64, since time.Time) (*domain.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE user_id = $1 AND last_message_at >= $2
		ORDER BY last_message_at DESC, id DESC
		LIMIT 1
		FOR UPDATE
	`
	c, err := scanConversation(r.db.q(ctx).QueryRow(ctx, query, userID, since))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, "find latest conversation")
	}
	return c, nil
}

func (r *ConversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	query := `
		INSERT INTO conversations (user_id, category, user_message, bot_response, created_at, last_message_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.q(ctx).QueryRow(ctx, query,
		conv.UserID,
		conv.Category,
		conv.UserMessage,
		conv.BotResponse,
		conv.CreatedAt,
		conv.LastMessageAt,
	).Scan(&conv.ID)
	return mapError(err, "create conversation")
}

// Update rewrites the texts and activity timestamp of an existing conversation
func (r *ConversationRepository) Update(ctx context.Context, conv *domain.Conversation) error {
	query := `
		UPDATE conversations
		SET user_message = $1, bot_response = $2, last_message_at = $3
		WHERE id = $4
	`
	tag, err := r.db.q(ctx).Exec(ctx, query, conv.UserMessage, conv.BotResponse, conv.LastMessageAt, conv.ID)
	if err != nil {
		return mapError(err, "update conversation")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update conversation %d: %w", conv.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1`

	c, err := scanConversation(r.db.q(ctx).QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "get conversation")
	}
	return c, nil
}

// ListByUser returns the latest conversations of the user, newest first
func (r *ConversationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	return r.list(ctx, "list conversations", query, userID, limit)
}

// ListSince returns conversations created at or after since, oldest first
func (r *ConversationRepository) ListSince(ctx context.Context, userID int64, since time.Time) ([]domain.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at ASC, id ASC
	`
	return r.list(ctx, "list conversations since", query, userID, since)
}

// Summarize counts all conversations of the user in one pass
func (r *ConversationRepository) Summarize(ctx context.Context, userID int64, recentSince time.Time) (*domain.ConversationSummary, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE created_at >= $2),
		       MIN(created_at),
		       MAX(created_at)
		FROM conversations
		WHERE user_id = $1
	`
	var summary domain.ConversationSummary
	err := r.db.q(ctx).QueryRow(ctx, query, userID, recentSince).
		Scan(&summary.Total, &summary.Recent, &summary.First, &summary.Last)
	if err != nil {
		return nil, mapError(err, "summarize conversations")
	}
	return &summary, nil
}

// CountByCategory groups all conversations by category; an empty category counts as general
func (r *ConversationRepository) CountByCategory(ctx context.Context, userID int64, limit int) ([]domain.CategoryCount, error) {
	query := `
		SELECT COALESCE(NULLIF(category, ''), $2) AS cat, COUNT(*) AS cnt
		FROM conversations
		WHERE user_id = $1
		GROUP BY cat
		ORDER BY cnt DESC, cat ASC
		LIMIT $3
	`
	rows, err := r.db.q(ctx).Query(ctx, query, userID, domain.DefaultCategory, limit)
	if err != nil {
		return nil, mapError(err, "count conversations by category")
	}
	defer rows.Close()

	counts := []domain.CategoryCount{}
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "count conversations by category")
	}
	return counts, nil
}

func (r *ConversationRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Conversation, error) {
	rows, err := r.db.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, op)
	}
	defer rows.Close()

	convs := []domain.Conversation{}
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		convs = append(convs, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, op)
	}
	return convs, nil
}

func scanConversation(row pgx.Row) (*domain.Conversation, error) {
	var c domain.Conversation
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Category,
		&c.UserMessage,
		&c.BotResponse,
		&c.CreatedAt,
		&c.LastMessageAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
