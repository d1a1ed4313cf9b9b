package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/rs/zerolog/log"
)

const conversationLockPrefix = "conv"

// ConversationService groups message exchanges into conversations
type ConversationService struct {
	convRepo domain.ConversationRepository
	tx       domain.TxRunner
	locker   Locker
	window   time.Duration
	now      Clock
}

// NewConversationService creates a new conversation service. A zero window means domain.ConversationWindow.
func NewConversationService(
	convRepo domain.ConversationRepository,
	tx domain.TxRunner,
	locker Locker,
	window time.Duration,
) *ConversationService {
	if window <= 0 {
		window = domain.ConversationWindow
	}
	if locker == nil {
		locker = NewKeyedMutex()
	}
	return &ConversationService{
		convRepo: convRepo,
		tx:       tx,
		locker:   locker,
		window:   window,
		now:      time.Now,
	}
}

// RecordExchange appends one user/bot exchange to the user's active conversation,
// or starts a new conversation when none was active within the window.
func (s *ConversationService) RecordExchange(ctx context.Context, userID int64, userText, botText, category string) (*domain.Conversation, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if category == "" {
		category = domain.DefaultCategory
	}

	unlock, err := s.locker.Lock(ctx, userKey(conversationLockPrefix, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock conversation: %w", err)
	}
	defer unlock()

	now := s.now()
	var conv *domain.Conversation
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		latest, err := s.convRepo.FindLatest(ctx, userID, now.Add(-s.window))
		if err != nil {
			return err
		}

		if latest != nil && latest.Appendable(now, s.window) {
			latest.Append(userText, botText, now)
			if err := s.convRepo.Update(ctx, latest); err != nil {
				return err
			}
			conv = latest
			return nil
		}

		created := &domain.Conversation{
			UserID:        userID,
			Category:      category,
			UserMessage:   userText,
			BotResponse:   botText,
			CreatedAt:     now,
			LastMessageAt: now,
		}
		if err := s.convRepo.Create(ctx, created); err != nil {
			return err
		}
		conv = created
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record exchange: %w", err)
	}

	log.Debug().
		Int64("user_id", userID).
		Int64("conversation_id", conv.ID).
		Str("category", conv.Category).
		Msg("Exchange recorded")

	return conv, nil
}

// List returns the user's conversations, newest first
func (s *ConversationService) List(ctx context.Context, userID int64, limit int) ([]domain.Conversation, error) {
	if limit <= 0 {
		limit = 10
	}
	convs, err := s.convRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return convs, nil
}

// Get returns one conversation owned by the user
func (s *ConversationService) Get(ctx context.Context, userID, id int64) (*domain.Conversation, error) {
	conv, err := s.convRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	if conv.UserID != userID {
		return nil, fmt.Errorf("failed to get conversation: %w", domain.ErrNotFound)
	}
	return conv, nil
}
