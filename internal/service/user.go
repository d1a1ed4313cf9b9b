package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/business-assistant/internal/analytics"
	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	statsRecentDays    = 7
	statsTopCategories = 3
	defaultTrendDays   = 30
	maxTrendDays       = 365
)

// UserService handles user profiles and personal statistics
type UserService struct {
	userRepo domain.UserRepository
	convRepo domain.ConversationRepository
	loc      *time.Location
	now      Clock
}

// NewUserService creates a new user service
func NewUserService(userRepo domain.UserRepository, convRepo domain.ConversationRepository, loc *time.Location) *UserService {
	if loc == nil {
		loc = time.UTC
	}
	return &UserService{
		userRepo: userRepo,
		convRepo: convRepo,
		loc:      loc,
		now:      time.Now,
	}
}

// GetOrCreate returns the user for a Telegram identity, creating it on first contact.
// Known users get their last_active refreshed.
func (s *UserService) GetOrCreate(ctx context.Context, identity domain.UserIdentity) (*domain.User, bool, error) {
	if err := validateInput(identity); err != nil {
		return nil, false, err
	}

	now := s.now()
	user, err := s.userRepo.GetByID(ctx, identity.ID)
	if err == nil {
		if err := s.userRepo.Touch(ctx, identity.ID, now); err != nil {
			return nil, false, fmt.Errorf("failed to touch user: %w", err)
		}
		user.LastActive = now
		return user, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to get user: %w", err)
	}

	user = &domain.User{
		ID:                   identity.ID,
		Username:             identity.Username,
		FirstName:            identity.FirstName,
		LastName:             identity.LastName,
		BusinessType:         domain.DefaultBusinessType,
		Language:             domain.DefaultLanguage,
		NotificationsEnabled: true,
		CreatedAt:            now,
		LastActive:           now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent first message
		if errors.Is(err, domain.ErrAlreadyExists) {
			existing, getErr := s.userRepo.GetByID(ctx, identity.ID)
			if getErr != nil {
				return nil, false, fmt.Errorf("failed to get user: %w", getErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	return user, true, nil
}

// Get returns a user by id
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a typed patch to the user's profile
func (s *UserService) UpdateProfile(ctx context.Context, id int64, patch domain.ProfilePatch) (*domain.User, error) {
	if err := validateInput(patch); err != nil {
		return nil, err
	}
	user, err := s.userRepo.UpdateProfile(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// Stats summarizes the user's consultation history
func (s *UserService) Stats(ctx context.Context, id int64) (*domain.UserStats, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	summary, err := s.convRepo.Summarize(ctx, id, s.now().AddDate(0, 0, -statsRecentDays))
	if err != nil {
		return nil, fmt.Errorf("failed to summarize conversations: %w", err)
	}
	top, err := s.convRepo.CountByCategory(ctx, id, statsTopCategories)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}

	return &domain.UserStats{
		TotalConsultations:  summary.Total,
		RecentConsultations: summary.Recent,
		TopCategories:       top,
		FirstConsultation:   summary.First,
		LastConsultation:    summary.Last,
		MemberSince:         user.CreatedAt,
	}, nil
}

// ActivityTrend returns the zero-filled daily conversation counts over the last days
func (s *UserService) ActivityTrend(ctx context.Context, id int64, days int) (*domain.ActivityTrend, error) {
	if days == 0 {
		days = defaultTrendDays
	}
	if days > maxTrendDays {
		return nil, fmt.Errorf("%w: days must be at most %d", domain.ErrValidation, maxTrendDays)
	}
	period, err := domain.PeriodFromDays(s.now(), days)
	if err != nil {
		return nil, err
	}

	convs, err := s.convRepo.ListSince(ctx, id, period.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	trend := analytics.BuildActivityTrend(convs, period, s.loc)
	return &trend, nil
}
