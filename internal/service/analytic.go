package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/business-assistant/internal/analytics"
	"github.com/Rrens/business-assistant/internal/domain"
)

const (
	dailyActivityLimit    = 100
	categoryInsightsLimit = 200
	weeklyTopCategories   = 5
)

// AnalyticService reports how a user uses the assistant
type AnalyticService struct {
	convRepo domain.ConversationRepository
	loc      *time.Location
}

// NewAnalyticService creates a new analytic service
func NewAnalyticService(convRepo domain.ConversationRepository, loc *time.Location) *AnalyticService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticService{convRepo: convRepo, loc: loc}
}

// DailyActivity counts the user's latest conversations per day
func (s *AnalyticService) DailyActivity(ctx context.Context, userID int64) (*domain.DailyActivity, error) {
	convs, err := s.convRepo.ListByUser(ctx, userID, dailyActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	activity := analytics.BuildDailyActivity(convs, s.loc)
	return &activity, nil
}

// CategoryInsights describes the user's latest conversations per category
func (s *AnalyticService) CategoryInsights(ctx context.Context, userID int64) ([]domain.CategoryInsight, error) {
	convs, err := s.convRepo.ListByUser(ctx, userID, categoryInsightsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return analytics.BuildCategoryInsights(convs), nil
}

// WeeklyReport combines daily activity with the busiest categories
type WeeklyReport struct {
	Activity   domain.DailyActivity     `json:"activity"`
	Categories []domain.CategoryInsight `json:"categories"`
}

// WeeklyReport bundles daily activity with category insights
func (s *AnalyticService) WeeklyReport(ctx context.Context, userID int64) (*WeeklyReport, error) {
	activity, err := s.DailyActivity(ctx, userID)
	if err != nil {
		return nil, err
	}
	insights, err := s.CategoryInsights(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(insights) > weeklyTopCategories {
		insights = insights[:weeklyTopCategories]
	}
	return &WeeklyReport{Activity: *activity, Categories: insights}, nil
}
