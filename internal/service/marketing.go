package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/Rrens/business-assistant/internal/llm"
	"github.com/rs/zerolog/log"
)

// MarketingService generates and stores promotion ideas
type MarketingService struct {
	ideaRepo domain.MarketingIdeaRepository
	llm      Completer
	provider string
	now      Clock
}

// NewMarketingService creates a new marketing service
func NewMarketingService(ideaRepo domain.MarketingIdeaRepository, completer Completer, provider string) *MarketingService {
	return &MarketingService{
		ideaRepo: ideaRepo,
		llm:      completer,
		provider: provider,
		now:      time.Now,
	}
}

type ideaPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Examples    string `json:"examples"`
}

// GenerateIdea asks the LLM for one idea and stores it with its inputs
func (s *MarketingService) GenerateIdea(ctx context.Context, userID int64, req domain.MarketingRequest) (*domain.MarketingIdea, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	custom := strings.TrimSpace(req.CustomRequest)
	if strings.EqualFold(custom, "нет") {
		custom = ""
	}

	resp, err := s.llm.Complete(ctx, s.provider, llm.Request{
		Task:        llm.TaskMarketing,
		System:      llm.JSONSystemPrompt,
		Prompt:      llm.BuildMarketingPrompt(req.Niche, req.Goal, req.Platform, custom),
		JSON:        true,
		Temperature: 0.8,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate idea: %w", err)
	}

	var payload ideaPayload
	if err := llm.DecodeJSON(resp.Content, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse idea: %w", err)
	}

	idea := &domain.MarketingIdea{
		UserID:      userID,
		Niche:       req.Niche,
		Goal:        req.Goal,
		Platform:    req.Platform,
		Title:       payload.Title,
		Description: payload.Description,
		Examples:    payload.Examples,
		CreatedAt:   s.now(),
	}
	if custom != "" {
		idea.CustomRequest = &custom
	}

	if err := s.ideaRepo.Create(ctx, idea); err != nil {
		return nil, fmt.Errorf("failed to save idea: %w", err)
	}

	log.Info().Int64("user_id", userID).Int64("idea_id", idea.ID).Str("platform", idea.Platform).Msg("Marketing idea generated")
	return idea, nil
}

// List returns the user's latest ideas
func (s *MarketingService) List(ctx context.Context, userID int64, limit int) ([]domain.MarketingIdea, error) {
	if limit <= 0 {
		limit = 10
	}
	ideas, err := s.ideaRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	return ideas, nil
}
