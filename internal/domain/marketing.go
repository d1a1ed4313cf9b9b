package domain

import (
	"context"
	"time"
)

// MarketingIdea is a generated promotion idea together with the inputs it came from
type MarketingIdea struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Niche         string    `json:"niche"`
	Goal          string    `json:"goal"`
	Platform      string    `json:"platform"`
	CustomRequest *string   `json:"custom_request,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Examples      string    `json:"examples"`
	CreatedAt     time.Time `json:"created_at"`
}

// MarketingRequest holds the generative inputs for an idea
type MarketingRequest struct {
	Niche         string `json:"niche" validate:"required,max=200"`
	Goal          string `json:"goal" validate:"required,max=200"`
	Platform      string `json:"platform" validate:"required,max=100"`
	CustomRequest string `json:"custom_request" validate:"max=1000"`
}

// MarketingIdeaRepository defines the interface for marketing idea storage
type MarketingIdeaRepository interface {
	Create(ctx context.Context, idea *MarketingIdea) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]MarketingIdea, error)
}
