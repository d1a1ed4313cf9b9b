package postgres

import (
	"context"
	"fmt"

	"github.com/Rrens/business-assistant/internal/domain"
)

// MarketingIdeaRepository implements domain.MarketingIdeaRepository
type MarketingIdeaRepository struct {
	db *DB
}

// NewMarketingIdeaRepository creates a new marketing idea repository
func NewMarketingIdeaRepository(db *DB) *MarketingIdeaRepository {
	return &MarketingIdeaRepository{db: db}
}

func (r *MarketingIdeaRepository) Create(ctx context.Context, idea *domain.MarketingIdea) error {
	query := `
		INSERT INTO marketing_ideas (user_id, niche, goal, platform, custom_request,
			idea_title, idea_description, idea_examples, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.db.q(ctx).QueryRow(ctx, query,
		idea.UserID,
		idea.Niche,
		idea.Goal,
		idea.Platform,
		idea.CustomRequest,
		idea.Title,
		idea.Description,
		idea.Examples,
		idea.CreatedAt,
	).Scan(&idea.ID)
	return mapError(err, "create marketing idea")
}

func (r *MarketingIdeaRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.MarketingIdea, error) {
	query := `
		SELECT id, user_id, niche, goal, platform, custom_request,
			idea_title, idea_description, idea_examples, created_at
		FROM marketing_ideas
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.q(ctx).Query(ctx, query, userID, limit)
	if err != nil {
		return nil, mapError(err, "list marketing ideas")
	}
	defer rows.Close()

	ideas := []domain.MarketingIdea{}
	for rows.Next() {
		var m domain.MarketingIdea
		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.Niche,
			&m.Goal,
			&m.Platform,
			&m.CustomRequest,
			&m.Title,
			&m.Description,
			&m.Examples,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan marketing idea: %w", err)
		}
		ideas = append(ideas, m)
	}
	return ideas, rows.Err()
}
