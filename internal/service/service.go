package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/Rrens/business-assistant/internal/llm"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateInput runs struct tag validation and wraps failures as domain.ErrValidation
func validateInput(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("%w: %s failed on %s", domain.ErrValidation, f.Field(), f.Tag())
		}
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// Completer runs a prompt through a named LLM provider. *llm.Router implements it.
type Completer interface {
	Complete(ctx context.Context, provider string, req llm.Request) (*llm.Response, error)
}

// ReportCache stores computed reports per user
type ReportCache interface {
	Get(ctx context.Context, userID int64, key string, dest any) (bool, error)
	Set(ctx context.Context, userID int64, key string, value any) error
	InvalidateUser(ctx context.Context, userID int64) error
}

type noopCache struct{}

func (noopCache) Get(context.Context, int64, string, any) (bool, error) { return false, nil }
func (noopCache) Set(context.Context, int64, string, any) error         { return nil }
func (noopCache) InvalidateUser(context.Context, int64) error           { return nil }

// NoopCache is a ReportCache that never hits
func NoopCache() ReportCache {
	return noopCache{}
}

// Clock returns the current time; tests replace it
type Clock func() time.Time
