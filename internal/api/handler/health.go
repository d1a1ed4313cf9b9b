package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/business-assistant/internal/api/response"
	"github.com/Rrens/business-assistant/internal/llm"
)

// Pinger is anything whose connectivity can be probed
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderLister describes the registered LLM providers
type ProviderLister interface {
	GetProvidersInfo() []llm.ProviderInfo
	DefaultProvider() string
}

// CacheInvalidator drops the cached reports of one user
type CacheInvalidator interface {
	InvalidateUser(ctx context.Context, userID int64) error
}

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including database connectivity.
// A nil cache means Redis is disabled and is not probed.
func ReadyCheck(db Pinger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database not ready")
			return
		}

		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				response.Error(w, http.StatusServiceUnavailable, "cache not ready")
				return
			}
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}

// ListLLMProviders returns available LLM providers
func ListLLMProviders(providers ProviderLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]any{
			"providers":        providers.GetProvidersInfo(),
			"default_provider": providers.DefaultProvider(),
		})
	}
}

// FlushCache clears the caller's cached reports
func FlushCache(cache CacheInvalidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		if err := cache.InvalidateUser(r.Context(), userID); err != nil {
			response.Error(w, http.StatusInternalServerError, "failed to flush cache: "+err.Error())
			return
		}

		response.OK(w, map[string]any{
			"message": "cache flushed successfully",
		})
	}
}
