package handler

import (
	"net/http"

	"github.com/Rrens/business-assistant/internal/api/response"
	"github.com/Rrens/business-assistant/internal/domain"
)

const defaultIdeaLimit = 10

// MarketingHandler handles marketing idea endpoints
type MarketingHandler struct {
	marketing MarketingService
}

// NewMarketingHandler creates a new marketing handler
func NewMarketingHandler(marketing MarketingService) *MarketingHandler {
	return &MarketingHandler{marketing: marketing}
}

// Generate creates a marketing idea from niche, goal and platform
func (h *MarketingHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var input domain.MarketingRequest
	if !decodeBody(w, r, &input) {
		return
	}

	idea, err := h.marketing.GenerateIdea(r.Context(), userID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, idea)
}

// List returns the caller's generated ideas, newest first
func (h *MarketingHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit", defaultIdeaLimit)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	ideas, err := h.marketing.List(r.Context(), userID, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, ideas)
}
