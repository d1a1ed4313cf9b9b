package handler

import (
	"net/http"

	"github.com/Rrens/business-assistant/internal/api/response"
	"github.com/Rrens/business-assistant/internal/domain"
)

const defaultHistoryLimit = 10

// ProfileHandler serves the caller's profile and consultation history
type ProfileHandler struct {
	users         UserService
	conversations ConversationService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(users UserService, conversations ConversationService) *ProfileHandler {
	return &ProfileHandler{users: users, conversations: conversations}
}

// Get returns the caller's profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, user)
}

// Update patches the caller's profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var patch domain.ProfilePatch
	if !decodeBody(w, r, &patch) {
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, patch)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, user)
}

// Stats returns the caller's consultation statistics
func (h *ProfileHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	stats, err := h.users.Stats(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, stats)
}

// Trend returns per-day consultation counts; ?days= selects the window
func (h *ProfileHandler) Trend(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	days, err := queryInt(r, "days", 0)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	trend, err := h.users.ActivityTrend(r.Context(), userID, days)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, trend)
}

// ListConversations returns the caller's latest conversations
func (h *ProfileHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit", defaultHistoryLimit)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	conversations, err := h.conversations.List(r.Context(), userID, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, conversations)
}

// GetConversation returns one of the caller's conversations
func (h *ProfileHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "conversationID")
	if !ok {
		return
	}

	conversation, err := h.conversations.Get(r.Context(), userID, id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, conversation)
}
