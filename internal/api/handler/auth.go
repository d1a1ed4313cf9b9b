package handler

import (
	"net/http"

	"github.com/Rrens/business-assistant/internal/api/response"
	"github.com/rs/zerolog/log"
)

// TokenIssuer mints and checks API tokens
type TokenIssuer interface {
	GenerateTokenPair(userID int64, username string) (accessToken, refreshToken string, expiresIn int64, err error)
	ValidateRefreshToken(token string) (int64, error)
}

// TokenPair is the token response body
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthHandler handles authentication endpoints. Tokens are first issued by
// the bot's /token command; the API only refreshes them.
type AuthHandler struct {
	tokens TokenIssuer
	users  UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(tokens TokenIssuer, users UserService) *AuthHandler {
	return &AuthHandler{tokens: tokens, users: users}
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var input refreshRequest
	if !decodeBody(w, r, &input) {
		return
	}

	userID, err := h.tokens.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		response.Unauthorized(w, "invalid refresh token")
		return
	}

	// The user must still exist.
	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	access, refresh, expiresIn, err := h.tokens.GenerateTokenPair(user.ID, user.Username)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to issue token pair")
		response.InternalError(w, "failed to issue tokens")
		return
	}

	response.OK(w, TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
		TokenType:    "Bearer",
	})
}
