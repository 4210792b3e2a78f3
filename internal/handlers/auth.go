package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"wanderai-backend/internal/common"
	"wanderai-backend/internal/dto"
	"wanderai-backend/internal/models"
	"wanderai-backend/internal/utils"
)

// ProfileStore updates user profiles
type ProfileStore interface {
	UpdateProfile(ctx context.Context, id uuid.UUID, displayName *string, prefs map[string]any) (*models.User, error)
}

// AuthHandler serves the authenticated user's own profile. Accounts are
// created on first sign-in by the auth middleware.
type AuthHandler struct {
	users ProfileStore
	log   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(users ProfileStore, log *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, log: log.With("component", "auth")}
}

// GetMe handles GET /v1/auth/me
// @Summary Get current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/auth/me [get]
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toUserResponse(user))
}

// UpdateMe handles PUT /v1/auth/me
// @Summary Update current user profile
// @Description Only provided fields change. preferences replaces the stored object.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.UpdateUserRequest true "Profile fields"
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/auth/me [put]
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			utils.WriteError(w, r, nil, common.Validation("display_name cannot be empty", map[string]any{"field": "display_name"}))
			return
		}
		req.DisplayName = &name
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.ID, req.DisplayName, req.Preferences)
	if err != nil {
		utils.WriteError(w, r, h.log, missing(err, "User"))
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toUserResponse(updated))
}
