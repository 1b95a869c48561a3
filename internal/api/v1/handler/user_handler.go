package handler

import (
	"net/http"

	"handled/internal/api/v1/dto"
	"handled/internal/middleware"
	"handled/internal/service"

	"github.com/rs/zerolog"
)

// UserHandler exposes the authenticated user's profile.
type UserHandler struct {
	userSvc service.UserService
	logger  zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userSvc service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{userSvc: userSvc, logger: logger}
}

// RegisterRoutes mounts the user endpoints.
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/users/me", authMw(http.HandlerFunc(h.getMe)))
}

// getMe godoc
// @Summary Get the current user
// @Description Returns the authenticated user's profile and subscription tier.
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponseDTO
// @Failure 401 {string} string "unauthorized"
// @Router /users/me [get]
func (h *UserHandler) getMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	user, err := h.userSvc.GetOrCreateUser(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to resolve user")
		http.Error(w, "failed to resolve user", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.UserToDTO(user))
}
