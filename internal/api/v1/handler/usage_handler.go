package handler

import (
	"net/http"

	"handled/internal/middleware"
	"handled/internal/service"

	"github.com/rs/zerolog"
)

// UsageHandler exposes the entitlement summary.
type UsageHandler struct {
	entitlementSvc service.EntitlementService
	userSvc        service.UserService
	logger         zerolog.Logger
}

// NewUsageHandler creates a new UsageHandler.
func NewUsageHandler(entitlementSvc service.EntitlementService, userSvc service.UserService, logger zerolog.Logger) *UsageHandler {
	return &UsageHandler{entitlementSvc: entitlementSvc, userSvc: userSvc, logger: logger}
}

// RegisterRoutes mounts the usage endpoint.
func (h *UsageHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/usage", authMw(http.HandlerFunc(h.getUsage)))
}

// getUsage godoc
// @Summary Get usage and entitlements
// @Description Returns remaining quota for chat, document uploads and open tasks, with the next reset date.
// @Tags usage
// @Produce json
// @Success 200 {object} model.UsageSummary
// @Failure 401 {string} string "unauthorized"
// @Router /usage [get]
func (h *UsageHandler) getUsage(w http.ResponseWriter, r *http.Request) {
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
		http.Error(w, "failed to resolve user", http.StatusInternalServerError)
		return
	}
	summary, err := h.entitlementSvc.UsageSummary(r.Context(), userID, user.SubscriptionTier)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to build usage summary")
		http.Error(w, "failed to fetch usage", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
