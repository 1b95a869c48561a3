package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"handled/internal/api/v1/dto"
	"handled/internal/middleware"
	"handled/internal/model"
	"handled/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ChatHandler gates and dispatches AI chat messages.
type ChatHandler struct {
	chatSvc        service.ChatService
	entitlementSvc service.EntitlementService
	userSvc        service.UserService
	validate       *validator.Validate
	logger         zerolog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatSvc service.ChatService, entitlementSvc service.EntitlementService, userSvc service.UserService, validate *validator.Validate, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		chatSvc:        chatSvc,
		entitlementSvc: entitlementSvc,
		userSvc:        userSvc,
		validate:       validate,
		logger:         logger,
	}
}

// RegisterRoutes mounts the chat endpoint.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/chat/messages", authMw(http.HandlerFunc(h.sendMessage)))
}

// sendMessage godoc
// @Summary Send a chat message
// @Description Checks the monthly chat quota, then dispatches the message to the AI service.
// @Tags chat
// @Accept json
// @Produce json
// @Param message body dto.ChatSendDTO true "Chat message"
// @Success 200 {object} dto.ChatReplyDTO
// @Failure 400 {string} string "invalid payload"
// @Failure 401 {string} string "unauthorized"
// @Failure 402 {object} dto.QuotaExceededDTO
// @Router /chat/messages [post]
func (h *ChatHandler) sendMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.ChatSendDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.userSvc.GetOrCreateUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to resolve user", http.StatusInternalServerError)
		return
	}
	ent, err := h.entitlementSvc.CheckEntitlement(r.Context(), userID, user.SubscriptionTier, model.ActionChatMessage)
	if err != nil {
		http.Error(w, "failed to check entitlement", http.StatusInternalServerError)
		return
	}
	if !ent.Allowed {
		writeJSON(w, http.StatusPaymentRequired, dto.QuotaExceededDTO{
			Error:     "You have used all your free chat messages for this month. Upgrade for unlimited chat.",
			Code:      dto.CodeSubscriptionRequired,
			ResetDate: ent.ResetDate,
		})
		return
	}

	reply, err := h.chatSvc.SendMessage(r.Context(), userID, user.SubscriptionTier, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrChatLimitExceeded) {
			writeJSON(w, http.StatusPaymentRequired, dto.QuotaExceededDTO{
				Error:     "You have used all your free chat messages for this month. Upgrade for unlimited chat.",
				Code:      dto.CodeSubscriptionRequired,
				ResetDate: ent.ResetDate,
			})
			return
		}
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to send chat message")
		http.Error(w, "failed to send chat message", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.ChatReplyDTO{Reply: reply})
}
