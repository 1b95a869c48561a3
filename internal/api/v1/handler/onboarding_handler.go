package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"handled/internal/api/v1/dto"
	"handled/internal/middleware"
	"handled/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// OnboardingHandler handles the questionnaire endpoints.
type OnboardingHandler struct {
	onboardingSvc service.OnboardingService
	validate      *validator.Validate
	logger        zerolog.Logger
}

// NewOnboardingHandler creates a new OnboardingHandler.
func NewOnboardingHandler(onboardingSvc service.OnboardingService, validate *validator.Validate, logger zerolog.Logger) *OnboardingHandler {
	return &OnboardingHandler{onboardingSvc: onboardingSvc, validate: validate, logger: logger}
}

// RegisterRoutes mounts the onboarding endpoints.
func (h *OnboardingHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/onboarding", authMw(http.HandlerFunc(h.handleOnboarding)))
}

func (h *OnboardingHandler) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getStatus(w, r)
	case http.MethodPost:
		h.submit(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// getStatus godoc
// @Summary Get onboarding status
// @Description Returns the saved questionnaire answers and whether onboarding is complete.
// @Tags onboarding
// @Produce json
// @Success 200 {object} dto.OnboardingStatusDTO
// @Failure 401 {string} string "unauthorized"
// @Router /onboarding [get]
func (h *OnboardingHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	profile, err := h.onboardingSvc.GetProfile(r.Context(), userID)
	if err != nil && !errors.Is(err, service.ErrProfileNotFound) {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch onboarding profile")
		http.Error(w, "failed to fetch onboarding profile", http.StatusInternalServerError)
		return
	}
	resp := dto.OnboardingStatusDTO{
		Completed: profile != nil && profile.CompletedAt != nil,
		Profile:   profile,
	}
	writeJSON(w, http.StatusOK, resp)
}

// submit godoc
// @Summary Submit onboarding answers
// @Description Saves the questionnaire (replacing any previous submission) and generates the personalized task list.
// @Tags onboarding
// @Accept json
// @Produce json
// @Param profile body dto.OnboardingSubmitDTO true "Questionnaire answers"
// @Success 201 {object} dto.OnboardingResultDTO
// @Failure 400 {string} string "invalid payload"
// @Failure 401 {string} string "unauthorized"
// @Router /onboarding [post]
func (h *OnboardingHandler) submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.OnboardingSubmitDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	profile, tasks, err := h.onboardingSvc.SubmitProfile(r.Context(), req.ToModel(userID))
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to submit onboarding profile")
		http.Error(w, "failed to save onboarding profile", http.StatusInternalServerError)
		return
	}
	resp := dto.OnboardingResultDTO{
		Profile:      profile,
		TasksCreated: len(tasks),
		Tasks:        dto.TasksToDTO(tasks),
	}
	writeJSON(w, http.StatusCreated, resp)
}
