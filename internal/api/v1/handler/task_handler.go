package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"handled/internal/api/v1/dto"
	"handled/internal/middleware"
	"handled/internal/model"
	"handled/internal/repository"
	"handled/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// TaskHandler handles task endpoints. Task creation runs through the
// entitlement gate before the lifecycle manager executes.
type TaskHandler struct {
	taskSvc        service.TaskService
	entitlementSvc service.EntitlementService
	userSvc        service.UserService
	validate       *validator.Validate
	logger         zerolog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskSvc service.TaskService, entitlementSvc service.EntitlementService, userSvc service.UserService, validate *validator.Validate, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		taskSvc:        taskSvc,
		entitlementSvc: entitlementSvc,
		userSvc:        userSvc,
		validate:       validate,
		logger:         logger,
	}
}

// RegisterRoutes mounts the task endpoints.
func (h *TaskHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/tasks", authMw(http.HandlerFunc(h.handleTasks)))
	mux.Handle("/tasks/", authMw(http.HandlerFunc(h.handleTask)))
}

func (h *TaskHandler) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listTasks(w, r)
	case http.MethodPost:
		h.createTask(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TaskHandler) handleTask(w http.ResponseWriter, r *http.Request) {
	taskID := strings.TrimPrefix(r.URL.Path, "/tasks/")
	if taskID == "" || strings.Contains(taskID, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.getTask(w, r, taskID)
	case http.MethodPatch:
		h.transitionTask(w, r, taskID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// listTasks godoc
// @Summary List tasks
// @Description Lists the user's tasks, optionally filtered by status and category.
// @Tags tasks
// @Produce json
// @Param status query string false "Task status filter"
// @Param category query string false "Task category filter"
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.TaskListResponseDTO
// @Failure 401 {string} string "unauthorized"
// @Router /tasks [get]
func (h *TaskHandler) listTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	filter := repository.TaskFilter{Limit: 50}
	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		status := model.TaskStatus(v)
		if !status.Valid() {
			http.Error(w, "invalid status filter: "+v, http.StatusBadRequest)
			return
		}
		filter.Status = &status
	}
	if v := q.Get("category"); v != "" {
		category := model.TaskCategory(v)
		if !category.Valid() {
			http.Error(w, "invalid category filter: "+v, http.StatusBadRequest)
			return
		}
		filter.Category = &category
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	tasks, total, err := h.taskSvc.List(r.Context(), userID, filter)
	if err != nil {
		http.Error(w, "failed to list tasks", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.TaskListResponseDTO{
		Tasks:  dto.TasksToDTO(tasks),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// createTask godoc
// @Summary Create a task
// @Description Creates an ad-hoc task. Free-tier users are limited by their open task count.
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body dto.TaskCreateDTO true "Task creation request"
// @Success 201 {object} dto.TaskResponseDTO
// @Failure 400 {string} string "invalid payload"
// @Failure 401 {string} string "unauthorized"
// @Failure 402 {object} dto.QuotaExceededDTO
// @Router /tasks [post]
func (h *TaskHandler) createTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.TaskCreateDTO
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
	ent, err := h.entitlementSvc.CheckEntitlement(r.Context(), userID, user.SubscriptionTier, model.ActionTaskCreate)
	if err != nil {
		http.Error(w, "failed to check entitlement", http.StatusInternalServerError)
		return
	}
	if !ent.Allowed {
		writeJSON(w, http.StatusPaymentRequired, dto.QuotaExceededDTO{
			Error:     "Free users are limited to 5 active tasks. Upgrade to create more tasks.",
			Code:      dto.CodeSubscriptionRequired,
			ResetDate: ent.ResetDate,
		})
		return
	}

	task := &model.Task{
		UserID:      userID,
		Title:       req.Title,
		Category:    model.TaskCategory(req.Category),
		DueDate:     req.DueDate,
		Recurrence:  req.Recurrence.ToModel(),
		Notes:       req.Notes,
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = model.TaskPriority(*req.Priority)
	}
	created, err := h.taskSvc.Create(r.Context(), task)
	if err != nil {
		http.Error(w, "failed to create task: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, dto.TaskToDTO(created))
}

// getTask godoc
// @Summary Get a task
// @Description Retrieves one of the user's tasks by ID.
// @Tags tasks
// @Produce json
// @Param taskId path string true "Task ID"
// @Success 200 {object} dto.TaskResponseDTO
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "task not found"
// @Router /tasks/{taskId} [get]
func (h *TaskHandler) getTask(w http.ResponseWriter, r *http.Request, taskID string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	task, err := h.taskSvc.Get(r.Context(), userID, taskID)
	if err != nil {
		h.writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TaskToDTO(task))
}

// transitionTask godoc
// @Summary Transition a task's status
// @Description Moves a task through its lifecycle. Completing a recurring task advances its due date in place.
// @Tags tasks
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID"
// @Param transition body dto.TaskTransitionDTO true "Status transition request"
// @Success 200 {object} dto.TaskResponseDTO
// @Failure 400 {string} string "invalid payload or transition"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "task not found"
// @Router /tasks/{taskId} [patch]
func (h *TaskHandler) transitionTask(w http.ResponseWriter, r *http.Request, taskID string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.TaskTransitionDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	task, err := h.taskSvc.Transition(r.Context(), userID, taskID, model.TaskStatus(req.Status), req.Notes)
	if err != nil {
		h.writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TaskToDTO(task))
}

func (h *TaskHandler) writeTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		http.Error(w, "task not found", http.StatusNotFound)
	case errors.Is(err, service.ErrNotTaskOwner):
		http.Error(w, "you do not have permission to access this task", http.StatusForbidden)
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error().Err(err).Msg("Task operation failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
