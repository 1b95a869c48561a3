package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"handled/internal/model"
	"handled/internal/repository"

	"github.com/rs/zerolog"
)

var (
	// ErrTaskNotFound is returned when the referenced task does not exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrNotTaskOwner is returned when the task belongs to another user.
	ErrNotTaskOwner = errors.New("not task owner")
	// ErrInvalidTransition is returned when a task is moved to completed
	// from a state with no path there.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidStatus is returned for unknown status values.
	ErrInvalidStatus = errors.New("invalid status")
)

// TaskService owns the task lifecycle: creation, listing and the status
// state machine including recurrence advancement. Every mutating call
// checks ownership before touching the row.
type TaskService interface {
	Create(ctx context.Context, t *model.Task) (*model.Task, error)
	BulkCreate(ctx context.Context, userID string, specs []model.TaskSpec) ([]model.Task, error)
	Get(ctx context.Context, userID, taskID string) (*model.Task, error)
	List(ctx context.Context, userID string, f repository.TaskFilter) ([]model.Task, int, error)
	Transition(ctx context.Context, userID, taskID string, newStatus model.TaskStatus, notes *string) (*model.Task, error)
}

type taskService struct {
	repo   repository.TaskRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewTaskService creates a new TaskService with a scoped logger.
func NewTaskService(repo repository.TaskRepository, logger zerolog.Logger) TaskService {
	return &taskService{
		repo:   repo,
		logger: logger.With().Str("service", "TaskService").Logger(),
		now:    time.Now,
	}
}

// Create validates and persists an ad-hoc task. Validation happens
// before any write; the entitlement gate runs in the API layer.
func (s *taskService) Create(ctx context.Context, t *model.Task) (*model.Task, error) {
	if t.Title == "" {
		return nil, fmt.Errorf("task: title is required")
	}
	if !t.Category.Valid() {
		return nil, fmt.Errorf("task: invalid category %q", t.Category)
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if !t.Priority.Valid() {
		return nil, fmt.Errorf("task: invalid priority %q", t.Priority)
	}
	if t.Recurrence != nil {
		if err := t.Recurrence.Validate(); err != nil {
			return nil, err
		}
	}
	t.Status = model.StatusPending
	created, err := s.repo.CreateTask(ctx, t)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", t.UserID).Msg("Failed to create task")
		return nil, err
	}
	return created, nil
}

// BulkCreate persists generated task specs as pending tasks.
func (s *taskService) BulkCreate(ctx context.Context, userID string, specs []model.TaskSpec) ([]model.Task, error) {
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
	}
	tasks, err := s.repo.CreateTasks(ctx, userID, specs)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Int("count", len(specs)).Msg("Failed to bulk create tasks")
		return nil, err
	}
	return tasks, nil
}

func (s *taskService) Get(ctx context.Context, userID, taskID string) (*model.Task, error) {
	task, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	if task.UserID != userID {
		return nil, ErrNotTaskOwner
	}
	return task, nil
}

func (s *taskService) List(ctx context.Context, userID string, f repository.TaskFilter) ([]model.Task, int, error) {
	tasks, total, err := s.repo.ListTasks(ctx, userID, f)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list tasks")
		return nil, 0, err
	}
	return tasks, total, nil
}

// Transition applies a status change. Moving into completed stamps the
// completion time and, for recurring tasks, advances the due date in
// place and resets the task to pending so exactly one open occurrence
// remains. Reopening a completed task to pending clears the completion
// timestamp. All other moves only touch the status field.
func (s *taskService) Transition(ctx context.Context, userID, taskID string, newStatus model.TaskStatus, notes *string) (*model.Task, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}
	task, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	if task.UserID != userID {
		return nil, ErrNotTaskOwner
	}

	now := s.now()
	switch {
	case newStatus == model.StatusCompleted:
		if !task.Status.CanComplete() {
			return nil, fmt.Errorf("%w: %s -> completed", ErrInvalidTransition, task.Status)
		}
		if task.Recurrence != nil {
			// Validate before mutating so a malformed rule never leaves
			// a partial write behind.
			if err := task.Recurrence.Validate(); err != nil {
				return nil, err
			}
			base := now
			if task.DueDate != nil {
				base = *task.DueDate
			}
			next := task.Recurrence.NextAfter(base)
			task.DueDate = &next
			task.Status = model.StatusPending
			task.CompletedAt = nil
			task.LastCompletedAt = &now
		} else {
			task.Status = model.StatusCompleted
			task.CompletedAt = &now
			task.LastCompletedAt = &now
		}
	case task.Status == model.StatusCompleted && newStatus == model.StatusPending:
		// Reopen: clear the completion timestamp. An already-advanced
		// recurrence is not retracted.
		task.Status = model.StatusPending
		task.CompletedAt = nil
	default:
		task.Status = newStatus
	}
	if notes != nil {
		task.Notes = notes
	}

	updated, err := s.repo.UpdateTask(ctx, task)
	if err != nil {
		s.logger.Error().Err(err).Str("task_id", taskID).Str("status", string(newStatus)).Msg("Failed to update task status")
		return nil, fmt.Errorf("updating task: %w", err)
	}
	return updated, nil
}
