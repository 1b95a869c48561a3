package dto

import (
	"time"

	"handled/internal/model"
)

// RecurrenceDTO carries a recurrence rule in requests.
type RecurrenceDTO struct {
	Frequency   string `json:"frequency" validate:"required,oneof=daily weekly monthly quarterly yearly"`
	Interval    *int   `json:"interval,omitempty" validate:"omitempty,min=1"`
	DayOfWeek   *int   `json:"dayOfWeek,omitempty" validate:"omitempty,min=0,max=6"`
	DayOfMonth  *int   `json:"dayOfMonth,omitempty" validate:"omitempty,min=1,max=31"`
	MonthOfYear *int   `json:"monthOfYear,omitempty" validate:"omitempty,min=1,max=12"`
}

// ToModel converts the DTO, applying the default interval.
func (r *RecurrenceDTO) ToModel() *model.RecurrenceRule {
	if r == nil {
		return nil
	}
	interval := 1
	if r.Interval != nil {
		interval = *r.Interval
	}
	return &model.RecurrenceRule{
		Frequency:   model.RecurrenceFrequency(r.Frequency),
		Interval:    interval,
		DayOfWeek:   r.DayOfWeek,
		DayOfMonth:  r.DayOfMonth,
		MonthOfYear: r.MonthOfYear,
	}
}

// TaskCreateDTO is used for incoming ad-hoc task creation requests.
type TaskCreateDTO struct {
	Title       string         `json:"title" validate:"required,max=200"`
	Description *string        `json:"description,omitempty" validate:"omitempty,max=1000"`
	Category    string         `json:"category" validate:"required"`
	Priority    *string        `json:"priority,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	Recurrence  *RecurrenceDTO `json:"recurrence,omitempty"`
	Notes       *string        `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// TaskTransitionDTO is used for incoming status transition requests.
type TaskTransitionDTO struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// TaskResponseDTO is returned in API responses for tasks.
type TaskResponseDTO struct {
	ID              string                `json:"id"`
	UserID          string                `json:"user_id"`
	TemplateID      *string               `json:"template_id,omitempty"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	Category        model.TaskCategory    `json:"category"`
	Priority        model.TaskPriority    `json:"priority"`
	Status          model.TaskStatus      `json:"status"`
	DueDate         *time.Time            `json:"due_date,omitempty"`
	CompletedAt     *time.Time            `json:"completed_at,omitempty"`
	LastCompletedAt *time.Time            `json:"last_completed_at,omitempty"`
	Recurrence      *model.RecurrenceRule `json:"recurrence,omitempty"`
	Notes           *string               `json:"notes,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// TaskToDTO maps a task model to its response shape.
func TaskToDTO(t *model.Task) TaskResponseDTO {
	return TaskResponseDTO{
		ID:              t.ID,
		UserID:          t.UserID,
		TemplateID:      t.TemplateID,
		Title:           t.Title,
		Description:     t.Description,
		Category:        t.Category,
		Priority:        t.Priority,
		Status:          t.Status,
		DueDate:         t.DueDate,
		CompletedAt:     t.CompletedAt,
		LastCompletedAt: t.LastCompletedAt,
		Recurrence:      t.Recurrence,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// TasksToDTO maps a slice of tasks.
func TasksToDTO(tasks []model.Task) []TaskResponseDTO {
	out := make([]TaskResponseDTO, len(tasks))
	for i := range tasks {
		out[i] = TaskToDTO(&tasks[i])
	}
	return out
}

// TaskListResponseDTO is returned by the task list endpoint.
type TaskListResponseDTO struct {
	Tasks  []TaskResponseDTO `json:"tasks"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}
