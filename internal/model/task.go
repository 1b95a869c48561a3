package model

import (
	"fmt"
	"time"
)

// TaskCategory is the closed set of financial task categories.
type TaskCategory string

const (
	CategoryCreditScore        TaskCategory = "credit_score"
	CategoryRetirement         TaskCategory = "retirement"
	CategoryInsurance          TaskCategory = "insurance"
	CategoryTaxes              TaskCategory = "taxes"
	CategoryEstatePlanning     TaskCategory = "estate_planning"
	CategoryBillsSubscriptions TaskCategory = "bills_subscriptions"
	CategoryBanking            TaskCategory = "banking"
	CategoryInvestments        TaskCategory = "investments"
	CategoryDebt               TaskCategory = "debt"
	CategoryEmergencyFund      TaskCategory = "emergency_fund"
	CategoryBeneficiaries      TaskCategory = "beneficiaries"
	CategoryDocuments          TaskCategory = "documents"
)

// Valid reports whether c is a known category.
func (c TaskCategory) Valid() bool {
	switch c {
	case CategoryCreditScore, CategoryRetirement, CategoryInsurance,
		CategoryTaxes, CategoryEstatePlanning, CategoryBillsSubscriptions,
		CategoryBanking, CategoryInvestments, CategoryDebt,
		CategoryEmergencyFund, CategoryBeneficiaries, CategoryDocuments:
		return true
	}
	return false
}

// TaskPriority orders tasks for the user.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusSkipped    TaskStatus = "skipped"
	StatusSnoozed    TaskStatus = "snoozed"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusSkipped, StatusSnoozed:
		return true
	}
	return false
}

// CanComplete reports whether a task in status s may transition to
// completed. Completed and skipped tasks have no path to completed.
func (s TaskStatus) CanComplete() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusSnoozed:
		return true
	}
	return false
}

// TaskSpec is an unsaved, generator-produced description of a task.
type TaskSpec struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    TaskCategory `json:"category"`
	Priority    TaskPriority `json:"priority"`
}

// Validate checks the spec's enum fields.
func (s TaskSpec) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("task spec: title is required")
	}
	if !s.Category.Valid() {
		return fmt.Errorf("task spec: invalid category %q", s.Category)
	}
	if !s.Priority.Valid() {
		return fmt.Errorf("task spec: invalid priority %q", s.Priority)
	}
	return nil
}

// Task is a persisted task instance, owned exclusively by its user.
type Task struct {
	ID              string          `db:"id" json:"id"`
	UserID          string          `db:"user_id" json:"user_id"`
	TemplateID      *string         `db:"template_id" json:"template_id,omitempty"`
	Title           string          `db:"title" json:"title"`
	Description     string          `db:"description" json:"description"`
	Category        TaskCategory    `db:"category" json:"category"`
	Priority        TaskPriority    `db:"priority" json:"priority"`
	Status          TaskStatus      `db:"status" json:"status"`
	DueDate         *time.Time      `db:"due_date" json:"due_date,omitempty"`
	CompletedAt     *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
	LastCompletedAt *time.Time      `db:"last_completed_at" json:"last_completed_at,omitempty"`
	Recurrence      *RecurrenceRule `db:"recurrence" json:"recurrence,omitempty"`
	Notes           *string         `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// Open reports whether the task counts against the free tier's
// concurrently-open task limit.
func (t *Task) Open() bool {
	return t.Status != StatusCompleted
}
