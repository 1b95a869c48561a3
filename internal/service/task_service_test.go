package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"handled/internal/model"
	"handled/internal/repository"

	"github.com/rs/zerolog"
)

type fakeTaskRepo struct {
	tasks   map[string]*model.Task
	nextID  int
	updates int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*model.Task)}
}

func (f *fakeTaskRepo) put(t *model.Task) *model.Task {
	if t.ID == "" {
		f.nextID++
		t.ID = fmt.Sprintf("task-%d", f.nextID)
	}
	cp := *t
	f.tasks[cp.ID] = &cp
	return &cp
}

func (f *fakeTaskRepo) CreateTask(ctx context.Context, t *model.Task) (*model.Task, error) {
	stored := f.put(t)
	cp := *stored
	return &cp, nil
}

func (f *fakeTaskRepo) CreateTasks(ctx context.Context, userID string, specs []model.TaskSpec) ([]model.Task, error) {
	out := make([]model.Task, 0, len(specs))
	for _, spec := range specs {
		t := &model.Task{
			UserID:      userID,
			Title:       spec.Title,
			Description: spec.Description,
			Category:    spec.Category,
			Priority:    spec.Priority,
			Status:      model.StatusPending,
		}
		out = append(out, *f.put(t))
	}
	return out, nil
}

func (f *fakeTaskRepo) GetTaskByID(ctx context.Context, taskID string) (*model.Task, error) {
	t, ok := f.tasks[taskID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTaskRepo) ListTasks(ctx context.Context, userID string, filter repository.TaskFilter) ([]model.Task, int, error) {
	var out []model.Task
	for _, t := range f.tasks {
		if t.UserID != userID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && t.Category != *filter.Category {
			continue
		}
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (f *fakeTaskRepo) UpdateTask(ctx context.Context, t *model.Task) (*model.Task, error) {
	if _, ok := f.tasks[t.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	f.updates++
	stored := f.put(t)
	cp := *stored
	return &cp, nil
}

func (f *fakeTaskRepo) CountOpenTasks(ctx context.Context, userID string) (int, error) {
	n := 0
	for _, t := range f.tasks {
		if t.UserID == userID && t.Open() {
			n++
		}
	}
	return n, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var testNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func newTestTaskService(repo repository.TaskRepository, now time.Time) *taskService {
	return &taskService{
		repo:   repo,
		logger: zerolog.Nop(),
		now:    fixedClock(now),
	}
}

func TestTaskCreate(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestTaskService(repo, testNow)
	ctx := context.Background()

	t.Run("defaults priority and status", func(t *testing.T) {
		created, err := svc.Create(ctx, &model.Task{
			UserID:   "u1",
			Title:    "Review budget",
			Category: model.CategoryBanking,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if created.Priority != model.PriorityMedium {
			t.Errorf("priority = %q, want %q", created.Priority, model.PriorityMedium)
		}
		if created.Status != model.StatusPending {
			t.Errorf("status = %q, want %q", created.Status, model.StatusPending)
		}
	})

	t.Run("rejects missing title", func(t *testing.T) {
		if _, err := svc.Create(ctx, &model.Task{UserID: "u1", Category: model.CategoryBanking}); err == nil {
			t.Error("Create() with empty title succeeded")
		}
	})

	t.Run("rejects invalid category", func(t *testing.T) {
		if _, err := svc.Create(ctx, &model.Task{UserID: "u1", Title: "x", Category: "gardening"}); err == nil {
			t.Error("Create() with invalid category succeeded")
		}
	})

	t.Run("rejects invalid recurrence", func(t *testing.T) {
		rule := &model.RecurrenceRule{Frequency: model.FrequencyMonthly, Interval: 0}
		if _, err := svc.Create(ctx, &model.Task{UserID: "u1", Title: "x", Category: model.CategoryBanking, Recurrence: rule}); err == nil {
			t.Error("Create() with invalid recurrence succeeded")
		}
	})
}

func TestTaskTransitionComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("one-off completion stamps timestamps", func(t *testing.T) {
		repo := newFakeTaskRepo()
		svc := newTestTaskService(repo, testNow)
		seed := repo.put(&model.Task{UserID: "u1", Title: "File taxes", Category: model.CategoryTaxes, Status: model.StatusPending})

		updated, err := svc.Transition(ctx, "u1", seed.ID, model.StatusCompleted, nil)
		if err != nil {
			t.Fatalf("Transition() error = %v", err)
		}
		if updated.Status != model.StatusCompleted {
			t.Errorf("status = %q, want completed", updated.Status)
		}
		if updated.CompletedAt == nil || !updated.CompletedAt.Equal(testNow) {
			t.Errorf("completedAt = %v, want %v", updated.CompletedAt, testNow)
		}
		if updated.LastCompletedAt == nil || !updated.LastCompletedAt.Equal(testNow) {
			t.Errorf("lastCompletedAt = %v, want %v", updated.LastCompletedAt, testNow)
		}
	})

	t.Run("recurring completion advances due date in place", func(t *testing.T) {
		repo := newFakeTaskRepo()
		svc := newTestTaskService(repo, testNow)
		due := time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)
		seed := repo.put(&model.Task{
			UserID:     "u1",
			Title:      "Monthly budget review",
			Category:   model.CategoryBanking,
			Status:     model.StatusPending,
			DueDate:    &due,
			Recurrence: &model.RecurrenceRule{Frequency: model.FrequencyMonthly, Interval: 1},
		})

		updated, err := svc.Transition(ctx, "u1", seed.ID, model.StatusCompleted, nil)
		if err != nil {
			t.Fatalf("Transition() error = %v", err)
		}
		if updated.Status != model.StatusPending {
			t.Errorf("status = %q, want pending after recurrence advance", updated.Status)
		}
		wantDue := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
		if updated.DueDate == nil || !updated.DueDate.Equal(wantDue) {
			t.Errorf("dueDate = %v, want %v", updated.DueDate, wantDue)
		}
		if updated.CompletedAt != nil {
			t.Errorf("completedAt = %v, want nil on the open occurrence", updated.CompletedAt)
		}
		if updated.LastCompletedAt == nil || !updated.LastCompletedAt.Equal(testNow) {
			t.Errorf("lastCompletedAt = %v, want %v", updated.LastCompletedAt, testNow)
		}

		// Exactly one occurrence exists: the same row, still open.
		tasks, total, _ := repo.ListTasks(ctx, "u1", repository.TaskFilter{})
		if total != 1 {
			t.Fatalf("task count = %d, want 1", total)
		}
		if !tasks[0].Open() {
			t.Error("surviving occurrence is not open")
		}
	})

	t.Run("recurring with no due date advances from now", func(t *testing.T) {
		repo := newFakeTaskRepo()
		svc := newTestTaskService(repo, testNow)
		seed := repo.put(&model.Task{
			UserID:     "u1",
			Title:      "Weekly check-in",
			Category:   model.CategoryBanking,
			Status:     model.StatusPending,
			Recurrence: &model.RecurrenceRule{Frequency: model.FrequencyWeekly, Interval: 1},
		})

		updated, err := svc.Transition(ctx, "u1", seed.ID, model.StatusCompleted, nil)
		if err != nil {
			t.Fatalf("Transition() error = %v", err)
		}
		wantDue := testNow.AddDate(0, 0, 7)
		if updated.DueDate == nil || !updated.DueDate.Equal(wantDue) {
			t.Errorf("dueDate = %v, want %v", updated.DueDate, wantDue)
		}
	})

	t.Run("completed task cannot be completed again", func(t *testing.T) {
		repo := newFakeTaskRepo()
		svc := newTestTaskService(repo, testNow)
		seed := repo.put(&model.Task{UserID: "u1", Title: "x", Category: model.CategoryBanking, Status: model.StatusCompleted})

		if _, err := svc.Transition(ctx, "u1", seed.ID, model.StatusCompleted, nil); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Transition() error = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("skipped task cannot be completed", func(t *testing.T) {
		repo := newFakeTaskRepo()
		svc := newTestTaskService(repo, testNow)
		seed := repo.put(&model.Task{UserID: "u1", Title: "x", Category: model.CategoryBanking, Status: model.StatusSkipped})

		if _, err := svc.Transition(ctx, "u1", seed.ID, model.StatusCompleted, nil); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Transition() error = %v, want ErrInvalidTransition", err)
		}
	})
}

func TestTaskTransitionReopen(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestTaskService(repo, testNow)
	ctx := context.Background()
	done := testNow.Add(-24 * time.Hour)
	seed := repo.put(&model.Task{
		UserID:          "u1",
		Title:           "x",
		Category:        model.CategoryBanking,
		Status:          model.StatusCompleted,
		CompletedAt:     &done,
		LastCompletedAt: &done,
	})

	updated, err := svc.Transition(ctx, "u1", seed.ID, model.StatusPending, nil)
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if updated.Status != model.StatusPending {
		t.Errorf("status = %q, want pending", updated.Status)
	}
	if updated.CompletedAt != nil {
		t.Errorf("completedAt = %v, want nil after reopen", updated.CompletedAt)
	}
	if updated.LastCompletedAt == nil {
		t.Error("lastCompletedAt cleared on reopen, want preserved")
	}
}

func TestTaskTransitionGuards(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestTaskService(repo, testNow)
	ctx := context.Background()
	seed := repo.put(&model.Task{UserID: "owner", Title: "x", Category: model.CategoryBanking, Status: model.StatusPending})

	t.Run("unknown status", func(t *testing.T) {
		if _, err := svc.Transition(ctx, "owner", seed.ID, "archived", nil); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("Transition() error = %v, want ErrInvalidStatus", err)
		}
	})

	t.Run("missing task", func(t *testing.T) {
		if _, err := svc.Transition(ctx, "owner", "no-such-task", model.StatusCompleted, nil); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("Transition() error = %v, want ErrTaskNotFound", err)
		}
	})

	t.Run("foreign task is not mutated", func(t *testing.T) {
		before := repo.updates
		if _, err := svc.Transition(ctx, "intruder", seed.ID, model.StatusCompleted, nil); !errors.Is(err, ErrNotTaskOwner) {
			t.Errorf("Transition() error = %v, want ErrNotTaskOwner", err)
		}
		if repo.updates != before {
			t.Error("repository was written despite ownership failure")
		}
		if stored, _ := repo.GetTaskByID(ctx, seed.ID); stored.Status != model.StatusPending {
			t.Errorf("stored status = %q, want untouched pending", stored.Status)
		}
	})
}

func TestTaskTransitionNotes(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestTaskService(repo, testNow)
	ctx := context.Background()
	seed := repo.put(&model.Task{UserID: "u1", Title: "x", Category: model.CategoryBanking, Status: model.StatusPending})

	notes := "waiting on broker paperwork"
	updated, err := svc.Transition(ctx, "u1", seed.ID, model.StatusSnoozed, &notes)
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if updated.Status != model.StatusSnoozed {
		t.Errorf("status = %q, want snoozed", updated.Status)
	}
	if updated.Notes == nil || *updated.Notes != notes {
		t.Errorf("notes = %v, want %q", updated.Notes, notes)
	}
}

func TestTaskBulkCreate(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestTaskService(repo, testNow)
	ctx := context.Background()

	specs := []model.TaskSpec{
		{Title: "Check your credit score", Category: model.CategoryCreditScore, Priority: model.PriorityMedium},
		{Title: "Build an emergency fund", Category: model.CategoryEmergencyFund, Priority: model.PriorityHigh},
	}
	tasks, err := svc.BulkCreate(ctx, "u1", specs)
	if err != nil {
		t.Fatalf("BulkCreate() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("created %d tasks, want 2", len(tasks))
	}
	for _, task := range tasks {
		if task.Status != model.StatusPending {
			t.Errorf("task %s status = %q, want pending", task.ID, task.Status)
		}
		if task.UserID != "u1" {
			t.Errorf("task %s userID = %q, want u1", task.ID, task.UserID)
		}
	}

	t.Run("invalid spec aborts before any write", func(t *testing.T) {
		bad := []model.TaskSpec{{Title: "", Category: model.CategoryBanking, Priority: model.PriorityLow}}
		if _, err := svc.BulkCreate(ctx, "u2", bad); err == nil {
			t.Fatal("BulkCreate() with invalid spec succeeded")
		}
		if _, total, _ := repo.ListTasks(ctx, "u2", repository.TaskFilter{}); total != 0 {
			t.Errorf("tasks written for u2 = %d, want 0", total)
		}
	})
}

func TestTaskGet(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestTaskService(repo, testNow)
	ctx := context.Background()
	seed := repo.put(&model.Task{UserID: "owner", Title: "x", Category: model.CategoryBanking, Status: model.StatusPending})

	if got, err := svc.Get(ctx, "owner", seed.ID); err != nil || got.ID != seed.ID {
		t.Errorf("Get() = %v, %v; want task %s", got, err, seed.ID)
	}
	if _, err := svc.Get(ctx, "other", seed.ID); !errors.Is(err, ErrNotTaskOwner) {
		t.Errorf("Get() foreign error = %v, want ErrNotTaskOwner", err)
	}
	if _, err := svc.Get(ctx, "owner", "missing"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Get() missing error = %v, want ErrTaskNotFound", err)
	}
}
