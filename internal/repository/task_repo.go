package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"handled/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskFilter narrows ListTasks results.
type TaskFilter struct {
	Status   *model.TaskStatus
	Category *model.TaskCategory
	Limit    int
	Offset   int
}

// TaskRepository persists task instances. All queries are scoped per
// call; ownership enforcement lives in the service layer.
type TaskRepository interface {
	CreateTask(ctx context.Context, t *model.Task) (*model.Task, error)
	// CreateTasks inserts the generated specs for a user in a single
	// transaction as pending tasks.
	CreateTasks(ctx context.Context, userID string, specs []model.TaskSpec) ([]model.Task, error)
	GetTaskByID(ctx context.Context, taskID string) (*model.Task, error)
	ListTasks(ctx context.Context, userID string, f TaskFilter) ([]model.Task, int, error)
	UpdateTask(ctx context.Context, t *model.Task) (*model.Task, error)
	// CountOpenTasks counts the user's non-completed tasks, the figure
	// the free tier's task-creation limit is checked against.
	CountOpenTasks(ctx context.Context, userID string) (int, error)
}

type taskRepo struct {
	pool *pgxpool.Pool
}

// NewTaskRepo creates a new TaskRepository.
func NewTaskRepo(pool *pgxpool.Pool) TaskRepository {
	return &taskRepo{pool: pool}
}

const taskColumns = `id, user_id, template_id, title, description, category, priority, status,
	due_date, completed_at, last_completed_at, recurrence, notes, created_at, updated_at`

func scanTask(row pgx.Row) (*model.Task, error) {
	var t model.Task
	var rawRecurrence []byte
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.TemplateID,
		&t.Title,
		&t.Description,
		&t.Category,
		&t.Priority,
		&t.Status,
		&t.DueDate,
		&t.CompletedAt,
		&t.LastCompletedAt,
		&rawRecurrence,
		&t.Notes,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(rawRecurrence) > 0 {
		var rule model.RecurrenceRule
		if err := json.Unmarshal(rawRecurrence, &rule); err != nil {
			return nil, fmt.Errorf("unmarshal recurrence for task %s: %w", t.ID, err)
		}
		t.Recurrence = &rule
	}
	return &t, nil
}

func marshalRecurrence(r *model.RecurrenceRule) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

func (r *taskRepo) CreateTask(ctx context.Context, t *model.Task) (*model.Task, error) {
	rawRecurrence, err := marshalRecurrence(t.Recurrence)
	if err != nil {
		return nil, fmt.Errorf("marshal recurrence: %w", err)
	}
	q := fmt.Sprintf(`
		INSERT INTO tasks (user_id, template_id, title, description, category, priority, status, due_date, recurrence, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s
	`, taskColumns)
	created, err := scanTask(r.pool.QueryRow(ctx, q,
		t.UserID, t.TemplateID, t.Title, t.Description, t.Category, t.Priority, t.Status, t.DueDate, rawRecurrence, t.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("creating task for user %s: %w", t.UserID, err)
	}
	return created, nil
}

func (r *taskRepo) CreateTasks(ctx context.Context, userID string, specs []model.TaskSpec) ([]model.Task, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction for bulk create: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	q := fmt.Sprintf(`
		INSERT INTO tasks (user_id, title, description, category, priority, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING %s
	`, taskColumns)
	tasks := make([]model.Task, 0, len(specs))
	for _, spec := range specs {
		t, err := scanTask(tx.QueryRow(ctx, q, userID, spec.Title, spec.Description, spec.Category, spec.Priority))
		if err != nil {
			return nil, fmt.Errorf("creating generated task %q for user %s: %w", spec.Title, userID, err)
		}
		tasks = append(tasks, *t)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing bulk create for user %s: %w", userID, err)
	}
	return tasks, nil
}

func (r *taskRepo) GetTaskByID(ctx context.Context, taskID string) (*model.Task, error) {
	q := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns)
	t, err := scanTask(r.pool.QueryRow(ctx, q, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting task %s: %w", taskID, err)
	}
	return t, nil
}

func (r *taskRepo) ListTasks(ctx context.Context, userID string, f TaskFilter) ([]model.Task, int, error) {
	conds := []string{"user_id = $1"}
	args := []any{userID}
	if f.Status != nil {
		args = append(args, *f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Category != nil {
		args = append(args, *f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	where := strings.Join(conds, " AND ")

	var total int
	countQ := fmt.Sprintf(`SELECT COUNT(*) FROM tasks WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting tasks for user %s: %w", userID, err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	q := fmt.Sprintf(`
		SELECT %s FROM tasks
		WHERE %s
		ORDER BY due_date ASC NULLS LAST, priority DESC, created_at DESC
		LIMIT %d OFFSET %d
	`, taskColumns, where, limit, f.Offset)
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying tasks for user %s: %w", userID, err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating task rows: %w", err)
	}
	return tasks, total, nil
}

func (r *taskRepo) UpdateTask(ctx context.Context, t *model.Task) (*model.Task, error) {
	rawRecurrence, err := marshalRecurrence(t.Recurrence)
	if err != nil {
		return nil, fmt.Errorf("marshal recurrence: %w", err)
	}
	q := fmt.Sprintf(`
		UPDATE tasks
		SET title = $2, description = $3, priority = $4, status = $5, due_date = $6,
		    completed_at = $7, last_completed_at = $8, recurrence = $9, notes = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, taskColumns)
	updated, err := scanTask(r.pool.QueryRow(ctx, q,
		t.ID, t.Title, t.Description, t.Priority, t.Status, t.DueDate,
		t.CompletedAt, t.LastCompletedAt, rawRecurrence, t.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating task %s: %w", t.ID, err)
	}
	return updated, nil
}

func (r *taskRepo) CountOpenTasks(ctx context.Context, userID string) (int, error) {
	const q = `SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND status <> 'completed'`
	var count int
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting open tasks for user %s: %w", userID, err)
	}
	return count, nil
}
