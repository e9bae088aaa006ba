package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskledger/backend/domain"
	"github.com/taskledger/backend/repository"
)

const taskColumns = `id, user_id, description, point_reward, time_reward, category, priority, notes, completed, created_at, completed_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) ListByUser(ctx context.Context, userID string) ([]domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	const query = `
	INSERT INTO tasks (id, user_id, description, point_reward, time_reward, category, priority, notes, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Description,
		task.PointReward,
		task.TimeReward,
		task.Category,
		task.Priority,
		task.Notes,
		task.CreatedAt,
	).Scan(&task.CreatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	// Only pending tasks may be edited; the WHERE clause keeps the check
	// and the write atomic.
	const query = `
	UPDATE tasks
	SET description = $2,
		point_reward = $3,
		time_reward = $4,
		category = $5,
		priority = $6,
		notes = $7
	WHERE id = $1 AND completed = FALSE
	RETURNING ` + taskColumns

	updated, err := scanTask(r.pool.QueryRow(ctx, query,
		task.ID,
		task.Description,
		task.PointReward,
		task.TimeReward,
		task.Category,
		task.Priority,
		task.Notes,
	))
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, r.classifyMiss(ctx, task.ID)
		}
		return nil, err
	}
	return updated, nil
}

func (r *taskRepository) Complete(ctx context.Context, id string, at time.Time) (*domain.Task, error) {
	const query = `
	UPDATE tasks
	SET completed = TRUE, completed_at = $2
	WHERE id = $1 AND completed = FALSE
	RETURNING ` + taskColumns

	completed, err := scanTask(r.pool.QueryRow(ctx, query, id, at))
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, r.classifyMiss(ctx, id)
		}
		return nil, err
	}
	return completed, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// classifyMiss tells a missing task apart from an already-completed one
// after a conditional update matched nothing.
func (r *taskRepository) classifyMiss(ctx context.Context, id string) error {
	task, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if task.Completed {
		return domain.ErrTaskCompleted
	}
	return domain.ErrTaskNotFound
}

func scanTask(row scanner) (*domain.Task, error) {
	var task domain.Task
	var completedAt *time.Time

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Description,
		&task.PointReward,
		&task.TimeReward,
		&task.Category,
		&task.Priority,
		&task.Notes,
		&task.Completed,
		&task.CreatedAt,
		&completedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.CompletedAt = completedAt
	return &task, nil
}
