package repository

import (
	"context"
	"time"

	"github.com/taskledger/backend/domain"
)

// TaskRepository owns the lifecycle of task documents. Complete and Update
// are conditional writes: they only match a pending task, so exactly one of
// any number of concurrent completion attempts can win.
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// Update replaces the mutable fields (description, rewards, category,
	// priority, notes) of a pending task and returns the stored document.
	// Returns domain.ErrTaskCompleted when the task has already completed.
	Update(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// Complete flips a pending task to completed and stamps completedAt.
	// Returns domain.ErrTaskCompleted when the transition already happened.
	Complete(ctx context.Context, id string, at time.Time) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}
