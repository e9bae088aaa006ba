package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskledger/backend/domain"
	"github.com/taskledger/backend/repository"
	"github.com/taskledger/backend/usecase"
)

// CreateInput carries the caller-supplied fields for a new task.
type CreateInput struct {
	UserID      string
	Description string
	PointReward int64
	TimeReward  int64
	Category    string
	Priority    int
	Notes       string
}

// UpdateInput carries the mutable fields of a pending task.
type UpdateInput struct {
	Description string
	PointReward int64
	TimeReward  int64
	Category    string
	Priority    int
	Notes       string
}

type UseCase struct {
	tasks   repository.TaskRepository
	rewards usecase.RewardCrediter
	journal usecase.CreditJournal
	logger  *zap.Logger
}

func New(tasks repository.TaskRepository, rewards usecase.RewardCrediter, journal usecase.CreditJournal, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:   tasks,
		rewards: rewards,
		journal: journal,
		logger:  logger,
	}
}

// Create validates and persists a new pending task. Tasks without any reward
// are allowed; only the description is mandatory.
func (uc *UseCase) Create(ctx context.Context, input CreateInput) (*domain.Task, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if input.UserID == "" {
		return nil, domain.ErrUserIDRequired
	}

	task := &domain.Task{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Description: description,
		PointReward: clampReward(input.PointReward),
		TimeReward:  clampReward(input.TimeReward),
		Category:    input.Category,
		Priority:    input.Priority,
		Notes:       input.Notes,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, usecase.StoreError(err)
	}
	return created, nil
}

// List returns every task belonging to userID, oldest first.
func (uc *UseCase) List(ctx context.Context, userID string) ([]domain.Task, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	list, err := uc.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, usecase.StoreError(err)
	}
	if list == nil {
		list = []domain.Task{}
	}
	return list, nil
}

// Update replaces the mutable fields of a pending task.
func (uc *UseCase) Update(ctx context.Context, id string, input UpdateInput) (*domain.Task, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}

	updated, err := uc.tasks.Update(ctx, &domain.Task{
		ID:          id,
		Description: description,
		PointReward: clampReward(input.PointReward),
		TimeReward:  clampReward(input.TimeReward),
		Category:    input.Category,
		Priority:    input.Priority,
		Notes:       input.Notes,
	})
	if err != nil {
		return nil, usecase.StoreError(err)
	}
	return updated, nil
}

// Complete marks a task completed and credits its rewards to the calling
// user's ledger. The completion is never rolled back: when the credit fails
// the entry is journaled for replay and the failure surfaces to the caller.
func (uc *UseCase) Complete(ctx context.Context, id, userID string) (*domain.Task, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}

	completed, err := uc.tasks.Complete(ctx, id, time.Now().UTC())
	if err != nil {
		return nil, usecase.StoreError(err)
	}

	if _, err := uc.rewards.Credit(ctx, userID, completed.PointReward, completed.TimeReward); err != nil {
		uc.logger.Error("task completed but reward credit failed",
			zap.String("taskId", completed.ID),
			zap.String("userId", userID),
			zap.Int64("points", completed.PointReward),
			zap.Int64("minutes", completed.TimeReward),
			zap.Error(err),
		)
		if uc.journal != nil {
			if jErr := uc.journal.EnqueueCredit(ctx, completed.ID, userID, completed.PointReward, completed.TimeReward); jErr != nil {
				uc.logger.Error("journaling pending credit failed", zap.String("taskId", completed.ID), zap.Error(jErr))
			}
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "task completed but reward credit failed", err)
	}

	return completed, nil
}

// Delete removes a task regardless of its completion state.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if err := uc.tasks.Delete(ctx, id); err != nil {
		return usecase.StoreError(err)
	}
	return nil
}

func clampReward(value int64) int64 {
	if value < 0 {
		return 0
	}
	return value
}
