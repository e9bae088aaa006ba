package maintenance

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskledger/backend/repository"
	"github.com/taskledger/backend/usecase"
)

// WipeResult reports how many documents the wipe removed per collection.
type WipeResult struct {
	TasksDeleted int64 `json:"tasksDeleted"`
	UsersDeleted int64 `json:"usersDeleted"`
}

type UseCase struct {
	tasks   repository.TaskRepository
	users   repository.UserRepository
	feed    repository.ActivityFeed
	journal usecase.CreditJournal
	logger  *zap.Logger
}

func New(tasks repository.TaskRepository, users repository.UserRepository, feed repository.ActivityFeed, journal usecase.CreditJournal, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:   tasks,
		users:   users,
		feed:    feed,
		journal: journal,
		logger:  logger,
	}
}

// Wipe irreversibly deletes every task and ledger entry. The activity feed
// and the credit journal are cleared best-effort alongside.
func (uc *UseCase) Wipe(ctx context.Context) (*WipeResult, error) {
	tasksDeleted, err := uc.tasks.DeleteAll(ctx)
	if err != nil {
		return nil, usecase.StoreError(err)
	}
	usersDeleted, err := uc.users.DeleteAll(ctx)
	if err != nil {
		return nil, usecase.StoreError(err)
	}

	if uc.feed != nil {
		if err := uc.feed.Clear(ctx); err != nil {
			uc.logger.Warn("activity feed clear failed", zap.Error(err))
		}
	}
	if uc.journal != nil {
		if err := uc.journal.Purge(ctx); err != nil {
			uc.logger.Warn("credit journal purge failed", zap.Error(err))
		}
	}

	uc.logger.Info("store wiped",
		zap.Int64("tasksDeleted", tasksDeleted),
		zap.Int64("usersDeleted", usersDeleted),
	)
	return &WipeResult{TasksDeleted: tasksDeleted, UsersDeleted: usersDeleted}, nil
}
