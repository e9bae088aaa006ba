package usecase

import (
	"context"

	"github.com/taskledger/backend/domain"
)

// RewardCrediter abstracts the ledger side of task completion so the task
// use case stays storage-agnostic.
type RewardCrediter interface {
	Credit(ctx context.Context, userID string, points, minutes int64) (*domain.User, error)
}

// CreditJournal records reward credits that failed after their task was
// already marked completed, for later replay.
type CreditJournal interface {
	EnqueueCredit(ctx context.Context, taskID, userID string, points, minutes int64) error
	Purge(ctx context.Context) error
}
