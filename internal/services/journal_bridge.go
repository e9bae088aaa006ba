package services

import (
	"context"

	"github.com/taskledger/backend/domain"
	"github.com/taskledger/backend/internal/infrastructure/journal"
	"github.com/taskledger/backend/usecase"
)

// JournalBridge exposes the BoltDB credit journal to the use case layer.
type JournalBridge struct {
	store *journal.Store
}

func NewJournalBridge(store *journal.Store) *JournalBridge {
	return &JournalBridge{store: store}
}

func (b *JournalBridge) EnqueueCredit(_ context.Context, taskID, userID string, points, minutes int64) error {
	if b.store == nil || userID == "" {
		return domain.ErrInvalidPayload
	}
	return b.store.Enqueue(journal.PendingCredit{
		TaskID:  taskID,
		UserID:  userID,
		Points:  points,
		Minutes: minutes,
	})
}

func (b *JournalBridge) Purge(_ context.Context) error {
	if b.store == nil {
		return nil
	}
	return b.store.Purge()
}

var _ usecase.CreditJournal = (*JournalBridge)(nil)
