package repository

import (
	"context"

	"github.com/taskledger/backend/domain"
)

// UserRepository owns the per-user reward ledger entries. Credit and the
// spend operations must be single atomic field-increment writes at the
// store level; the spends additionally carry a non-negative-balance
// condition so concurrent spenders can never drive a balance below zero.
type UserRepository interface {
	// GetOrCreate lazily creates a zeroed ledger entry on first reference.
	// Idempotent and safe under concurrent first references.
	GetOrCreate(ctx context.Context, id string) (*domain.User, error)
	// Credit adds earned rewards in one atomic increment. A zero delta for
	// a currency must not touch that currency's earned counter, while
	// tasksCompleted always advances by one. Upserts the entry if missing.
	Credit(ctx context.Context, id string, points, minutes int64) (*domain.User, error)
	// SpendPoints atomically adds amount to pointsUsed, but only where the
	// derived point balance covers it; otherwise it returns
	// domain.ErrInsufficientBalance and leaves the entry untouched.
	SpendPoints(ctx context.Context, id string, amount int64) (*domain.User, error)
	// SpendTime is SpendPoints against the time currency.
	SpendTime(ctx context.Context, id string, minutes int64) (*domain.User, error)
	DeleteAll(ctx context.Context) (int64, error)
}
