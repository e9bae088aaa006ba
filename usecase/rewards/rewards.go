package rewards

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/taskledger/backend/domain"
	"github.com/taskledger/backend/repository"
	"github.com/taskledger/backend/usecase"
)

// SpendResult reports a successful debit and the balance left afterwards.
type SpendResult struct {
	Spent      int64
	NewBalance int64
}

type UseCase struct {
	users  repository.UserRepository
	feed   repository.ActivityFeed
	logger *zap.Logger
}

// New builds the rewards use case. The activity feed is optional; a nil feed
// disables activity recording without affecting spends.
func New(users repository.UserRepository, feed repository.ActivityFeed, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		feed:   feed,
		logger: logger,
	}
}

// Credit applies a task's rewards to the user's ledger in one atomic store
// increment. Zero deltas leave their currency untouched while the completed
// counter still advances.
func (uc *UseCase) Credit(ctx context.Context, userID string, points, minutes int64) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	user, err := uc.users.Credit(ctx, userID, points, minutes)
	if err != nil {
		return nil, usecase.StoreError(err)
	}
	return user, nil
}

// SpendPoints debits amount from the user's point balance. The store applies
// the debit only while the balance still covers it, so overspending loses
// even under concurrent requests.
func (uc *UseCase) SpendPoints(ctx context.Context, userID string, amount int64, label string) (*SpendResult, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	if amount <= 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "amount must be positive")
	}

	user, err := uc.users.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, usecase.StoreError(err)
	}
	if user.PointBalance() < amount {
		return nil, domain.NewBalanceShortfall(domain.CurrencyPoints, user.PointBalance(), amount)
	}

	updated, err := uc.users.SpendPoints(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return nil, domain.NewBalanceShortfall(domain.CurrencyPoints, uc.freshBalance(ctx, userID, user).PointBalance(), amount)
		}
		return nil, usecase.StoreError(err)
	}

	uc.recordActivity(ctx, domain.Activity{
		UserID: userID,
		Kind:   domain.CurrencyPoints,
		Amount: amount,
		Label:  label,
		At:     time.Now().UTC(),
	})

	return &SpendResult{Spent: amount, NewBalance: updated.PointBalance()}, nil
}

// SpendTime debits minutes from the user's time balance.
func (uc *UseCase) SpendTime(ctx context.Context, userID string, minutes int64, activity string) (*SpendResult, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	if minutes <= 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "minutes must be positive")
	}

	user, err := uc.users.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, usecase.StoreError(err)
	}
	if user.TimeBalance() < minutes {
		return nil, domain.NewBalanceShortfall(domain.CurrencyTime, user.TimeBalance(), minutes)
	}

	updated, err := uc.users.SpendTime(ctx, userID, minutes)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return nil, domain.NewBalanceShortfall(domain.CurrencyTime, uc.freshBalance(ctx, userID, user).TimeBalance(), minutes)
		}
		return nil, usecase.StoreError(err)
	}

	uc.recordActivity(ctx, domain.Activity{
		UserID: userID,
		Kind:   domain.CurrencyTime,
		Amount: minutes,
		Label:  activity,
		At:     time.Now().UTC(),
	})

	return &SpendResult{Spent: minutes, NewBalance: updated.TimeBalance()}, nil
}

// Summary returns the derived balance view of a lazily created ledger entry.
func (uc *UseCase) Summary(ctx context.Context, userID string) (*domain.Summary, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	user, err := uc.users.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, usecase.StoreError(err)
	}
	return user.Summarize(), nil
}

// RecentActivity reads the user's spend feed, newest first.
func (uc *UseCase) RecentActivity(ctx context.Context, userID string, limit int) ([]domain.Activity, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	if uc.feed == nil {
		return []domain.Activity{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	entries, err := uc.feed.Recent(ctx, userID, limit)
	if err != nil {
		return nil, usecase.StoreError(err)
	}
	if entries == nil {
		entries = []domain.Activity{}
	}
	return entries, nil
}

// freshBalance re-reads the ledger after a lost debit race so the shortfall
// reported to the caller reflects the balance that rejected the spend.
func (uc *UseCase) freshBalance(ctx context.Context, userID string, fallback *domain.User) *domain.User {
	fresh, err := uc.users.GetOrCreate(ctx, userID)
	if err != nil {
		return fallback
	}
	return fresh
}

func (uc *UseCase) recordActivity(ctx context.Context, entry domain.Activity) {
	if uc.feed == nil {
		return
	}
	if err := uc.feed.Record(ctx, entry); err != nil {
		uc.logger.Warn("activity record failed",
			zap.String("userId", entry.UserID),
			zap.String("kind", entry.Kind),
			zap.Error(err),
		)
	}
}
