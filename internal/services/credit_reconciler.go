package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskledger/backend/internal/infrastructure/journal"
	"github.com/taskledger/backend/usecase"
)

// StoreHealth abstracts the connection monitor functionality.
type StoreHealth interface {
	StoreOnline() bool
}

// ReconcilerConfig controls how frequently the credit journal is drained.
type ReconcilerConfig struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

// CreditReconciler replays journaled reward credits against the ledger. A
// credit lands in the journal when its task was already marked completed but
// the ledger increment failed; replaying it is at-least-once, so an ambiguous
// original failure can double-credit. The original system accepted the same
// trade-off by never rolling a completion back.
type CreditReconciler struct {
	store   *journal.Store
	health  StoreHealth
	rewards usecase.RewardCrediter
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     ReconcilerConfig
}

func NewCreditReconciler(
	store *journal.Store,
	health StoreHealth,
	rewards usecase.RewardCrediter,
	logger *zap.Logger,
	cfg ReconcilerConfig,
) *CreditReconciler {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &CreditReconciler{
		store:   store,
		health:  health,
		rewards: rewards,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := r.Drain(ctx); err != nil {
			r.logger.Error("credit journal drain failed", zap.Error(err))
		}
	})

	return r
}

// Start launches the cron scheduler.
func (r *CreditReconciler) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.cron.Start()
	r.logger.Info("credit reconciler started")
}

// Stop gracefully stops the scheduler.
func (r *CreditReconciler) Stop(ctx context.Context) {
	if r == nil || r.cron == nil {
		return
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Info("credit reconciler stopped")
}

// Drain replays a batch of journaled credits synchronously.
func (r *CreditReconciler) Drain(ctx context.Context) error {
	if r == nil || r.store == nil {
		return nil
	}
	if r.health != nil && !r.health.StoreOnline() {
		r.logger.Debug("skipping journal drain (store offline)")
		return nil
	}

	credits, err := r.store.Batch(r.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, credit := range credits {
		if _, err := r.rewards.Credit(ctx, credit.UserID, credit.Points, credit.Minutes); err != nil {
			r.logger.Error("pending credit replay failed",
				zap.String("creditId", credit.ID),
				zap.String("taskId", credit.TaskID),
				zap.String("userId", credit.UserID),
				zap.Int("attempts", credit.Attempts+1),
				zap.Error(err))

			credit.Attempts++
			if credit.Attempts >= r.cfg.MaxAttempts {
				r.logger.Error("dropping pending credit (max attempts reached)",
					zap.String("creditId", credit.ID),
					zap.String("taskId", credit.TaskID),
					zap.Int64("points", credit.Points),
					zap.Int64("minutes", credit.Minutes))
				_ = r.store.Remove(credit)
				continue
			}

			if err := r.store.Remove(credit); err != nil {
				r.logger.Warn("failed to remove pending credit", zap.Error(err))
			}
			if err := r.store.Requeue(credit); err != nil {
				r.logger.Error("failed to requeue pending credit", zap.Error(err))
			}
			continue
		}

		r.logger.Info("pending credit replayed",
			zap.String("creditId", credit.ID),
			zap.String("taskId", credit.TaskID),
			zap.String("userId", credit.UserID))
		if err := r.store.Remove(credit); err != nil {
			r.logger.Warn("failed to purge replayed credit", zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of journaled credits.
func (r *CreditReconciler) Size() int {
	if r == nil || r.store == nil {
		return 0
	}
	size, err := r.store.Size()
	if err != nil {
		return 0
	}
	return size
}
