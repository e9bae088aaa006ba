package repository

import (
	"context"

	"github.com/taskledger/backend/domain"
)

// ActivityFeed keeps a short, per-user history of reward spends. It is a
// best-effort sink: callers record entries after a spend commits and must
// tolerate feed failures without failing the spend itself.
type ActivityFeed interface {
	Record(ctx context.Context, entry domain.Activity) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, userID string, limit int) ([]domain.Activity, error)
	Clear(ctx context.Context) error
}
