package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/taskledger/backend/domain"
	"github.com/taskledger/backend/internal/infrastructure/journal"
)

type fakeHealth struct {
	online bool
}

func (f *fakeHealth) StoreOnline() bool { return f.online }

type fakeCrediter struct {
	fail  map[string]error
	calls []string
}

func (f *fakeCrediter) Credit(_ context.Context, userID string, points, minutes int64) (*domain.User, error) {
	f.calls = append(f.calls, userID)
	if err, ok := f.fail[userID]; ok {
		return nil, err
	}
	return &domain.User{ID: userID, PointsEarned: points, TimeEarned: minutes, TasksCompleted: 1}, nil
}

func openTestJournal(t *testing.T) *journal.Store {
	t.Helper()
	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func newTestReconciler(store *journal.Store, health *fakeHealth, crediter *fakeCrediter, maxAttempts int) *CreditReconciler {
	return NewCreditReconciler(store, health, crediter, nil, ReconcilerConfig{
		Interval:    time.Minute,
		BatchSize:   10,
		MaxAttempts: maxAttempts,
	})
}

func TestDrainReplaysAndRemovesCredits(t *testing.T) {
	store := openTestJournal(t)
	crediter := &fakeCrediter{}
	reconciler := newTestReconciler(store, &fakeHealth{online: true}, crediter, 3)

	base := time.Now().UTC().Add(-time.Minute)
	for i, userID := range []string{"alice", "bob"} {
		err := store.Enqueue(journal.PendingCredit{
			ID:         userID + "-credit",
			TaskID:     "task",
			UserID:     userID,
			Points:     10,
			EnqueuedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}

	if err := reconciler.Drain(context.Background()); err != nil {
		t.Fatalf("Drain: %v", err)
	}

	if len(crediter.calls) != 2 || crediter.calls[0] != "alice" || crediter.calls[1] != "bob" {
		t.Errorf("credit calls = %v", crediter.calls)
	}
	if size := reconciler.Size(); size != 0 {
		t.Errorf("journal size after drain = %d, want 0", size)
	}
}

func TestDrainSkipsWhileStoreOffline(t *testing.T) {
	store := openTestJournal(t)
	crediter := &fakeCrediter{}
	reconciler := newTestReconciler(store, &fakeHealth{online: false}, crediter, 3)

	if err := store.Enqueue(journal.PendingCredit{ID: "c1", UserID: "alice", Points: 5}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	if err := reconciler.Drain(context.Background()); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if len(crediter.calls) != 0 {
		t.Errorf("crediter called while the store was offline: %v", crediter.calls)
	}
	if size := reconciler.Size(); size != 1 {
		t.Errorf("journal size = %d, want 1", size)
	}
}

func TestDrainDropsCreditAfterMaxAttempts(t *testing.T) {
	store := openTestJournal(t)
	crediter := &fakeCrediter{fail: map[string]error{"alice": errors.New("ledger down")}}
	reconciler := newTestReconciler(store, &fakeHealth{online: true}, crediter, 2)

	if err := store.Enqueue(journal.PendingCredit{ID: "c1", TaskID: "t1", UserID: "alice", Points: 10}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	// First drain fails the replay and requeues with one attempt recorded.
	if err := reconciler.Drain(context.Background()); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if size := reconciler.Size(); size != 1 {
		t.Fatalf("journal size after first drain = %d, want 1", size)
	}
	credits, err := store.Batch(10)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if credits[0].Attempts != 1 {
		t.Errorf("attempts = %d, want 1", credits[0].Attempts)
	}

	// Second failure reaches the cap and the credit is dropped.
	if err := reconciler.Drain(context.Background()); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if size := reconciler.Size(); size != 0 {
		t.Errorf("journal size after second drain = %d, want 0", size)
	}
	if len(crediter.calls) != 2 {
		t.Errorf("crediter called %d times, want 2", len(crediter.calls))
	}
}

func TestJournalBridge(t *testing.T) {
	store := openTestJournal(t)
	bridge := NewJournalBridge(store)
	ctx := context.Background()

	if err := bridge.EnqueueCredit(ctx, "t1", "", 10, 0); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Errorf("EnqueueCredit without user = %v, want ErrInvalidPayload", err)
	}

	if err := bridge.EnqueueCredit(ctx, "t1", "alice", 10, 15); err != nil {
		t.Fatalf("EnqueueCredit: %v", err)
	}

	credits, err := store.Batch(10)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(credits) != 1 {
		t.Fatalf("journal holds %d credits, want 1", len(credits))
	}
	got := credits[0]
	if got.TaskID != "t1" || got.UserID != "alice" || got.Points != 10 || got.Minutes != 15 {
		t.Errorf("journaled credit = %+v", got)
	}

	if err := bridge.Purge(ctx); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	size, err := store.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 0 {
		t.Errorf("size after purge = %d, want 0", size)
	}
}
