package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestEnqueueNormalizesCredit(t *testing.T) {
	store := openTestStore(t)

	if err := store.Enqueue(PendingCredit{TaskID: "t1", UserID: "alice", Points: 10}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	credits, err := store.Batch(10)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(credits) != 1 {
		t.Fatalf("Batch returned %d credits, want 1", len(credits))
	}
	got := credits[0]
	if got.ID == "" {
		t.Error("Enqueue left the id empty")
	}
	if got.EnqueuedAt.IsZero() {
		t.Error("Enqueue left the timestamp empty")
	}
	if got.TaskID != "t1" || got.UserID != "alice" || got.Points != 10 || got.Minutes != 0 {
		t.Errorf("stored credit = %+v", got)
	}
}

func TestBatchPreservesEnqueueOrder(t *testing.T) {
	store := openTestStore(t)
	base := time.Now().UTC().Add(-time.Hour)

	for i, id := range []string{"a", "b", "c"} {
		err := store.Enqueue(PendingCredit{
			ID:         id,
			TaskID:     "task-" + id,
			UserID:     "alice",
			Points:     int64(i + 1),
			EnqueuedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Enqueue(%s): %v", id, err)
		}
	}

	credits, err := store.Batch(2)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(credits) != 2 {
		t.Fatalf("Batch(2) returned %d credits", len(credits))
	}
	if credits[0].ID != "a" || credits[1].ID != "b" {
		t.Errorf("batch order = [%s %s], want [a b]", credits[0].ID, credits[1].ID)
	}

	all, err := store.Batch(10)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Batch(10) returned %d credits, want 3", len(all))
	}
}

func TestRemoveAndSize(t *testing.T) {
	store := openTestStore(t)
	base := time.Now().UTC().Add(-time.Hour)

	for i, id := range []string{"a", "b", "c"} {
		if err := store.Enqueue(PendingCredit{ID: id, UserID: "alice", EnqueuedAt: base.Add(time.Duration(i) * time.Second)}); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}

	credits, err := store.Batch(10)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if err := store.Remove(credits[1]); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	size, err := store.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 2 {
		t.Errorf("Size = %d, want 2", size)
	}

	remaining, err := store.Batch(10)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(remaining) != 2 || remaining[0].ID != "a" || remaining[1].ID != "c" {
		t.Errorf("remaining = %+v", remaining)
	}

	// Removal falls back to an id scan when the bucket key is unknown.
	if err := store.Remove(PendingCredit{ID: "c"}); err != nil {
		t.Fatalf("Remove by id: %v", err)
	}
	size, err = store.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 1 {
		t.Errorf("Size after id removal = %d, want 1", size)
	}
}

func TestRequeueMovesCreditToBack(t *testing.T) {
	store := openTestStore(t)
	base := time.Now().UTC().Add(-time.Hour)

	for i, id := range []string{"a", "b"} {
		if err := store.Enqueue(PendingCredit{ID: id, UserID: "alice", EnqueuedAt: base.Add(time.Duration(i) * time.Second)}); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}

	credits, err := store.Batch(10)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	first := credits[0]
	first.Attempts++

	if err := store.Remove(first); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Requeue(first); err != nil {
		t.Fatalf("Requeue: %v", err)
	}

	reordered, err := store.Batch(10)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(reordered) != 2 {
		t.Fatalf("Batch returned %d credits, want 2", len(reordered))
	}
	if reordered[0].ID != "b" || reordered[1].ID != "a" {
		t.Errorf("order after requeue = [%s %s], want [b a]", reordered[0].ID, reordered[1].ID)
	}
	if reordered[1].Attempts != 1 {
		t.Errorf("attempts after requeue = %d, want 1", reordered[1].Attempts)
	}
}

func TestPurge(t *testing.T) {
	store := openTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Enqueue(PendingCredit{ID: id, UserID: "alice"}); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}

	if err := store.Purge(); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	size, err := store.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 0 {
		t.Errorf("Size after purge = %d, want 0", size)
	}

	// The journal keeps accepting credits after a purge.
	if err := store.Enqueue(PendingCredit{ID: "d", UserID: "alice"}); err != nil {
		t.Fatalf("Enqueue after purge: %v", err)
	}
}
