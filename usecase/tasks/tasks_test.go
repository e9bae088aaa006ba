package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/taskledger/backend/domain"
	"github.com/taskledger/backend/repository/memory"
	"github.com/taskledger/backend/usecase/rewards"
)

type creditCall struct {
	userID  string
	points  int64
	minutes int64
}

type stubCrediter struct {
	err   error
	calls []creditCall
}

func (s *stubCrediter) Credit(_ context.Context, userID string, points, minutes int64) (*domain.User, error) {
	s.calls = append(s.calls, creditCall{userID: userID, points: points, minutes: minutes})
	if s.err != nil {
		return nil, s.err
	}
	return &domain.User{ID: userID, PointsEarned: points, TimeEarned: minutes, TasksCompleted: 1}, nil
}

type journalEntry struct {
	taskID  string
	userID  string
	points  int64
	minutes int64
}

type stubJournal struct {
	entries []journalEntry
	purged  bool
}

func (s *stubJournal) EnqueueCredit(_ context.Context, taskID, userID string, points, minutes int64) error {
	s.entries = append(s.entries, journalEntry{taskID: taskID, userID: userID, points: points, minutes: minutes})
	return nil
}

func (s *stubJournal) Purge(context.Context) error {
	s.purged = true
	return nil
}

func newFixture(crediter *stubCrediter) (*UseCase, *memory.Store, *stubJournal) {
	store := memory.New()
	journal := &stubJournal{}
	uc := New(memory.NewTaskRepository(store), crediter, journal, nil)
	return uc, store, journal
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newFixture(&stubCrediter{})

	tests := []struct {
		name    string
		input   CreateInput
		wantErr *domain.Error
	}{
		{
			name:    "empty description",
			input:   CreateInput{UserID: "alice"},
			wantErr: domain.ErrDescriptionRequired,
		},
		{
			name:    "whitespace description",
			input:   CreateInput{UserID: "alice", Description: "   "},
			wantErr: domain.ErrDescriptionRequired,
		},
		{
			name:    "missing user",
			input:   CreateInput{Description: "Read a book"},
			wantErr: domain.ErrUserIDRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Create(ctx, tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateDefaultsAndCoercion(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newFixture(&stubCrediter{})

	created, err := uc.Create(ctx, CreateInput{
		UserID:      "alice",
		Description: "  Read a book  ",
		PointReward: -5,
		TimeReward:  -1,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Description != "Read a book" {
		t.Errorf("description not trimmed: %q", created.Description)
	}
	if created.PointReward != 0 || created.TimeReward != 0 {
		t.Errorf("negative rewards not clamped: %d/%d", created.PointReward, created.TimeReward)
	}
	if created.Completed {
		t.Error("new task is completed")
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Errorf("missing id or timestamp: %+v", created)
	}

	// Zero-reward tasks are allowed by the creation policy.
	second, err := uc.Create(ctx, CreateInput{UserID: "alice", Description: "Stretch"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if second.ID == created.ID {
		t.Error("two creations shared an id")
	}
}

func TestListReturnsEmptySliceForUnknownUser(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newFixture(&stubCrediter{})

	list, err := uc.List(ctx, "nobody")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list == nil {
		t.Fatal("List returned nil instead of an empty slice")
	}
	if len(list) != 0 {
		t.Errorf("List = %v, want empty", list)
	}

	if _, err := uc.List(ctx, ""); !errors.Is(err, domain.ErrUserIDRequired) {
		t.Errorf("List(\"\") error = %v, want ErrUserIDRequired", err)
	}
}

func TestCompleteCreditsTheCallingUser(t *testing.T) {
	ctx := context.Background()
	crediter := &stubCrediter{}
	uc, _, _ := newFixture(crediter)

	created, err := uc.Create(ctx, CreateInput{
		UserID:      "alice",
		Description: "Read a book",
		PointReward: 10,
		TimeReward:  15,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The ledger credit goes to whoever completes the task, not to the
	// stored owner.
	completed, err := uc.Complete(ctx, created.ID, "bob")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !completed.Completed || completed.CompletedAt == nil {
		t.Errorf("task not completed: %+v", completed)
	}

	if len(crediter.calls) != 1 {
		t.Fatalf("crediter called %d times, want 1", len(crediter.calls))
	}
	call := crediter.calls[0]
	if call.userID != "bob" || call.points != 10 || call.minutes != 15 {
		t.Errorf("credit call = %+v", call)
	}
}

func TestCompleteIsNotIdempotent(t *testing.T) {
	ctx := context.Background()
	crediter := &stubCrediter{}
	uc, _, _ := newFixture(crediter)

	created, err := uc.Create(ctx, CreateInput{UserID: "alice", Description: "Read a book", PointReward: 10})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := uc.Complete(ctx, created.ID, "alice"); err != nil {
		t.Fatalf("first Complete: %v", err)
	}

	_, err = uc.Complete(ctx, created.ID, "alice")
	if !domain.IsDomainError(err, domain.ErrCodeAlreadyCompleted) {
		t.Errorf("second Complete error = %v, want ALREADY_COMPLETED", err)
	}
	if len(crediter.calls) != 1 {
		t.Errorf("crediter called %d times, want exactly 1", len(crediter.calls))
	}

	if _, err := uc.Complete(ctx, "missing", "alice"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("Complete(missing) error = %v, want NOT_FOUND", err)
	}
	if _, err := uc.Complete(ctx, created.ID, ""); !errors.Is(err, domain.ErrUserIDRequired) {
		t.Errorf("Complete without user = %v, want ErrUserIDRequired", err)
	}
}

func TestCompleteJournalsFailedCredit(t *testing.T) {
	ctx := context.Background()
	crediter := &stubCrediter{err: errors.New("ledger down")}
	uc, store, journal := newFixture(crediter)

	created, err := uc.Create(ctx, CreateInput{
		UserID:      "alice",
		Description: "Read a book",
		PointReward: 10,
		TimeReward:  15,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = uc.Complete(ctx, created.ID, "alice")
	if !domain.IsDomainError(err, domain.ErrCodeInternal) {
		t.Fatalf("Complete with failing credit = %v, want INTERNAL", err)
	}

	// No rollback: the task stays completed even though the credit failed.
	stored, err := memory.NewTaskRepository(store).GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !stored.Completed {
		t.Error("task rolled back after credit failure")
	}

	if len(journal.entries) != 1 {
		t.Fatalf("journal holds %d entries, want 1", len(journal.entries))
	}
	entry := journal.entries[0]
	if entry.taskID != created.ID || entry.userID != "alice" || entry.points != 10 || entry.minutes != 15 {
		t.Errorf("journal entry = %+v", entry)
	}
}

func TestUpdateRules(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newFixture(&stubCrediter{})

	created, err := uc.Create(ctx, CreateInput{UserID: "alice", Description: "draft", PointReward: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := uc.Update(ctx, created.ID, UpdateInput{
		Description: "final",
		PointReward: 7,
		TimeReward:  -3,
		Category:    "reading",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Description != "final" || updated.PointReward != 7 || updated.TimeReward != 0 {
		t.Errorf("updated task = %+v", updated)
	}
	if updated.Category != "reading" {
		t.Errorf("category = %q", updated.Category)
	}

	if _, err := uc.Update(ctx, created.ID, UpdateInput{}); !errors.Is(err, domain.ErrDescriptionRequired) {
		t.Errorf("Update with empty description = %v, want ErrDescriptionRequired", err)
	}
	if _, err := uc.Update(ctx, "missing", UpdateInput{Description: "x"}); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("Update(missing) = %v, want NOT_FOUND", err)
	}

	if _, err := uc.Complete(ctx, created.ID, "alice"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, err := uc.Update(ctx, created.ID, UpdateInput{Description: "late edit"}); !domain.IsDomainError(err, domain.ErrCodeAlreadyCompleted) {
		t.Errorf("Update after completion = %v, want ALREADY_COMPLETED", err)
	}
}

func TestDeleteMissingTask(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newFixture(&stubCrediter{})

	if err := uc.Delete(ctx, "missing"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("Delete(missing) = %v, want NOT_FOUND", err)
	}
}

// End-to-end over the real ledger: complete a rewarded task, check the
// summary, then spend against it.
func TestCompleteAndSpendScenario(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	ledger := rewards.New(memory.NewUserRepository(store), nil, nil)
	uc := New(memory.NewTaskRepository(store), ledger, &stubJournal{}, nil)

	created, err := uc.Create(ctx, CreateInput{
		UserID:      "alice",
		Description: "Read a book",
		PointReward: 10,
		TimeReward:  15,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := uc.Complete(ctx, created.ID, "alice"); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	summary, err := ledger.Summary(ctx, "alice")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	want := domain.Summary{
		PointsEarned:   10,
		PointsUsed:     0,
		PointBalance:   10,
		TasksCompleted: 1,
		TimeEarned:     15,
		TimeUsed:       0,
		TimeBalance:    15,
	}
	if *summary != want {
		t.Fatalf("Summary = %+v, want %+v", *summary, want)
	}

	if _, err := ledger.SpendPoints(ctx, "alice", 15, "overreach"); !domain.IsDomainError(err, domain.ErrCodeInsufficientBalance) {
		t.Errorf("overspend = %v, want INSUFFICIENT_BALANCE", err)
	}
	summary, err = ledger.Summary(ctx, "alice")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.PointBalance != 10 {
		t.Errorf("balance after rejected spend = %d, want 10", summary.PointBalance)
	}

	result, err := ledger.SpendPoints(ctx, "alice", 10, "movie night")
	if err != nil {
		t.Fatalf("SpendPoints: %v", err)
	}
	if result.Spent != 10 || result.NewBalance != 0 {
		t.Errorf("spend result = %+v", result)
	}
}
