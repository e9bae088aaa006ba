// Package memory provides a mutex-guarded in-process implementation of the
// task and ledger repositories. It backs the development store driver and
// keeps the test suite free of external services.
package memory

import (
	"context"
	"sync"

	"github.com/taskledger/backend/domain"
)

// Store holds the shared state behind the memory-backed task and user
// repositories. A single mutex stands in for the store-level atomicity the
// real backends get from $inc / conditional UPDATEs.
type Store struct {
	mu sync.RWMutex

	tasks     map[string]*domain.Task
	taskOrder []string // preserves insertion order for listings
	users     map[string]*domain.User
}

func New() *Store {
	return &Store{
		tasks: make(map[string]*domain.Task),
		users: make(map[string]*domain.User),
	}
}

// Ping satisfies the connection monitor; the in-process store is always up.
func (s *Store) Ping(_ context.Context) error { return nil }

func cloneTask(t *domain.Task) *domain.Task {
	if t == nil {
		return nil
	}
	out := *t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		out.CompletedAt = &at
	}
	return &out
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	out := *u
	return &out
}
