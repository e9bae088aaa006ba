package memory

import (
	"context"
	"time"

	"github.com/taskledger/backend/domain"
	"github.com/taskledger/backend/repository"
)

type userRepository struct {
	store *Store
}

// NewUserRepository returns a memory-backed implementation of UserRepository.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

// getOrCreateLocked assumes the write lock is held.
func (s *Store) getOrCreateLocked(id string) *domain.User {
	if user, ok := s.users[id]; ok {
		return user
	}
	now := time.Now().UTC()
	user := &domain.User{ID: id, CreatedAt: now, UpdatedAt: now}
	s.users[id] = user
	return user
}

func (r *userRepository) GetOrCreate(_ context.Context, id string) (*domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUser(s.getOrCreateLocked(id)), nil
}

func (r *userRepository) Credit(_ context.Context, id string, points, minutes int64) (*domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.getOrCreateLocked(id)
	if points > 0 {
		user.PointsEarned += points
	}
	if minutes > 0 {
		user.TimeEarned += minutes
	}
	user.TasksCompleted++
	user.UpdatedAt = time.Now().UTC()
	return cloneUser(user), nil
}

func (r *userRepository) SpendPoints(_ context.Context, id string, amount int64) (*domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.getOrCreateLocked(id)
	if user.PointBalance() < amount {
		return nil, domain.ErrInsufficientBalance
	}
	user.PointsUsed += amount
	user.UpdatedAt = time.Now().UTC()
	return cloneUser(user), nil
}

func (r *userRepository) SpendTime(_ context.Context, id string, minutes int64) (*domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.getOrCreateLocked(id)
	if user.TimeBalance() < minutes {
		return nil, domain.ErrInsufficientBalance
	}
	user.TimeUsed += minutes
	user.UpdatedAt = time.Now().UTC()
	return cloneUser(user), nil
}

func (r *userRepository) DeleteAll(_ context.Context) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := int64(len(s.users))
	s.users = make(map[string]*domain.User)
	return removed, nil
}
