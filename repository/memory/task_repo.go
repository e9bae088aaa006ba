package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskledger/backend/domain"
	"github.com/taskledger/backend/repository"
)

type taskRepository struct {
	store *Store
}

// NewTaskRepository returns a memory-backed implementation of TaskRepository.
func NewTaskRepository(store *Store) repository.TaskRepository {
	return &taskRepository{store: store}
}

func (r *taskRepository) GetByID(_ context.Context, id string) (*domain.Task, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

func (r *taskRepository) ListByUser(_ context.Context, userID string) ([]domain.Task, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := []domain.Task{}
	for _, id := range s.taskOrder {
		task, ok := s.tasks[id]
		if !ok || task.UserID != userID {
			continue
		}
		tasks = append(tasks, *cloneTask(task))
	}
	return tasks, nil
}

func (r *taskRepository) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneTask(task)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.tasks[stored.ID] = stored
	s.taskOrder = append(s.taskOrder, stored.ID)
	return cloneTask(stored), nil
}

func (r *taskRepository) Update(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if existing.Completed {
		return nil, domain.ErrTaskCompleted
	}

	existing.Description = task.Description
	existing.PointReward = task.PointReward
	existing.TimeReward = task.TimeReward
	existing.Category = task.Category
	existing.Priority = task.Priority
	existing.Notes = task.Notes
	return cloneTask(existing), nil
}

func (r *taskRepository) Complete(_ context.Context, id string, at time.Time) (*domain.Task, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if existing.Completed {
		return nil, domain.ErrTaskCompleted
	}

	existing.Completed = true
	stamp := at
	existing.CompletedAt = &stamp
	return cloneTask(existing), nil
}

func (r *taskRepository) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(s.tasks, id)
	for i, taskID := range s.taskOrder {
		if taskID == id {
			s.taskOrder = append(s.taskOrder[:i], s.taskOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (r *taskRepository) DeleteAll(_ context.Context) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := int64(len(s.tasks))
	s.tasks = make(map[string]*domain.Task)
	s.taskOrder = nil
	return removed, nil
}
