package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskledger/backend/domain"
	"github.com/taskledger/backend/repository"
)

type taskRepository struct {
	tasks *mongo.Collection
}

// NewTaskRepository returns a MongoDB-backed implementation of TaskRepository.
func NewTaskRepository(db *mongo.Database) repository.TaskRepository {
	return &taskRepository{tasks: db.Collection("tasks")}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	err := r.tasks.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListByUser(ctx context.Context, userID string) ([]domain.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.tasks.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := []domain.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	if _, err := r.tasks.InsertOne(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	// Only pending tasks may be edited; the filter keeps the check and the
	// write in a single round trip.
	filter := bson.M{"_id": task.ID, "completed": false}
	update := bson.M{"$set": bson.M{
		"description": task.Description,
		"pointReward": task.PointReward,
		"timeReward":  task.TimeReward,
		"category":    task.Category,
		"priority":    task.Priority,
		"notes":       task.Notes,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Task
	err := r.tasks.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.classifyMiss(ctx, task.ID)
		}
		return nil, err
	}
	return &updated, nil
}

func (r *taskRepository) Complete(ctx context.Context, id string, at time.Time) (*domain.Task, error) {
	filter := bson.M{"_id": id, "completed": false}
	update := bson.M{"$set": bson.M{"completed": true, "completedAt": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var completed domain.Task
	err := r.tasks.FindOneAndUpdate(ctx, filter, update, opts).Decode(&completed)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.classifyMiss(ctx, id)
		}
		return nil, err
	}
	return &completed, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.tasks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.tasks.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// classifyMiss tells a missing task apart from an already-completed one
// after a conditional write matched nothing.
func (r *taskRepository) classifyMiss(ctx context.Context, id string) error {
	task, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if task.Completed {
		return domain.ErrTaskCompleted
	}
	return domain.ErrTaskNotFound
}
