package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskledger/backend/domain"
	"github.com/taskledger/backend/repository"
)

type userRepository struct {
	users *mongo.Collection
}

// NewUserRepository returns a MongoDB-backed implementation of UserRepository.
func NewUserRepository(db *mongo.Database) repository.UserRepository {
	return &userRepository{users: db.Collection("users")}
}

func (r *userRepository) GetOrCreate(ctx context.Context, id string) (*domain.User, error) {
	now := time.Now().UTC()
	update := bson.M{"$setOnInsert": bson.M{
		"pointsEarned":   int64(0),
		"pointsUsed":     int64(0),
		"timeEarned":     int64(0),
		"timeUsed":       int64(0),
		"tasksCompleted": int64(0),
		"createdAt":      now,
		"updatedAt":      now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var user domain.User
	if err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Credit(ctx context.Context, id string, points, minutes int64) (*domain.User, error) {
	now := time.Now().UTC()

	// Counters not incremented here must still exist on a fresh document,
	// otherwise the $expr balance filters below never match it.
	inc := bson.M{"tasksCompleted": int64(1)}
	onInsert := bson.M{"pointsUsed": int64(0), "timeUsed": int64(0), "createdAt": now}
	if points > 0 {
		inc["pointsEarned"] = points
	} else {
		onInsert["pointsEarned"] = int64(0)
	}
	if minutes > 0 {
		inc["timeEarned"] = minutes
	} else {
		onInsert["timeEarned"] = int64(0)
	}

	update := bson.M{
		"$inc":         inc,
		"$set":         bson.M{"updatedAt": now},
		"$setOnInsert": onInsert,
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var user domain.User
	if err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SpendPoints(ctx context.Context, id string, amount int64) (*domain.User, error) {
	return r.spend(ctx, id, "pointsEarned", "pointsUsed", amount)
}

func (r *userRepository) SpendTime(ctx context.Context, id string, minutes int64) (*domain.User, error) {
	return r.spend(ctx, id, "timeEarned", "timeUsed", minutes)
}

// spend debits the used counter only when the matching balance still covers
// the amount, so concurrent spends cannot drive it negative.
func (r *userRepository) spend(ctx context.Context, id, earnedField, usedField string, amount int64) (*domain.User, error) {
	filter := bson.M{
		"_id": id,
		"$expr": bson.M{"$gte": bson.A{
			bson.M{"$subtract": bson.A{"$" + earnedField, "$" + usedField}},
			amount,
		}},
	}
	update := bson.M{
		"$inc": bson.M{usedField: amount},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user domain.User
	err := r.users.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInsufficientBalance
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.users.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
