package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/taskledger/backend/domain"
	"github.com/taskledger/backend/repository"
)

type activityFeed struct {
	client *redislib.Client
	prefix string
	max    int64
}

// NewActivityFeed creates a Redis-backed activity feed. Each user's feed is
// a capped list, newest first.
func NewActivityFeed(client *redislib.Client, maxEntries int) repository.ActivityFeed {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &activityFeed{
		client: client,
		prefix: "activity:",
		max:    int64(maxEntries),
	}
}

func (r *activityFeed) Record(ctx context.Context, entry domain.Activity) error {
	if entry.UserID == "" {
		return domain.ErrInvalidPayload
	}
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	_, err = r.client.Pipelined(ctx, func(pipe redislib.Pipeliner) error {
		key := r.key(entry.UserID)
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, r.max-1)
		return nil
	})
	return err
}

func (r *activityFeed) Recent(ctx context.Context, userID string, limit int) ([]domain.Activity, error) {
	if limit <= 0 || int64(limit) > r.max {
		limit = int(r.max)
	}

	raw, err := r.client.LRange(ctx, r.key(userID), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]domain.Activity, 0, len(raw))
	for _, item := range raw {
		var entry domain.Activity
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *activityFeed) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (r *activityFeed) key(userID string) string {
	return fmt.Sprintf("%s%s", r.prefix, userID)
}
