package domain

import "time"

// Task is a user-owned item that pays out point and/or time rewards when
// completed. Pending -> Completed is the only transition and it is terminal.
type Task struct {
	ID          string     `json:"id" bson:"_id"`
	UserID      string     `json:"userId" bson:"userId"`
	Description string     `json:"description" bson:"description"`
	PointReward int64      `json:"pointReward" bson:"pointReward"`
	TimeReward  int64      `json:"timeReward" bson:"timeReward"`
	Category    string     `json:"category,omitempty" bson:"category,omitempty"`
	Priority    int        `json:"priority,omitempty" bson:"priority,omitempty"`
	Notes       string     `json:"notes,omitempty" bson:"notes,omitempty"`
	Completed   bool       `json:"completed" bson:"completed"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Completed
}

// HasReward reports whether completing the task credits anything at all.
func (t *Task) HasReward() bool {
	return t != nil && (t.PointReward > 0 || t.TimeReward > 0)
}
