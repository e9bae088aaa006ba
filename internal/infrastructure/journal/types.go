package journal

import (
	"time"

	"github.com/google/uuid"
)

// PendingCredit is a reward credit that could not be applied when its task
// was completed. It stays journaled until the reconciler replays it.
type PendingCredit struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	UserID     string    `json:"user_id"`
	Points     int64     `json:"points"`
	Minutes    int64     `json:"minutes"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueued_at"`

	bucketKey []byte
}

func (c *PendingCredit) normalize() {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.EnqueuedAt.IsZero() {
		c.EnqueuedAt = time.Now().UTC()
	}
}
