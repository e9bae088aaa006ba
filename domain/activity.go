package domain

import "time"

// Activity is one entry in a user's recent-spend feed: points or minutes
// redeemed against a label ("Coffee break", "Watched a movie", ...). The
// feed is ephemeral by design — entries live in Redis, capped per user,
// and are never part of the durable collection layout.
type Activity struct {
	UserID string    `json:"userId"`
	Kind   string    `json:"kind"`
	Amount int64     `json:"amount"`
	Label  string    `json:"label,omitempty"`
	At     time.Time `json:"at"`
}
