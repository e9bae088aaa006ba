package domain

import "time"

// DefaultUserID is the sentinel identity used when a request carries no
// userId. The service trusts caller-supplied ids as given; there is no
// authentication layer in front of them.
const DefaultUserID = "default-user"

// Currencies tracked by the ledger. Each user accumulates earned and used
// totals per currency; balances are always derived, never stored.
const (
	CurrencyPoints = "points"
	CurrencyTime   = "time"
)

// User is a per-user reward ledger entry. All counters are cumulative and
// monotonically non-decreasing; only the ledger itself writes them.
type User struct {
	ID             string    `json:"id" bson:"_id"`
	PointsEarned   int64     `json:"pointsEarned" bson:"pointsEarned"`
	PointsUsed     int64     `json:"pointsUsed" bson:"pointsUsed"`
	TimeEarned     int64     `json:"timeEarned" bson:"timeEarned"`
	TimeUsed       int64     `json:"timeUsed" bson:"timeUsed"`
	TasksCompleted int64     `json:"tasksCompleted" bson:"tasksCompleted"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PointBalance is earned minus used points.
func (u *User) PointBalance() int64 {
	if u == nil {
		return 0
	}
	return u.PointsEarned - u.PointsUsed
}

// TimeBalance is earned minus used minutes.
func (u *User) TimeBalance() int64 {
	if u == nil {
		return 0
	}
	return u.TimeEarned - u.TimeUsed
}

// Summary is the read model returned by the rewards summary endpoint.
type Summary struct {
	PointsEarned   int64 `json:"pointsEarned"`
	PointsUsed     int64 `json:"pointsUsed"`
	PointBalance   int64 `json:"pointBalance"`
	TasksCompleted int64 `json:"tasksCompleted"`
	TimeEarned     int64 `json:"timeEarned"`
	TimeUsed       int64 `json:"timeUsed"`
	TimeBalance    int64 `json:"timeBalance"`
}

// Summarize derives the balance view of the ledger entry.
func (u *User) Summarize() *Summary {
	if u == nil {
		return &Summary{}
	}
	return &Summary{
		PointsEarned:   u.PointsEarned,
		PointsUsed:     u.PointsUsed,
		PointBalance:   u.PointBalance(),
		TasksCompleted: u.TasksCompleted,
		TimeEarned:     u.TimeEarned,
		TimeUsed:       u.TimeUsed,
		TimeBalance:    u.TimeBalance(),
	}
}
