package transport

import (
	"strconv"
	"strings"
)

// FlexInt decodes JSON numbers, numeric strings and outright junk into an
// int64. Invalid or missing input becomes 0 instead of failing the request;
// the reward and amount fields of the public API coerce, never reject.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = 0
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if fl, err := strconv.ParseFloat(raw, 64); err == nil {
		*f = FlexInt(int64(fl))
	}
	return nil
}

func (f FlexInt) Int64() int64 { return int64(f) }

// TaskRequest is the create/update payload. Older clients send name instead
// of description and reward instead of pointReward; both aliases are accepted
// and resolved here.
type TaskRequest struct {
	Description string  `json:"description"`
	Name        string  `json:"name"`
	PointReward FlexInt `json:"pointReward"`
	Reward      FlexInt `json:"reward"`
	TimeReward  FlexInt `json:"timeReward"`
	Category    string  `json:"category"`
	Priority    int     `json:"priority"`
	Notes       string  `json:"notes"`
	UserID      string  `json:"userId"`
}

// ResolveDescription prefers the canonical field over the legacy alias.
func (r *TaskRequest) ResolveDescription() string {
	if strings.TrimSpace(r.Description) != "" {
		return r.Description
	}
	return r.Name
}

// ResolvePointReward prefers pointReward over the legacy reward alias.
func (r *TaskRequest) ResolvePointReward() int64 {
	if r.PointReward != 0 {
		return r.PointReward.Int64()
	}
	return r.Reward.Int64()
}

// CompleteRequest is the (optional) body of a completion call.
type CompleteRequest struct {
	UserID string `json:"userId"`
}

// SpendPointsRequest redeems points against an optional description.
type SpendPointsRequest struct {
	Amount      FlexInt `json:"amount"`
	Description string  `json:"description"`
	UserID      string  `json:"userId"`
}

// SpendTimeRequest redeems minutes against an optional activity label.
type SpendTimeRequest struct {
	Minutes  FlexInt `json:"minutes"`
	Activity string  `json:"activity"`
	UserID   string  `json:"userId"`
}
