package models

import "time"

// LimitWindow is one rolling quota category from the session usage
// endpoint. Utilization is a percentage (may exceed 100). ResetsAt is
// kept as the raw timestamp string; formatting handles the malformed
// case.
type LimitWindow struct {
	Utilization float64 `json:"utilization"`
	ResetsAt    string  `json:"resets_at"`
}

// ExtraUsage is the supplemental metered allowance beyond the standard
// session quota. UsedCredits and MonthlyLimit are in minor currency
// units (cents).
type ExtraUsage struct {
	IsEnabled    bool    `json:"is_enabled"`
	UsedCredits  int64   `json:"used_credits"`
	MonthlyLimit int64   `json:"monthly_limit"`
	Utilization  float64 `json:"utilization"`
}

// SessionUsageSnapshot is one poll of the rolling session quotas. Each
// category is independently optional; a nil pointer means the account
// tier does not expose that limit.
type SessionUsageSnapshot struct {
	FiveHour       *LimitWindow `json:"five_hour"`
	SevenDay       *LimitWindow `json:"seven_day"`
	SevenDaySonnet *LimitWindow `json:"seven_day_sonnet"`
	ExtraUsage     *ExtraUsage  `json:"extra_usage"`

	FetchedAt time.Time `json:"-"`
}
