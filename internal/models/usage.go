// Package models defines data structures and domain types.
package models

import "time"

// TimeFormat is the wire format for report window boundaries.
const TimeFormat = "2006-01-02T15:04:05Z"

// UsageFigures holds token counts and cost for some slice of usage.
// TotalTokens is always InputTokens + OutputTokens; construct values
// with NewUsageFigures so the invariant holds.
type UsageFigures struct {
	InputTokens  int64   `json:"inputTokens"`
	OutputTokens int64   `json:"outputTokens"`
	TotalTokens  int64   `json:"totalTokens"`
	CostUSD      float64 `json:"costUSD"`
}

// NewUsageFigures builds UsageFigures from input/output counts.
func NewUsageFigures(input, output int64) UsageFigures {
	return UsageFigures{
		InputTokens:  input,
		OutputTokens: output,
		TotalTokens:  input + output,
	}
}

// Add returns the component-wise sum of two UsageFigures.
func (u UsageFigures) Add(other UsageFigures) UsageFigures {
	return UsageFigures{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
		TotalTokens:  u.TotalTokens + other.TotalTokens,
		CostUSD:      u.CostUSD + other.CostUSD,
	}
}

// ModelSummary is aggregated usage for one friendly model name.
type ModelSummary struct {
	DisplayName string       `json:"displayName"`
	Figures     UsageFigures `json:"figures"`
}

// CredentialSummary is aggregated usage for one API credential.
// Usage with no attributable credential lands in the synthetic
// "workbench" entry.
type CredentialSummary struct {
	CredentialID string       `json:"credentialId"`
	DisplayHint  string       `json:"displayHint"`
	Figures      UsageFigures `json:"figures"`
}

// DayTotal is one day-bucket's total token count, kept for charting.
type DayTotal struct {
	Date   string `json:"date"`
	Tokens int64  `json:"tokens"`
}

// AggregateReport is one refresh cycle's combined usage and cost view.
// ByModel and ByCredential are sorted by total tokens descending,
// stable on ties. Total.CostUSD carries the whole window's cost; it is
// never distributed across the per-model or per-credential entries.
type AggregateReport struct {
	Total        UsageFigures        `json:"total"`
	ByModel      []ModelSummary      `json:"byModel"`
	ByCredential []CredentialSummary `json:"byCredential"`
	Daily        []DayTotal          `json:"daily,omitempty"`
	Window       TimeWindow          `json:"window"`
	FetchedAt    time.Time           `json:"fetchedAt"`
}

// TimeWindow is a concrete UTC start/end pair for a report request.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// StartString returns the window start in wire format.
func (w TimeWindow) StartString() string {
	return w.Start.UTC().Format(TimeFormat)
}

// EndString returns the window end in wire format.
func (w TimeWindow) EndString() string {
	return w.End.UTC().Format(TimeFormat)
}
