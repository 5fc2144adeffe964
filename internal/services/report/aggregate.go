package report

import (
	"sort"
	"strings"
	"time"

	"github.com/b-hartley/claude-usage-tui/internal/models"
)

// WorkbenchID is the synthetic credential for usage with no
// attributable API key (interactive Workbench traffic).
const WorkbenchID = "workbench"

// friendlyModelName collapses a raw model identifier to a coarse
// display name. Keywords are checked in priority order; an identifier
// matching none is its own display name.
func friendlyModelName(model string) string {
	lower := strings.ToLower(model)
	switch {
	case strings.Contains(lower, "opus"):
		return "Opus"
	case strings.Contains(lower, "sonnet"):
		return "Sonnet"
	case strings.Contains(lower, "haiku"):
		return "Haiku"
	default:
		return model
	}
}

// credentialHint returns the short display form of a credential ID.
func credentialHint(id string) string {
	if id == WorkbenchID {
		return "Workbench"
	}
	if len(id) > 6 {
		return "..." + id[len(id)-6:]
	}
	return id
}

// tokenTally accumulates raw token counts for one grouping key.
type tokenTally struct {
	input  int64
	output int64
}

// Combine merges model-grouped usage buckets, credential-grouped usage
// buckets and cost buckets into one AggregateReport.
//
// Per-model input tokens include both ephemeral cache-write
// categories; per-credential input tokens deliberately do not. The
// asymmetry matches the upstream account dashboard and must not be
// "fixed" here without product confirmation.
func Combine(modelUsage, credentialUsage []UsageBucket, costData []CostBucket) *models.AggregateReport {
	report := &models.AggregateReport{FetchedAt: time.Now()}

	modelTotals := make(map[string]*tokenTally)
	var modelOrder []string

	for _, bucket := range modelUsage {
		for _, row := range bucket.Results {
			name := friendlyModelName(row.Model)
			input := row.UncachedInputTokens +
				row.CacheReadInputTokens +
				row.CacheCreation.Ephemeral1hInputTokens +
				row.CacheCreation.Ephemeral5mInputTokens

			tally, ok := modelTotals[name]
			if !ok {
				tally = &tokenTally{}
				modelTotals[name] = tally
				modelOrder = append(modelOrder, name)
			}
			tally.input += input
			tally.output += row.OutputTokens
		}
	}

	for _, name := range modelOrder {
		tally := modelTotals[name]
		figures := models.NewUsageFigures(tally.input, tally.output)
		report.ByModel = append(report.ByModel, models.ModelSummary{
			DisplayName: name,
			Figures:     figures,
		})
		report.Total = report.Total.Add(figures)
	}

	sort.SliceStable(report.ByModel, func(i, j int) bool {
		return report.ByModel[i].Figures.TotalTokens > report.ByModel[j].Figures.TotalTokens
	})

	credTotals := make(map[string]*tokenTally)
	var credOrder []string

	for _, bucket := range credentialUsage {
		for _, row := range bucket.Results {
			id := row.APIKeyID
			if id == "" {
				id = WorkbenchID
			}

			tally, ok := credTotals[id]
			if !ok {
				tally = &tokenTally{}
				credTotals[id] = tally
				credOrder = append(credOrder, id)
			}
			tally.input += row.UncachedInputTokens + row.CacheReadInputTokens
			tally.output += row.OutputTokens
		}
	}

	for _, id := range credOrder {
		tally := credTotals[id]
		report.ByCredential = append(report.ByCredential, models.CredentialSummary{
			CredentialID: id,
			DisplayHint:  credentialHint(id),
			Figures:      models.NewUsageFigures(tally.input, tally.output),
		})
	}

	sort.SliceStable(report.ByCredential, func(i, j int) bool {
		return report.ByCredential[i].Figures.TotalTokens > report.ByCredential[j].Figures.TotalTokens
	})

	var totalCost float64
	for _, bucket := range costData {
		for _, row := range bucket.Results {
			totalCost += row.Amount
		}
	}
	report.Total.CostUSD = totalCost

	report.Daily = dailyTotals(modelUsage)

	return report
}

// dailyTotals flattens model-grouped buckets into one total-token
// point per day, in bucket order, for charting.
func dailyTotals(buckets []UsageBucket) []models.DayTotal {
	var daily []models.DayTotal
	for _, bucket := range buckets {
		var tokens int64
		for _, row := range bucket.Results {
			tokens += row.UncachedInputTokens +
				row.CacheReadInputTokens +
				row.CacheCreation.Ephemeral1hInputTokens +
				row.CacheCreation.Ephemeral5mInputTokens +
				row.OutputTokens
		}

		date := bucket.StartingAt
		if t, err := time.Parse(time.RFC3339, bucket.StartingAt); err == nil {
			date = t.UTC().Format("Jan 02")
		}
		daily = append(daily, models.DayTotal{Date: date, Tokens: tokens})
	}
	return daily
}
