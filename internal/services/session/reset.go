package session

import (
	"fmt"
	"regexp"
	"time"
)

var fractionalSeconds = regexp.MustCompile(`\.\d+`)

// FormatResetTime renders an ISO-8601 reset timestamp relative to now:
// "--" for a missing value, "?" for an unparsable one, "{h}h {m}m" or
// "{m}m" within the same day, "Tomorrow" for the next day, and an
// abbreviated date ("Mar 05") beyond that.
func FormatResetTime(iso string) string {
	return formatResetTimeAt(iso, time.Now())
}

// formatResetTimeAt is the clock-injected implementation.
func formatResetTimeAt(iso string, now time.Time) string {
	if iso == "" {
		return "--"
	}

	clean := fractionalSeconds.ReplaceAllString(iso, "")
	reset, err := time.Parse(time.RFC3339, clean)
	if err != nil {
		return "?"
	}

	// Whole days via floor division so a reset slightly in the past
	// falls through to the date form, matching timedelta semantics.
	diff := reset.Sub(now)
	totalSecs := int64(diff / time.Second)
	days := totalSecs / 86400
	if totalSecs < 0 && totalSecs%86400 != 0 {
		days--
	}
	rem := totalSecs - days*86400

	switch days {
	case 0:
		hours := rem / 3600
		mins := (rem % 3600) / 60
		if hours > 0 {
			return fmt.Sprintf("%dh %dm", hours, mins)
		}
		return fmt.Sprintf("%dm", mins)
	case 1:
		return "Tomorrow"
	default:
		return reset.Format("Jan 02")
	}
}
