package report

import (
	"time"

	"github.com/b-hartley/claude-usage-tui/internal/models"
)

// Timeframe tokens understood by ResolveWindow.
const (
	TimeframeToday  = "today"
	Timeframe7Days  = "7days"
	Timeframe30Days = "30days"
)

// ResolveWindow maps a timeframe token to a concrete UTC window ending
// at now. "7days" and "30days" are calendar days inclusive of today,
// so their starts sit 6 and 29 midnights back. An unrecognized token
// behaves like "today".
func ResolveWindow(timeframe string, now time.Time) models.TimeWindow {
	now = now.UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var start time.Time
	switch timeframe {
	case Timeframe7Days:
		start = todayStart.AddDate(0, 0, -6)
	case Timeframe30Days:
		start = todayStart.AddDate(0, 0, -29)
	default:
		start = todayStart
	}

	return models.TimeWindow{Start: start, End: now}
}

// WidenToDays expands a window to full UTC day boundaries: start moves
// back to its day's midnight, end moves forward to the midnight after
// its day. The cost endpoint only accepts whole-day windows, and the
// widened end guarantees the partial final day is covered.
func WidenToDays(w models.TimeWindow) models.TimeWindow {
	start := w.Start.UTC()
	end := w.End.UTC()

	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	return models.TimeWindow{Start: dayStart, End: dayEnd}
}
