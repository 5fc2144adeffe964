package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/b-hartley/claude-usage-tui/internal/models"
	"github.com/b-hartley/claude-usage-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// ReportLoadedMsg carries a freshly aggregated usage report.
type ReportLoadedMsg struct {
	Report *models.AggregateReport
}

// SessionLoadedMsg carries the latest session usage snapshot. A nil
// snapshot means the last poll failed.
type SessionLoadedMsg struct {
	Snapshot *models.SessionUsageSnapshot
}

// TimeframeChangedMsg signals the report timeframe was switched.
type TimeframeChangedMsg struct {
	Timeframe string
}

// RefreshMsg requests a refresh of data.
type RefreshMsg struct {
	Resource string // "all", "report", "session"
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// DelayedMsg wraps a message to be sent after a delay.
type DelayedMsg struct {
	Delay time.Duration
	Msg   tea.Msg
}
