package app

import (
	"testing"
	"time"

	"github.com/b-hartley/claude-usage-tui/internal/models"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if s.GetReport() != nil {
		t.Error("report should start nil")
	}
	if s.GetSnapshot() != nil {
		t.Error("snapshot should start nil")
	}
	if s.Loading.Initial != true {
		t.Error("Initial loading should be true")
	}
}

func TestState_SetLoading(t *testing.T) {
	s := NewState()

	s.SetLoading("report", true)
	if !s.Loading.Report {
		t.Error("Report loading should be true")
	}
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true")
	}

	s.SetLoading("report", false)
	// Initial is still true
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true (Initial is true)")
	}

	s.SetLoading("initial", false)
	if s.AnyLoading() {
		t.Error("AnyLoading should be false")
	}
	if s.IsInitialLoading() {
		t.Error("IsInitialLoading should be false")
	}

	s.SetLoading("session", true)
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true (session)")
	}
}

func TestState_Report(t *testing.T) {
	s := NewState()

	rep := &models.AggregateReport{
		Total:     models.NewUsageFigures(100, 20),
		FetchedAt: time.Now(),
	}
	s.SetReport(rep)

	got := s.GetReport()
	if got == nil {
		t.Fatal("GetReport returned nil")
	}
	if got.Total.TotalTokens != 120 {
		t.Errorf("TotalTokens = %d, want 120", got.Total.TotalTokens)
	}
	if s.GetLastUpdated().IsZero() {
		t.Error("LastUpdated should be set")
	}
}

func TestState_Snapshot(t *testing.T) {
	s := NewState()

	snap := &models.SessionUsageSnapshot{
		FiveHour:  &models.LimitWindow{Utilization: 50},
		FetchedAt: time.Now(),
	}
	s.SetSnapshot(snap)

	got := s.GetSnapshot()
	if got == nil {
		t.Fatal("GetSnapshot returned nil")
	}
	if got.FiveHour.Utilization != 50 {
		t.Errorf("FiveHour.Utilization = %v, want 50", got.FiveHour.Utilization)
	}

	// A nil snapshot marks session usage unavailable.
	s.SetSnapshot(nil)
	if s.GetSnapshot() != nil {
		t.Error("GetSnapshot should return nil after SetSnapshot(nil)")
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "test", time.Minute)
	if id == "" {
		t.Error("AddNotification returned empty ID")
	}

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("GetNotifications len = %d, want 1", len(notifs))
	}
	if notifs[0].Message != "test" {
		t.Errorf("Notification message = %s, want test", notifs[0].Message)
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("Notification should be removed")
	}
}

func TestState_ClearExpiredNotifications(t *testing.T) {
	s := NewState()

	// Expired
	s.notifications = append(s.notifications, Notification{
		ID:        "expired",
		CreatedAt: time.Now().Add(-2 * time.Minute),
		Duration:  time.Minute,
	})

	// Active
	s.notifications = append(s.notifications, Notification{
		ID:        "active",
		CreatedAt: time.Now(),
		Duration:  time.Minute,
	})

	s.ClearExpiredNotifications()

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != "active" {
		t.Errorf("Expected active notification, got %s", notifs[0].ID)
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("loading...")
	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != LoadingNotificationID {
		t.Errorf("Expected ID %s, got %s", LoadingNotificationID, notifs[0].ID)
	}
	if notifs[0].Message != "loading..." {
		t.Errorf("Expected message loading..., got %s", notifs[0].Message)
	}

	// Update message
	s.SetLoadingNotification("still loading...")
	notifs = s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Expected 1 notification after update")
	}
	if notifs[0].Message != "still loading..." {
		t.Errorf("Expected message still loading..., got %s", notifs[0].Message)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("Loading notification should be cleared")
	}
}

func TestState_NotificationCap(t *testing.T) {
	s := NewState()
	for i := 0; i < 15; i++ {
		s.AddNotification(NotificationInfo, "n", time.Minute)
	}
	if got := len(s.GetNotifications()); got != 10 {
		t.Errorf("notification count = %d, want 10", got)
	}
}

func TestState_TimeSinceUpdate(t *testing.T) {
	s := NewState()
	if s.TimeSinceUpdate() != 0 {
		t.Error("TimeSinceUpdate should be 0 before any update")
	}

	s.SetReport(&models.AggregateReport{})
	time.Sleep(time.Millisecond)
	if s.TimeSinceUpdate() == 0 {
		t.Error("TimeSinceUpdate should be > 0 after an update")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		t    NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationType(999), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
