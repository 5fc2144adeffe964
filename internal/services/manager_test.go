package services

import (
	"errors"
	"testing"
	"time"

	"github.com/b-hartley/claude-usage-tui/internal/config"
	"github.com/b-hartley/claude-usage-tui/internal/models"
	"github.com/b-hartley/claude-usage-tui/internal/services/session"
)

func testConfig() *config.Config {
	return &config.Config{
		Timeframe:           "today",
		RefreshInterval:     time.Hour,
		SessionPollInterval: time.Hour,
		RequestTimeout:      time.Second,
	}
}

func TestNewManager(t *testing.T) {
	mgr, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	if mgr.Report() == nil {
		t.Error("Report service should be initialized")
	}
	if mgr.Session() == nil {
		t.Error("Session service should be initialized")
	}
	if mgr.Credentials() == nil {
		t.Error("Credential store should be initialized")
	}
}

func TestNewManager_NilConfig(t *testing.T) {
	if _, err := NewManager(nil); err == nil {
		t.Error("NewManager should reject nil config")
	}
}

func TestManager_Timeframe(t *testing.T) {
	mgr, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	if got := mgr.Timeframe(); got != "today" {
		t.Errorf("Timeframe = %q, want today", got)
	}

	mgr.SetTimeframe("7days")
	if got := mgr.Timeframe(); got != "7days" {
		t.Errorf("Timeframe = %q, want 7days", got)
	}
}

func TestManager_Subscription(t *testing.T) {
	mgr, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	ch := mgr.Subscribe()
	if ch == nil {
		t.Error("Subscribe returned nil channel")
	}

	mgr.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Channel should be closed")
		}
	default:
	}
}

func TestManager_Broadcast(t *testing.T) {
	mgr, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	ch := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	event := ReportUpdatedEvent{Report: &models.AggregateReport{}}
	mgr.broadcast(event)

	deadline := time.After(time.Second)
	for {
		select {
		case e := <-ch:
			if _, ok := e.(ReportUpdatedEvent); ok {
				return
			}
			// polling goroutines may emit their own events first
		case <-deadline:
			t.Fatal("Timeout waiting for broadcast")
		}
	}
}

func TestManager_CheckNotifications(t *testing.T) {
	mgr, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	// No previous value: records the baseline, no notification.
	mgr.checkNotifications(&models.SessionUsageSnapshot{
		FiveHour: &models.LimitWindow{Utilization: 50},
	})
	if !mgr.hasPrevFive {
		t.Error("baseline should be recorded")
	}

	// Below threshold stays quiet.
	mgr.checkNotifications(&models.SessionUsageSnapshot{
		FiveHour: &models.LimitWindow{Utilization: 80},
	})
	if mgr.prevFiveHour != 80 {
		t.Errorf("prevFiveHour = %v, want 80", mgr.prevFiveHour)
	}

	// Nil window resets nothing and must not panic.
	mgr.checkNotifications(&models.SessionUsageSnapshot{})
	mgr.checkNotifications(nil)
}

func TestManager_HandleSessionEvent(t *testing.T) {
	mgr, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	ch := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	mgr.handleSessionEvent(session.Event{
		Type:  session.EventSnapshotUnavailable,
		Error: errors.New("poll failed"),
	})

	deadline := time.After(time.Second)
	for {
		select {
		case e := <-ch:
			if _, ok := e.(SessionUnavailableEvent); ok {
				return
			}
		case <-deadline:
			t.Fatal("Timeout waiting for session event")
		}
	}
}

func TestServiceEvent_Interface(t *testing.T) {
	var _ ServiceEvent = ReportRefreshingEvent{}
	var _ ServiceEvent = ReportUpdatedEvent{}
	var _ ServiceEvent = SessionUpdatedEvent{}
	var _ ServiceEvent = SessionUnavailableEvent{}
	var _ ServiceEvent = ConfigReloadedEvent{}
	var _ ServiceEvent = ErrorEvent{}
}
