// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/b-hartley/claude-usage-tui/internal/config"
	"github.com/b-hartley/claude-usage-tui/internal/credentials"
	"github.com/b-hartley/claude-usage-tui/internal/logger"
	"github.com/b-hartley/claude-usage-tui/internal/models"
	"github.com/b-hartley/claude-usage-tui/internal/services/report"
	"github.com/b-hartley/claude-usage-tui/internal/services/session"
)

type (
	// ReportRefreshingEvent is emitted when a usage report refresh starts.
	ReportRefreshingEvent struct{}

	// ReportUpdatedEvent is emitted when a new aggregate report is available.
	ReportUpdatedEvent struct {
		Report *models.AggregateReport
	}

	// SessionUpdatedEvent is emitted when a session usage poll succeeds.
	SessionUpdatedEvent struct {
		Snapshot *models.SessionUsageSnapshot
	}

	// SessionUnavailableEvent is emitted when a session usage poll fails;
	// the snapshot is unknown until the next successful poll.
	SessionUnavailableEvent struct {
		Error error
	}

	// ConfigReloadedEvent is emitted when the config file changes on disk.
	ConfigReloadedEvent struct {
		Config *config.Config
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (ReportRefreshingEvent) isServiceEvent()   {}
func (ReportUpdatedEvent) isServiceEvent()      {}
func (SessionUpdatedEvent) isServiceEvent()     {}
func (SessionUnavailableEvent) isServiceEvent() {}
func (ConfigReloadedEvent) isServiceEvent()     {}
func (ErrorEvent) isServiceEvent()              {}

// fiveHourAlertThreshold is the utilization percentage at which a
// desktop notification fires for the 5-hour window.
const fiveHourAlertThreshold = 90.0

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	report      *report.Service
	session     *session.Service
	credentials *credentials.Store
	watcher     *config.Watcher
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent

	prevFiveHour float64
	hasPrevFive  bool
}

// NewManager creates a new service manager and starts polling.
func NewManager(cfg *config.Config) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	m := &Manager{
		credentials: credentials.NewStore(cfg.AdminAPIKey),
		eventChan:   make(chan ServiceEvent, 100),
		stopChan:    make(chan struct{}),
	}

	reportCfg := report.DefaultConfig()
	reportCfg.Timeframe = cfg.Timeframe
	reportCfg.BaseURL = cfg.APIBaseURL
	if cfg.RefreshInterval > 0 {
		reportCfg.PollInterval = cfg.RefreshInterval
	}
	if cfg.RequestTimeout > 0 {
		reportCfg.RequestTimeout = cfg.RequestTimeout
	}
	m.report = report.New(m.credentials, reportCfg)

	sessionCfg := session.DefaultConfig()
	if cfg.SessionPollInterval > 0 {
		sessionCfg.PollInterval = cfg.SessionPollInterval
	}
	m.session = session.New(m.credentials, sessionCfg)

	if cfg.Path != "" {
		watcher, err := config.Watch(cfg.Path)
		if err != nil {
			logger.Warn("config watch unavailable", "path", cfg.Path, "error", err)
		} else {
			m.watcher = watcher
		}
	}

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	var configChanges <-chan *config.Config
	if m.watcher != nil {
		configChanges = m.watcher.Changes()
	}

	for {
		select {
		case event := <-m.report.Events():
			m.handleReportEvent(event)

		case event := <-m.session.Events():
			m.handleSessionEvent(event)

		case cfg := <-configChanges:
			m.handleConfigReload(cfg)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleReportEvent(event report.Event) {
	switch event.Type {
	case report.EventReportRefreshing:
		m.broadcast(ReportRefreshingEvent{})

	case report.EventReportUpdated:
		m.broadcast(ReportUpdatedEvent{Report: event.Report})

	case report.EventReportError:
		m.broadcast(ErrorEvent{
			Service: "report",
			Error:   event.Error,
		})
	}
}

func (m *Manager) handleSessionEvent(event session.Event) {
	switch event.Type {
	case session.EventSnapshotUpdated:
		m.broadcast(SessionUpdatedEvent{Snapshot: event.Snapshot})
		m.checkNotifications(event.Snapshot)

	case session.EventSnapshotUnavailable:
		m.broadcast(SessionUnavailableEvent{Error: event.Error})
	}
}

func (m *Manager) handleConfigReload(cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.Timeframe != "" {
		m.report.SetTimeframe(cfg.Timeframe)
	}
	m.broadcast(ConfigReloadedEvent{Config: cfg})
	go func() {
		if _, err := m.report.Refresh(context.Background()); err != nil {
			logger.Error("refresh after config reload failed", "error", err)
		}
	}()
}

// checkNotifications fires a desktop notification when the 5-hour
// window crosses the alert threshold upwards.
func (m *Manager) checkNotifications(snapshot *models.SessionUsageSnapshot) {
	if snapshot == nil || snapshot.FiveHour == nil {
		return
	}

	m.mu.Lock()
	prev := m.prevFiveHour
	hadPrev := m.hasPrevFive
	m.prevFiveHour = snapshot.FiveHour.Utilization
	m.hasPrevFive = true
	m.mu.Unlock()

	if !hadPrev {
		return
	}

	cur := snapshot.FiveHour.Utilization
	if cur >= fiveHourAlertThreshold && prev < fiveHourAlertThreshold {
		title := "Claude session limit"
		body := fmt.Sprintf("5-hour window is at %.0f%% of its limit", cur)
		_ = beeep.Notify(title, body, "")
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
func (m *Manager) Subscribe() chan ServiceEvent {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// GetReport returns the last aggregate usage report, or nil.
func (m *Manager) GetReport() *models.AggregateReport {
	return m.report.GetReport()
}

// GetSnapshot returns the last session usage snapshot, or nil.
func (m *Manager) GetSnapshot() *models.SessionUsageSnapshot {
	return m.session.GetSnapshot()
}

// SetTimeframe changes the report timeframe and triggers a refresh.
func (m *Manager) SetTimeframe(timeframe string) {
	m.report.SetTimeframe(timeframe)
	go func() {
		if _, err := m.report.Refresh(context.Background()); err != nil {
			logger.Error("refresh after timeframe change failed", "error", err)
		}
	}()
}

// Timeframe returns the current report timeframe token.
func (m *Manager) Timeframe() string {
	return m.report.Timeframe()
}

// RefreshAll forces an immediate refresh of both the usage report and
// the session snapshot.
func (m *Manager) RefreshAll() {
	go func() {
		if _, err := m.report.Refresh(context.Background()); err != nil {
			logger.Error("manual report refresh failed", "error", err)
		}
	}()
	go func() {
		if _, err := m.session.Refresh(context.Background()); err != nil {
			logger.Debug("manual session refresh failed", "error", err)
		}
	}()
}

// Credentials returns the credential store.
func (m *Manager) Credentials() *credentials.Store {
	return m.credentials
}

// Report returns the report service.
func (m *Manager) Report() *report.Service {
	return m.report
}

// Session returns the session service.
func (m *Manager) Session() *session.Service {
	return m.session
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if err := m.report.Close(); err != nil {
		errs = append(errs, err)
	}

	if err := m.session.Close(); err != nil {
		errs = append(errs, err)
	}

	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
