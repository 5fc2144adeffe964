package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/b-hartley/claude-usage-tui/internal/logger"
	"github.com/b-hartley/claude-usage-tui/internal/models"
)

// TokenSource supplies the OAuth bearer token. Implemented by the
// credentials package; faked in tests.
type TokenSource interface {
	BearerToken() (string, error)
}

// EventType defines the type of session event.
type EventType int

const (
	// EventSnapshotUpdated indicates a new snapshot is available.
	EventSnapshotUpdated EventType = iota
	// EventSnapshotUnavailable indicates the poll failed; there is no
	// current snapshot.
	EventSnapshotUnavailable
)

// Event represents a session service event.
type Event struct {
	Type     EventType
	Snapshot *models.SessionUsageSnapshot
	Error    error
}

// Config holds configuration for the session service.
type Config struct {
	Endpoint     string
	PollInterval time.Duration
	Timeout      time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Endpoint:     DefaultEndpoint,
		PollInterval: 60 * time.Second,
		Timeout:      DefaultTimeout,
	}
}

// Service polls the session usage endpoint on its own cadence,
// independent of the report refresh cycle. A failed poll degrades to
// "no snapshot"; the previous snapshot is discarded rather than shown
// stale.
type Service struct {
	tokens     TokenSource
	config     Config
	httpClient *http.Client
	eventChan  chan Event
	stopChan   chan struct{}

	mu       sync.RWMutex
	snapshot *models.SessionUsageSnapshot
}

// New creates a session service and starts its polling goroutine.
func New(tokens TokenSource, config Config) *Service {
	if config.PollInterval == 0 {
		config = DefaultConfig()
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	s := &Service{
		tokens:     tokens,
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		eventChan:  make(chan Event, 100),
		stopChan:   make(chan struct{}),
	}

	go s.poll()

	return s
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// GetSnapshot returns the current snapshot, or nil when none is
// available.
func (s *Service) GetSnapshot() *models.SessionUsageSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Refresh performs one poll. On failure the current snapshot becomes
// nil and the error is reported through an event; callers render the
// absent state.
func (s *Service) Refresh(ctx context.Context) (*models.SessionUsageSnapshot, error) {
	token, err := s.tokens.BearerToken()
	if err != nil {
		return s.handleUnavailable(err)
	}

	snapshot, err := FetchSnapshot(ctx, s.httpClient, s.config.Endpoint, token)
	if err != nil {
		return s.handleUnavailable(err)
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	s.sendEvent(Event{Type: EventSnapshotUpdated, Snapshot: snapshot})
	return snapshot, nil
}

func (s *Service) handleUnavailable(err error) (*models.SessionUsageSnapshot, error) {
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()

	s.sendEvent(Event{Type: EventSnapshotUnavailable, Error: err})
	return nil, err
}

func (s *Service) poll() {
	if _, err := s.Refresh(context.Background()); err != nil {
		logger.Warn("session usage unavailable", "error", err)
	}

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Refresh(context.Background()); err != nil {
				logger.Warn("session usage unavailable", "error", err)
			}
		case <-s.stopChan:
			return
		}
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the service.
func (s *Service) Close() error {
	close(s.stopChan)
	return nil
}
