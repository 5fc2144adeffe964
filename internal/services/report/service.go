package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/b-hartley/claude-usage-tui/internal/logger"
	"github.com/b-hartley/claude-usage-tui/internal/models"
)

// KeySource supplies the Admin API key. Implemented by the credentials
// package; faked in tests.
type KeySource interface {
	AdminAPIKey() (string, error)
}

// EventType defines the type of report event.
type EventType int

const (
	// EventReportRefreshing indicates a refresh is in progress.
	EventReportRefreshing EventType = iota
	// EventReportUpdated indicates a new report is available.
	EventReportUpdated
	// EventReportError indicates a refresh failed; the previous
	// report remains current.
	EventReportError
)

// Event represents a report service event.
type Event struct {
	Type   EventType
	Report *models.AggregateReport
	Error  error
}

// Config holds configuration for the report service.
type Config struct {
	Timeframe      string
	BaseURL        string
	PollInterval   time.Duration
	RequestTimeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeframe:      TimeframeToday,
		PollInterval:   5 * time.Minute,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Service periodically refreshes the aggregate usage report. A failed
// refresh keeps the last good report; each attempt is one-shot with no
// retries.
type Service struct {
	keys      KeySource
	config    Config
	eventChan chan Event
	stopChan  chan struct{}

	mu         sync.RWMutex
	client     *Client
	clientKey  string
	lastReport *models.AggregateReport
}

// New creates a report service and starts its polling goroutine.
func New(keys KeySource, config Config) *Service {
	if config.PollInterval == 0 {
		config = DefaultConfig()
	}

	s := &Service{
		keys:      keys,
		config:    config,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	go s.poll()

	return s
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// GetReport returns the last successfully fetched report, or nil if
// none has succeeded yet.
func (s *Service) GetReport() *models.AggregateReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReport
}

// SetTimeframe changes the report timeframe for subsequent refreshes.
func (s *Service) SetTimeframe(timeframe string) {
	s.mu.Lock()
	s.config.Timeframe = timeframe
	s.mu.Unlock()
}

// Timeframe returns the current timeframe token.
func (s *Service) Timeframe() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Timeframe
}

// Refresh performs one refresh cycle: resolve the window, fetch both
// usage groupings and the cost data, and combine them. The two usage
// fetches are failure-coupled; the cost fetch degrades to zero cost on
// its own.
func (s *Service) Refresh(ctx context.Context) (*models.AggregateReport, error) {
	s.sendEvent(Event{Type: EventReportRefreshing})

	client, err := s.getClient()
	if err != nil {
		s.sendEvent(Event{Type: EventReportError, Error: err})
		return nil, err
	}

	s.mu.RLock()
	timeframe := s.config.Timeframe
	s.mu.RUnlock()

	window := ResolveWindow(timeframe, time.Now())

	var (
		wg         sync.WaitGroup
		modelUsage []UsageBucket
		credUsage  []UsageBucket
		costData   []CostBucket
		modelErr   error
		credErr    error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		modelUsage, modelErr = client.FetchUsage(ctx, window, GroupByModel)
	}()
	go func() {
		defer wg.Done()
		credUsage, credErr = client.FetchUsage(ctx, window, GroupByAPIKey)
	}()
	go func() {
		defer wg.Done()
		costData = client.FetchCost(ctx, window)
	}()
	wg.Wait()

	if modelErr != nil {
		return s.handleRefreshError(modelErr)
	}
	if credErr != nil {
		return s.handleRefreshError(credErr)
	}

	rep := Combine(modelUsage, credUsage, costData)
	rep.Window = window

	s.mu.Lock()
	s.lastReport = rep
	s.mu.Unlock()

	s.sendEvent(Event{Type: EventReportUpdated, Report: rep})
	return rep, nil
}

func (s *Service) handleRefreshError(err error) (*models.AggregateReport, error) {
	s.sendEvent(Event{Type: EventReportError, Error: err})
	return nil, fmt.Errorf("usage refresh failed: %w", err)
}

// getClient returns a client for the current admin key, constructing a
// new one only when the key changes.
func (s *Service) getClient() (*Client, error) {
	key, err := s.keys.AdminAPIKey()
	if err != nil {
		return nil, &Error{Kind: KindCredential, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil || s.clientKey != key {
		s.client = NewClient(key, s.config.BaseURL, s.config.RequestTimeout)
		s.clientKey = key
	}
	return s.client, nil
}

func (s *Service) poll() {
	if _, err := s.Refresh(context.Background()); err != nil {
		logger.Error("initial report refresh failed", "error", err)
	}

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Refresh(context.Background()); err != nil {
				logger.Error("report refresh failed", "error", err)
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
