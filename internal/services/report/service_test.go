package report

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

// fakeKeys implements KeySource for testing.
type fakeKeys struct {
	key string
	err error
}

func (f *fakeKeys) AdminAPIKey() (string, error) {
	return f.key, f.err
}

// newTestService builds a service without the polling goroutine and
// pre-wires a client against the given transport.
func newTestService(transport http.RoundTripper) *Service {
	s := &Service{
		keys:      &fakeKeys{key: "test-key"},
		config:    DefaultConfig(),
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}
	s.client = NewClient("test-key", "", time.Second)
	s.client.httpClient = &http.Client{Transport: transport}
	s.clientKey = "test-key"
	return s
}

// okTransport serves a minimal successful response for both usage
// groupings and the cost report.
func okTransport() http.RoundTripper {
	return &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			if strings.Contains(req.URL.Path, "cost_report") {
				return jsonResponse(200, costResponse{
					Data: []CostBucket{{Results: []CostRow{{Amount: 5.5}}}},
				}), nil
			}

			if req.URL.Query().Get("group_by[]") == "model" {
				return jsonResponse(200, usageResponse{
					Data: []UsageBucket{{
						StartingAt: "2026-03-10T00:00:00Z",
						Results: []UsageRow{
							{Model: "claude-opus-4-1", UncachedInputTokens: 100, OutputTokens: 20},
						},
					}},
				}), nil
			}

			return jsonResponse(200, usageResponse{
				Data: []UsageBucket{{
					Results: []UsageRow{
						{APIKeyID: "apikey_abc123", UncachedInputTokens: 100, OutputTokens: 20},
					},
				}},
			}), nil
		},
	}
}

func TestService_Refresh(t *testing.T) {
	svc := newTestService(okTransport())

	rep, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if rep.Total.TotalTokens != 120 {
		t.Errorf("Total.TotalTokens = %d, want 120", rep.Total.TotalTokens)
	}
	if rep.Total.CostUSD != 5.5 {
		t.Errorf("CostUSD = %v, want 5.5", rep.Total.CostUSD)
	}
	if len(rep.ByModel) != 1 || rep.ByModel[0].DisplayName != "Opus" {
		t.Errorf("ByModel = %+v", rep.ByModel)
	}
	if len(rep.ByCredential) != 1 || rep.ByCredential[0].DisplayHint != "...abc123" {
		t.Errorf("ByCredential = %+v", rep.ByCredential)
	}
	if rep.Window.Start.IsZero() || rep.Window.End.IsZero() {
		t.Error("Window should be set on the report")
	}

	if got := svc.GetReport(); got != rep {
		t.Error("GetReport should return the refreshed report")
	}

	// Events: refreshing then updated.
	ev := <-svc.Events()
	if ev.Type != EventReportRefreshing {
		t.Errorf("first event = %v, want EventReportRefreshing", ev.Type)
	}
	ev = <-svc.Events()
	if ev.Type != EventReportUpdated {
		t.Errorf("second event = %v, want EventReportUpdated", ev.Type)
	}
	if ev.Report != rep {
		t.Error("updated event should carry the report")
	}
}

func TestService_Refresh_UsageErrorAborts(t *testing.T) {
	svc := newTestService(&MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			if strings.Contains(req.URL.Path, "cost_report") {
				return jsonResponse(200, costResponse{}), nil
			}
			return &http.Response{StatusCode: 401, Body: http.NoBody}, nil
		},
	})

	_, err := svc.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindAuth {
		t.Errorf("expected auth error, got %v", err)
	}
	if svc.GetReport() != nil {
		t.Error("failed refresh must not install a report")
	}
}

func TestService_Refresh_CostFailureDegrades(t *testing.T) {
	svc := newTestService(&MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			if strings.Contains(req.URL.Path, "cost_report") {
				return nil, errors.New("cost endpoint down")
			}
			return jsonResponse(200, usageResponse{
				Data: []UsageBucket{{
					Results: []UsageRow{{Model: "claude-sonnet-4", UncachedInputTokens: 10}},
				}},
			}), nil
		},
	})

	rep, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh should survive a cost failure: %v", err)
	}
	if rep.Total.CostUSD != 0 {
		t.Errorf("CostUSD = %v, want 0", rep.Total.CostUSD)
	}
	if rep.Total.TotalTokens == 0 {
		t.Error("usage should still be reported")
	}
}

func TestService_Refresh_NoKey(t *testing.T) {
	svc := &Service{
		keys:      &fakeKeys{err: errors.New("no key anywhere")},
		config:    DefaultConfig(),
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	_, err := svc.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindCredential {
		t.Errorf("expected credential error, got %v", err)
	}
}

func TestService_KeyChangeRebuildsClient(t *testing.T) {
	keys := &fakeKeys{key: "key-one"}
	svc := &Service{
		keys:      keys,
		config:    DefaultConfig(),
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	c1, err := svc.getClient()
	if err != nil {
		t.Fatalf("getClient failed: %v", err)
	}
	c2, _ := svc.getClient()
	if c1 != c2 {
		t.Error("same key should reuse the client")
	}

	keys.key = "key-two"
	c3, _ := svc.getClient()
	if c3 == c1 {
		t.Error("key change should rebuild the client")
	}
}

func TestService_SetTimeframe(t *testing.T) {
	svc := newTestService(okTransport())

	if svc.Timeframe() != TimeframeToday {
		t.Errorf("default timeframe = %q, want today", svc.Timeframe())
	}

	svc.SetTimeframe(Timeframe30Days)
	if svc.Timeframe() != Timeframe30Days {
		t.Errorf("Timeframe = %q, want 30days", svc.Timeframe())
	}
}

func TestService_SendEvent_Full(t *testing.T) {
	svc := newTestService(okTransport())

	for i := 0; i < 110; i++ {
		svc.sendEvent(Event{Type: EventReportUpdated})
	}

	count := len(svc.eventChan)
	if count != 100 {
		t.Errorf("expected 100 events in buffer, got %d", count)
	}
}

func TestService_NewAndClose(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PollInterval = time.Hour

	svc := New(&fakeKeys{err: errors.New("no key")}, cfg)
	defer func() {
		if err := svc.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	}()

	if svc.GetReport() != nil {
		t.Error("GetReport should be nil before any refresh succeeds")
	}

	select {
	case ev := <-svc.Events():
		if ev.Type != EventReportRefreshing {
			t.Errorf("first event = %v, want EventReportRefreshing", ev.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a refreshing event from the initial poll")
	}
}
