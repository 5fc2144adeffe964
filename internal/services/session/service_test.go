package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/b-hartley/claude-usage-tui/internal/models"
)

// fakeTokens implements TokenSource for testing.
type fakeTokens struct {
	token string
	err   error
}

func (f *fakeTokens) BearerToken() (string, error) {
	return f.token, f.err
}

// newTestService builds a service without the polling goroutine.
func newTestService(tokens TokenSource, transport http.RoundTripper) *Service {
	return &Service{
		tokens:     tokens,
		config:     DefaultConfig(),
		httpClient: &http.Client{Transport: transport},
		eventChan:  make(chan Event, 100),
		stopChan:   make(chan struct{}),
	}
}

func TestService_Refresh(t *testing.T) {
	svc := newTestService(&fakeTokens{token: "oauth-token"}, &MockRoundTripper{
		RoundTripFunc: func(_ *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: 200,
				Body:       io.NopCloser(bytes.NewReader(snapshotBody())),
			}, nil
		},
	})

	snap, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if snap.FiveHour == nil {
		t.Fatal("snapshot should carry the five-hour window")
	}

	if got := svc.GetSnapshot(); got != snap {
		t.Error("GetSnapshot should return the latest snapshot")
	}

	ev := <-svc.Events()
	if ev.Type != EventSnapshotUpdated {
		t.Errorf("event = %v, want EventSnapshotUpdated", ev.Type)
	}
	if ev.Snapshot != snap {
		t.Error("event should carry the snapshot")
	}
}

func TestService_Refresh_NoToken(t *testing.T) {
	svc := newTestService(&fakeTokens{err: errors.New("not logged in")}, nil)

	// Seed a previous snapshot; it must not survive the failure.
	svc.mu.Lock()
	svc.snapshot = &models.SessionUsageSnapshot{}
	svc.mu.Unlock()

	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	if svc.GetSnapshot() != nil {
		t.Error("failed poll should clear the snapshot")
	}

	ev := <-svc.Events()
	if ev.Type != EventSnapshotUnavailable {
		t.Errorf("event = %v, want EventSnapshotUnavailable", ev.Type)
	}
	if ev.Error == nil {
		t.Error("unavailable event should carry the error")
	}
}

func TestService_Refresh_PollFailureClearsSnapshot(t *testing.T) {
	calls := 0
	svc := newTestService(&fakeTokens{token: "oauth-token"}, &MockRoundTripper{
		RoundTripFunc: func(_ *http.Request) (*http.Response, error) {
			calls++
			if calls == 1 {
				return &http.Response{
					StatusCode: 200,
					Body:       io.NopCloser(bytes.NewReader(snapshotBody())),
				}, nil
			}
			return nil, errors.New("network down")
		},
	})

	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}
	if svc.GetSnapshot() == nil {
		t.Fatal("snapshot should be set after success")
	}

	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("second refresh should fail")
	}
	if svc.GetSnapshot() != nil {
		t.Error("stale snapshot must not be shown after a failed poll")
	}
}

func TestService_SendEvent_Full(t *testing.T) {
	svc := newTestService(&fakeTokens{token: "t"}, nil)

	for i := 0; i < 110; i++ {
		svc.sendEvent(Event{Type: EventSnapshotUpdated})
	}

	if count := len(svc.eventChan); count != 100 {
		t.Errorf("expected 100 events in buffer, got %d", count)
	}
}

func TestService_NewAndClose(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PollInterval = time.Hour

	svc := New(&fakeTokens{err: errors.New("not logged in")}, cfg)
	defer func() {
		if err := svc.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	}()

	select {
	case ev := <-svc.Events():
		if ev.Type != EventSnapshotUnavailable {
			t.Errorf("event = %v, want EventSnapshotUnavailable", ev.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("expected an unavailable event from the initial poll")
	}

	if svc.GetSnapshot() != nil {
		t.Error("GetSnapshot should be nil when polling fails")
	}
}
