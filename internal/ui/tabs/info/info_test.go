package info

import (
	"strings"
	"testing"
	"time"

	"github.com/b-hartley/claude-usage-tui/internal/app"
	"github.com/b-hartley/claude-usage-tui/internal/config"
	"github.com/b-hartley/claude-usage-tui/internal/services"
)

func testConfig() *config.Config {
	return &config.Config{
		Timeframe:           "today",
		RefreshInterval:     10 * time.Minute,
		SessionPollInterval: time.Minute,
		RequestTimeout:      30 * time.Second,
		Path:                "/home/user/.config/claude-usage-tui/config.json",
	}
}

func TestNew(t *testing.T) {
	state := app.NewState()
	m := New(state, testConfig())
	if m == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_Init(t *testing.T) {
	state := app.NewState()
	m := New(state, testConfig())
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
}

func TestModel_Update(t *testing.T) {
	state := app.NewState()
	m := New(state, testConfig())

	updated, _ := m.Update(nil)
	if updated == nil {
		t.Error("Update returned nil model")
	}
}

func TestModel_Update_ConfigReloaded(t *testing.T) {
	state := app.NewState()
	m := New(state, testConfig())

	reloaded := testConfig()
	reloaded.Timeframe = "7days"

	updated, _ := m.Update(app.ServiceEventMsg{
		Event: services.ConfigReloadedEvent{Config: reloaded},
	})
	um, ok := updated.(*Model)
	if !ok {
		t.Fatal("Update returned wrong type")
	}
	if um.config.Timeframe != "7days" {
		t.Errorf("config.Timeframe = %q, want %q", um.config.Timeframe, "7days")
	}
}

func TestModel_View(t *testing.T) {
	state := app.NewState()
	m := New(state, testConfig())
	m.SetSize(80, 24)

	view := m.View()
	if view == "" {
		t.Fatal("View returned empty string")
	}
	if !strings.Contains(view, "today") {
		t.Error("View should contain the timeframe")
	}
	if !strings.Contains(view, "10m0s") {
		t.Error("View should contain the refresh interval")
	}
	if !strings.Contains(view, "keychain") {
		t.Error("View should show the keychain key source when no key is configured")
	}
}

func TestModel_View_MaskedKey(t *testing.T) {
	state := app.NewState()
	cfg := testConfig()
	cfg.AdminAPIKey = "sk-ans-admin-1234567890abcdef"
	m := New(state, cfg)
	m.SetSize(80, 24)

	view := m.View()
	if strings.Contains(view, "1234567890abcdef") {
		t.Error("View must not expose the full admin key")
	}
	if !strings.Contains(view, "(config)") {
		t.Error("View should mark the key as coming from the config file")
	}
}

func TestModel_SetSize(t *testing.T) {
	state := app.NewState()
	m := New(state, testConfig())
	m.SetSize(100, 50)
}

func TestModel_Help(t *testing.T) {
	state := app.NewState()
	m := New(state, testConfig())
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
}
