// Package main is the entry point for the Claude usage TUI. It loads
// configuration, starts the background services, and runs the Bubble
// Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/b-hartley/claude-usage-tui/internal/app"
	"github.com/b-hartley/claude-usage-tui/internal/config"
	"github.com/b-hartley/claude-usage-tui/internal/logger"
	"github.com/b-hartley/claude-usage-tui/internal/services"
	"github.com/b-hartley/claude-usage-tui/internal/ui/tabs/info"
	"github.com/b-hartley/claude-usage-tui/internal/ui/tabs/session"
	"github.com/b-hartley/claude-usage-tui/internal/ui/tabs/usage"
	"github.com/b-hartley/claude-usage-tui/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Logging goes to a file while the alternate screen owns the
	// terminal; stderr output would corrupt the TUI.
	logPath := filepath.Join(filepath.Dir(config.DefaultPath()), "cutui.log")
	if closeLog, logErr := logger.SetFile(logPath); logErr == nil {
		defer closeLog()
	}

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	state := model.GetState()
	tabs := []app.Tab{
		session.New(state),
		usage.New(state, model.GetCommands()),
		info.New(state, cfg),
	}
	model.SetTabs(tabs)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

func printUsage() {
	fmt.Println(`Claude Usage TUI - Anthropic API usage and session limit monitor

Usage:
  cutui [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-3             Switch between tabs (Session, Usage, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Scroll
  t               Cycle timeframe (usage tab)
  r               Refresh data
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  ANTHROPIC_ADMIN_API_KEY  Admin API key (used when the keychain has none)
  USAGE_TIMEFRAME          Default timeframe: today, 7days, 30days
  USAGE_REFRESH_INTERVAL   Report refresh interval (default: 5m)
  SESSION_POLL_INTERVAL    Session poll interval (default: 60s)
  DEBUG                    Enable debug logging

Configuration:
  Settings live in ~/.config/claude-usage-tui/config.json. The file is
  watched and changes apply without restart. .env files in the current
  directory or the config directory are loaded first.`)
}
