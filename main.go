package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/trackhours/internal/clock"
	"github.com/sadopc/trackhours/internal/config"
	"github.com/sadopc/trackhours/internal/reminder"
	"github.com/sadopc/trackhours/internal/store"
	"github.com/sadopc/trackhours/internal/timer"
	"github.com/sadopc/trackhours/internal/tui"
)

func main() {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := newLogger(cfg.LogPath)
	defer closeLog()

	s, err := store.NewMemory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening session store: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if err := seedSettings(s, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	engine := timer.New(s, clock.System)
	poller := reminder.NewPoller(engine, clock.System, cfg.Rearm)

	app := tui.NewApp(s, engine, poller, cfg, logger)
	p := tea.NewProgram(app, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reminder.Run(ctx, cfg.PollInterval, func(t time.Time) {
		p.Send(tui.PollMsg(t))
	})

	logger.Info("started", "poll_interval", cfg.PollInterval.String(), "rearm", cfg.Rearm.String())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("exiting")
}

// seedSettings copies the compiled-in defaults into the session store, where
// the settings view can change them until exit.
func seedSettings(s *store.Store, cfg *config.Config) error {
	values := map[string]string{
		store.SettingReminderInterval: cfg.DefaultReminder.String(),
		store.SettingExportFormat:     string(cfg.ExportFormat),
		store.SettingExportDir:        cfg.ExportDir,
	}
	for k, v := range values {
		if err := s.SetSetting(k, v); err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
	}
	return nil
}

// newLogger writes to path, since the terminal belongs to the UI. Logging is
// silently disabled if the file cannot be opened.
func newLogger(path string) (*slog.Logger, func()) {
	discard := slog.New(slog.DiscardHandler)
	if path == "" {
		return discard, func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return discard, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return discard, func() {}
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return logger, func() { f.Close() }
}
