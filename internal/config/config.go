// Package config holds the application's compiled-in settings. Nothing is
// read from files, flags or the environment; choices the user makes at
// runtime live in the session store and vanish on exit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/trackhours/internal/export"
	"github.com/sadopc/trackhours/internal/reminder"
)

const appName = "trackhours"

type Config struct {
	// PollInterval is how often the reminder poller checks the session.
	PollInterval time.Duration
	// RefreshInterval drives the elapsed-time display.
	RefreshInterval time.Duration

	DefaultReminder reminder.Interval
	Rearm           reminder.Mode

	ExportFormat export.Format
	// ExportDir is where exports are suggested; empty means the home directory.
	ExportDir string

	// LogPath is the debug log; empty disables logging.
	LogPath string
}

func Default() *Config {
	return &Config{
		PollInterval:    reminder.DefaultPollInterval,
		RefreshInterval: time.Second,
		DefaultReminder: 30,
		Rearm:           reminder.RearmPerInterval,
		ExportFormat:    export.FormatCSV,
		LogPath:         DefaultLogPath(),
	}
}

func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.PollInterval)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %v", c.RefreshInterval)
	}
	if _, err := reminder.ParseInterval(c.DefaultReminder.String()); err != nil {
		return fmt.Errorf("default reminder: %w", err)
	}
	switch c.Rearm {
	case reminder.RearmPerInterval, reminder.RearmEveryPoll:
	default:
		return fmt.Errorf("unknown rearm mode %v", c.Rearm)
	}
	if _, err := export.ParseFormat(string(c.ExportFormat)); err != nil {
		return err
	}
	return nil
}

// DefaultLogPath returns <user cache dir>/trackhours/trackhours.log, or ""
// when there is no cache directory.
func DefaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, appName+".log")
}
