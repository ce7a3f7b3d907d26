package config

import (
	"strings"
	"testing"
	"time"

	"github.com/sadopc/trackhours/internal/export"
	"github.com/sadopc/trackhours/internal/reminder"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Fatalf("PollInterval = %v, want 10s", cfg.PollInterval)
	}
	if cfg.RefreshInterval != time.Second {
		t.Fatalf("RefreshInterval = %v, want 1s", cfg.RefreshInterval)
	}
	if cfg.DefaultReminder != 30 {
		t.Fatalf("DefaultReminder = %v, want 30", cfg.DefaultReminder)
	}
	if cfg.Rearm != reminder.RearmPerInterval {
		t.Fatalf("Rearm = %v", cfg.Rearm)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero poll", func(c *Config) { c.PollInterval = 0 }, "poll interval"},
		{"negative refresh", func(c *Config) { c.RefreshInterval = -time.Second }, "refresh interval"},
		{"odd reminder", func(c *Config) { c.DefaultReminder = 45 }, "default reminder"},
		{"never reminder", func(c *Config) { c.DefaultReminder = reminder.Never }, ""},
		{"bad rearm", func(c *Config) { c.Rearm = reminder.Mode(7) }, "rearm"},
		{"bad format", func(c *Config) { c.ExportFormat = export.Format("xls") }, "export format"},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		err := cfg.Validate()
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("%s: unexpected error %v", tt.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: err = %v, want containing %q", tt.name, err, tt.wantErr)
		}
	}
}

func TestDefaultLogPath(t *testing.T) {
	p := DefaultLogPath()
	if p == "" {
		t.Skip("no user cache dir")
	}
	if !strings.HasSuffix(p, "trackhours.log") {
		t.Fatalf("DefaultLogPath = %q", p)
	}
}
