package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sadopc/trackhours/internal/config"
	"github.com/sadopc/trackhours/internal/store"
)

func TestSeedSettings(t *testing.T) {
	s, err := store.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	cfg := config.Default()
	cfg.DefaultReminder = 60
	cfg.ExportDir = "/data/exports"
	if err := seedSettings(s, cfg); err != nil {
		t.Fatal(err)
	}

	for key, want := range map[string]string{
		store.SettingReminderInterval: "60",
		store.SettingExportFormat:     "csv",
		store.SettingExportDir:        "/data/exports",
	} {
		got, err := s.GetSetting(key)
		if err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "trackhours.log")
	logger, closeLog := newLogger(path)
	logger.Info("timer started", "task", "write")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "task=write") {
		t.Fatalf("log = %q", data)
	}
}

func TestNewLoggerDisabled(t *testing.T) {
	logger, closeLog := newLogger("")
	defer closeLog()
	// Must not panic.
	logger.Info("ignored")

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	logger, closeLog2 := newLogger(filepath.Join(blocker, "sub", "x.log"))
	defer closeLog2()
	logger.Info("ignored")
}
