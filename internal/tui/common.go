package tui

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/trackhours/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewReports
	viewSettings
)

var viewNames = []string{"Timer", "Reports", "Settings"}

// --- Messages ---

// PollMsg is a reminder poll tick. It is sent into the program from the
// background poller goroutine.
type PollMsg time.Time

type tickMsg time.Time

type timerStartedMsg struct {
	name string
}

type timerStoppedMsg struct {
	record *store.TaskRecord
}

type recordsDataMsg struct {
	records []store.TaskRecord
}

type reminderAnsweredMsg struct {
	keepGoing bool
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatMinutes(secs int64) string {
	return store.FormatHoursMinutes(secs)
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
