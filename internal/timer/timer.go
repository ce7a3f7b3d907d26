// Package timer owns the single timing session: which task is being timed,
// since when, and whether a reminder has already been raised for it.
//
// An Engine is not safe for concurrent use. The terminal UI calls it only from
// its event loop; background work reaches it through messages.
package timer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/trackhours/internal/clock"
	"github.com/sadopc/trackhours/internal/store"
)

// NoActiveTask is what ElapsedDisplay shows while idle.
const NoActiveTask = "No active task"

var (
	ErrAlreadyRunning = errors.New("a task is already running")
	ErrEmptyTaskName  = errors.New("task name is empty")
	ErrNoActiveTimer  = errors.New("no active timer")
)

// Session is the mutable state of the current timing. TaskName is set if and
// only if Running is true.
type Session struct {
	TaskName  string
	StartedAt time.Time
	Running   bool

	// ReminderFired records that the current interval crossing was signalled.
	ReminderFired bool
	// Reminders counts reminders signalled this session.
	Reminders int
	// LastReminderAt is the elapsed time at which the last reminder was
	// signalled, or zero if none has been.
	LastReminderAt time.Duration
}

type Engine struct {
	store   *store.Store
	clock   clock.Clock
	session Session
}

func New(s *store.Store, c clock.Clock) *Engine {
	if c == nil {
		c = clock.System
	}
	return &Engine{store: s, clock: c}
}

// Start begins timing name. The session is left untouched on error.
func (e *Engine) Start(name string) error {
	if e.session.Running {
		return ErrAlreadyRunning
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyTaskName
	}
	e.session = Session{
		TaskName:  name,
		StartedAt: e.clock.Now(),
		Running:   true,
	}
	return nil
}

// Stop ends the running session and appends it to the record log. If the
// append fails the session keeps running.
func (e *Engine) Stop() (*store.TaskRecord, error) {
	if !e.session.Running {
		return nil, ErrNoActiveTimer
	}
	end := e.clock.Now()
	if end.Before(e.session.StartedAt) {
		end = e.session.StartedAt
	}
	rec, err := e.store.AppendRecord(e.session.TaskName, e.session.StartedAt, end)
	if err != nil {
		return nil, fmt.Errorf("record %q: %w", e.session.TaskName, err)
	}
	e.session = Session{}
	return rec, nil
}

func (e *Engine) Running() bool { return e.session.Running }

func (e *Engine) TaskName() string { return e.session.TaskName }

// Session exposes the engine's session to collaborators such as the
// reminder poller.
func (e *Engine) Session() *Session { return &e.session }

// Elapsed is the time since the session started, or zero while idle.
func (e *Engine) Elapsed() time.Duration {
	if !e.session.Running {
		return 0
	}
	d := e.clock.Now().Sub(e.session.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// ElapsedDisplay renders Elapsed as HH:MM:SS, or NoActiveTask while idle.
func (e *Engine) ElapsedDisplay() string {
	if !e.session.Running {
		return NoActiveTask
	}
	return FormatClock(e.Elapsed())
}

// FormatClock renders d as HH:MM:SS, truncating to whole seconds.
func FormatClock(d time.Duration) string {
	secs := store.WholeSeconds(d)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
