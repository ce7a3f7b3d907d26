// Package reminder decides when a running task is due a "still working?"
// prompt.
package reminder

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sadopc/trackhours/internal/clock"
	"github.com/sadopc/trackhours/internal/timer"
)

// DefaultPollInterval is how often the poller checks the running session.
const DefaultPollInterval = 10 * time.Second

// Interval is a reminder threshold in minutes. Never disables reminders.
type Interval int

const Never Interval = 0

// Intervals are the choices offered to the user, in display order.
var Intervals = []Interval{15, 30, 60, Never}

func (i Interval) String() string {
	if i == Never {
		return "Never"
	}
	return strconv.Itoa(int(i))
}

func (i Interval) Duration() time.Duration {
	return time.Duration(i) * time.Minute
}

// ParseInterval accepts one of the values in Intervals, as rendered by String.
func ParseInterval(s string) (Interval, error) {
	for _, iv := range Intervals {
		if iv.String() == s {
			return iv, nil
		}
	}
	return Never, fmt.Errorf("invalid reminder interval %q", s)
}

// Mode selects how the reminder re-arms after it has fired.
type Mode int

const (
	// RearmPerInterval signals once each time elapsed time crosses a
	// multiple of the interval not yet crossed when the last reminder fired.
	RearmPerInterval Mode = iota
	// RearmEveryPoll clears the fired flag on the first poll after a signal,
	// so once past the threshold every other poll signals again.
	RearmEveryPoll
)

func (m Mode) String() string {
	switch m {
	case RearmPerInterval:
		return "per-interval"
	case RearmEveryPoll:
		return "every-poll"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Poller runs reminder checks against an engine's session.
type Poller struct {
	engine *timer.Engine
	clock  clock.Clock
	mode   Mode
}

func NewPoller(e *timer.Engine, c clock.Clock, mode Mode) *Poller {
	if c == nil {
		c = clock.System
	}
	return &Poller{engine: e, clock: c, mode: mode}
}

func (p *Poller) Mode() Mode { return p.mode }

// Check performs one poll tick and reports whether the user should be asked
// to confirm they are still working. It must run on the same goroutine that
// drives the engine.
func (p *Poller) Check(iv Interval) bool {
	s := p.engine.Session()
	if !s.Running || iv == Never {
		return false
	}

	limit := iv.Duration()
	elapsed := p.clock.Now().Sub(s.StartedAt)
	if elapsed < limit {
		return false
	}

	if p.mode == RearmEveryPoll {
		if !s.ReminderFired {
			s.ReminderFired = true
			s.Reminders++
			return true
		}
		s.ReminderFired = false
		return false
	}

	// Crossings are counted under the current interval, so a change of
	// interval applies from the next poll.
	if elapsed/limit > s.LastReminderAt/limit {
		s.LastReminderAt = elapsed
		s.Reminders++
		s.ReminderFired = true
		return true
	}
	return false
}

// Run calls emit every interval until ctx is cancelled. It holds no session
// state; emit is expected to hand the tick to the goroutine owning the engine.
func Run(ctx context.Context, every time.Duration, emit func(time.Time)) {
	if every <= 0 {
		every = DefaultPollInterval
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			emit(t)
		}
	}
}
