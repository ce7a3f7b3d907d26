package store

import (
	"fmt"
	"time"
)

// TaskRecord is one completed, timed task. Records are created by the timer
// when it stops and are never modified afterwards.
type TaskRecord struct {
	ID        int64
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Duration  int64 // seconds
}

// DurationHM renders the duration as zero-padded HH:MM, truncated to whole
// minutes.
func (r TaskRecord) DurationHM() string {
	return FormatHoursMinutes(r.Duration)
}

// DateLabel is the local calendar date the task started on, as DD/MM/YYYY.
func (r TaskRecord) DateLabel() string {
	return r.StartTime.Local().Format("02/01/2006")
}

type Setting struct {
	Key   string
	Value string
}

// TaskTotal is the aggregated time recorded under one task name.
type TaskTotal struct {
	Name         string
	TotalSeconds int64
	RecordCount  int
}

// FormatHoursMinutes truncates secs to whole minutes and renders HH:MM.
func FormatHoursMinutes(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

// WholeSeconds floors d to whole seconds.
func WholeSeconds(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
