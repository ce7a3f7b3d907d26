package store

import (
	"errors"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// appendRecord is a test helper that appends a record of durationSecs
// starting at start.
func appendRecord(t *testing.T, s *Store, name string, start time.Time, durationSecs int) *TaskRecord {
	t.Helper()
	r, err := s.AppendRecord(name, start, start.Add(time.Duration(durationSecs)*time.Second))
	if err != nil {
		t.Fatalf("append record: %v", err)
	}
	return r
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestStoresAreIndependent(t *testing.T) {
	a := newTestStore(t)
	b := newTestStore(t)

	appendRecord(t, a, "only in a", time.Now(), 60)

	n, err := b.CountRecords()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("second store should be empty, has %d records", n)
	}
}

// ============================================================
// Records
// ============================================================

func TestAppendAndGetRecord(t *testing.T) {
	s := newTestStore(t)
	start := time.Date(2024, 5, 6, 9, 15, 0, 0, time.Local)

	r := appendRecord(t, s, "Design doc", start, 5025)
	if r.ID == 0 {
		t.Fatal("expected non-zero ID")
	}
	if r.Name != "Design doc" {
		t.Fatalf("Name = %q", r.Name)
	}
	if r.Duration != 5025 {
		t.Fatalf("Duration = %d, want 5025", r.Duration)
	}
	if !r.StartTime.Equal(start) {
		t.Fatalf("StartTime = %v, want %v", r.StartTime, start)
	}
	if !r.EndTime.Equal(start.Add(5025 * time.Second)) {
		t.Fatalf("EndTime = %v", r.EndTime)
	}
	if r.DurationHM() != "01:23" {
		t.Fatalf("DurationHM = %q, want 01:23", r.DurationHM())
	}
	if r.DateLabel() != "06/05/2024" {
		t.Fatalf("DateLabel = %q, want 06/05/2024", r.DateLabel())
	}

	got, err := s.GetRecord(r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *r {
		t.Fatalf("GetRecord = %+v, want %+v", got, r)
	}
}

func TestAppendRecordKeepsSubSecondPrecision(t *testing.T) {
	s := newTestStore(t)
	start := time.Date(2024, 5, 6, 9, 0, 0, 250_000_000, time.UTC)
	end := start.Add(1500 * time.Millisecond)

	r, err := s.AppendRecord("precise", start, end)
	if err != nil {
		t.Fatal(err)
	}
	if !r.StartTime.Equal(start) || !r.EndTime.Equal(end) {
		t.Fatalf("times lost precision: %v .. %v", r.StartTime, r.EndTime)
	}
	if r.Duration != 1 {
		t.Fatalf("Duration = %d, want 1 (floored)", r.Duration)
	}
}

func TestAppendRecordZeroDuration(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	r, err := s.AppendRecord("instant", now, now)
	if err != nil {
		t.Fatal(err)
	}
	if r.Duration != 0 || r.DurationHM() != "00:00" {
		t.Fatalf("unexpected zero-length record: %+v", r)
	}
}

func TestAppendRecordRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	tests := []struct {
		name       string
		task       string
		start, end time.Time
	}{
		{"empty name", "", now, now.Add(time.Minute)},
		{"blank name", "   ", now, now.Add(time.Minute)},
		{"end before start", "task", now, now.Add(-time.Second)},
	}
	for _, tt := range tests {
		_, err := s.AppendRecord(tt.task, tt.start, tt.end)
		if !errors.Is(err, ErrInvalidRecord) {
			t.Errorf("%s: err = %v, want ErrInvalidRecord", tt.name, err)
		}
	}

	n, _ := s.CountRecords()
	if n != 0 {
		t.Fatalf("invalid records should not be stored, have %d", n)
	}
}

func TestGetRecordNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetRecord(999); err == nil {
		t.Fatal("expected error for missing record")
	}
}

func TestListRecordsInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	base := time.Now()

	// Later start times first: order must follow insertion, not start time.
	appendRecord(t, s, "third", base.Add(2*time.Hour), 60)
	appendRecord(t, s, "first", base, 60)
	appendRecord(t, s, "second", base.Add(time.Hour), 60)

	records, err := s.ListRecords()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"third", "first", "second"}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i, name := range want {
		if records[i].Name != name {
			t.Fatalf("records[%d] = %q, want %q", i, records[i].Name, name)
		}
	}
}

func TestListRecordsEmpty(t *testing.T) {
	s := newTestStore(t)
	records, err := s.ListRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestListRecordsReturnsCopies(t *testing.T) {
	s := newTestStore(t)
	appendRecord(t, s, "original", time.Now(), 60)

	records, _ := s.ListRecords()
	records[0].Name = "mutated"

	again, _ := s.ListRecords()
	if again[0].Name != "original" {
		t.Fatalf("stored record changed through returned slice: %q", again[0].Name)
	}
}

func TestCountRecords(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 3; i++ {
		appendRecord(t, s, "task", time.Now(), 10)
	}
	n, err := s.CountRecords()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("CountRecords = %d, want 3", n)
	}
}

func TestTaskTotals(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	appendRecord(t, s, "Write", now, 600)
	appendRecord(t, s, "Review", now, 300)
	appendRecord(t, s, "Write", now, 1200)

	totals, err := s.TaskTotals()
	if err != nil {
		t.Fatal(err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 totals, got %d", len(totals))
	}
	if totals[0].Name != "Write" || totals[0].TotalSeconds != 1800 || totals[0].RecordCount != 2 {
		t.Fatalf("unexpected first total: %+v", totals[0])
	}
	if totals[1].Name != "Review" || totals[1].TotalSeconds != 300 || totals[1].RecordCount != 1 {
		t.Fatalf("unexpected second total: %+v", totals[1])
	}
}

func TestTotalSeconds(t *testing.T) {
	s := newTestStore(t)

	total, err := s.TotalSeconds()
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Fatalf("empty store total = %d", total)
	}

	appendRecord(t, s, "a", time.Now(), 90)
	appendRecord(t, s, "b", time.Now(), 30)
	total, _ = s.TotalSeconds()
	if total != 120 {
		t.Fatalf("total = %d, want 120", total)
	}
}

// ============================================================
// Settings
// ============================================================

func TestDefaultSettings(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		key, want string
	}{
		{SettingReminderInterval, "30"},
		{SettingExportFormat, "csv"},
		{SettingExportDir, ""},
	}
	for _, tt := range tests {
		got, err := s.GetSetting(tt.key)
		if err != nil {
			t.Fatalf("GetSetting(%q): %v", tt.key, err)
		}
		if got != tt.want {
			t.Errorf("GetSetting(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestSetSetting(t *testing.T) {
	s := newTestStore(t)

	if err := s.SetSetting(SettingReminderInterval, "Never"); err != nil {
		t.Fatal(err)
	}
	v, _ := s.GetSetting(SettingReminderInterval)
	if v != "Never" {
		t.Fatalf("reminder_interval = %q, want Never", v)
	}

	// Upsert a new key.
	if err := s.SetSetting("custom", "x"); err != nil {
		t.Fatal(err)
	}
	v, _ = s.GetSetting("custom")
	if v != "x" {
		t.Fatalf("custom = %q, want x", v)
	}
}

func TestGetSettingMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSetting("nope"); err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) != 3 {
		t.Fatalf("expected 3 settings, got %d", len(settings))
	}
	// Ordered by key.
	for i := 1; i < len(settings); i++ {
		if settings[i-1].Key > settings[i].Key {
			t.Fatalf("settings not sorted: %q > %q", settings[i-1].Key, settings[i].Key)
		}
	}
}

// ============================================================
// Formatting
// ============================================================

func TestFormatHoursMinutes(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00"},
		{59, "00:00"},
		{60, "00:01"},
		{3599, "00:59"},
		{3600, "01:00"},
		{3661, "01:01"},
		{5025, "01:23"},
		{90061, "25:01"},
		{-5, "00:00"},
	}
	for _, tt := range tests {
		got := FormatHoursMinutes(tt.secs)
		if got != tt.want {
			t.Errorf("FormatHoursMinutes(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestWholeSeconds(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want int64
	}{
		{0, 0},
		{999 * time.Millisecond, 0},
		{time.Second, 1},
		{61500 * time.Millisecond, 61},
		{-time.Second, 0},
	}
	for _, tt := range tests {
		if got := WholeSeconds(tt.d); got != tt.want {
			t.Errorf("WholeSeconds(%v) = %d, want %d", tt.d, got, tt.want)
		}
	}
}
