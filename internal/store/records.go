package store

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidRecord is returned when a record has no name or ends before it
// starts.
var ErrInvalidRecord = errors.New("invalid task record")

const timeLayout = time.RFC3339Nano

// AppendRecord adds a completed task to the end of the log. The ID and
// Duration of the returned record are assigned by the store.
func (s *Store) AppendRecord(name string, start, end time.Time) (*TaskRecord, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidRecord)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s before start %s", ErrInvalidRecord,
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	duration := WholeSeconds(end.Sub(start))
	res, err := s.db.Exec(
		`INSERT INTO task_records (name, start_time, end_time, duration) VALUES (?, ?, ?, ?)`,
		name, start.UTC().Format(timeLayout), end.UTC().Format(timeLayout), duration,
	)
	if err != nil {
		return nil, fmt.Errorf("append record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("append record: %w", err)
	}
	return s.GetRecord(id)
}

func (s *Store) GetRecord(id int64) (*TaskRecord, error) {
	r := &TaskRecord{}
	var startTime, endTime string
	err := s.db.QueryRow(
		`SELECT id, name, start_time, end_time, duration FROM task_records WHERE id = ?`, id,
	).Scan(&r.ID, &r.Name, &startTime, &endTime, &r.Duration)
	if err != nil {
		return nil, fmt.Errorf("get record %d: %w", id, err)
	}
	r.StartTime, _ = time.Parse(timeLayout, startTime)
	r.EndTime, _ = time.Parse(timeLayout, endTime)
	return r, nil
}

// ListRecords returns every record in the order it was appended.
func (s *Store) ListRecords() ([]TaskRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, name, start_time, end_time, duration FROM task_records ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []TaskRecord
	for rows.Next() {
		var r TaskRecord
		var startTime, endTime string
		if err := rows.Scan(&r.ID, &r.Name, &startTime, &endTime, &r.Duration); err != nil {
			return nil, err
		}
		r.StartTime, _ = time.Parse(timeLayout, startTime)
		r.EndTime, _ = time.Parse(timeLayout, endTime)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) CountRecords() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM task_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// TaskTotals sums recorded time per task name, in order of first appearance.
func (s *Store) TaskTotals() ([]TaskTotal, error) {
	rows, err := s.db.Query(`
		SELECT name, COALESCE(SUM(duration), 0), COUNT(*)
		FROM task_records
		GROUP BY name
		ORDER BY MIN(id)`,
	)
	if err != nil {
		return nil, fmt.Errorf("task totals: %w", err)
	}
	defer rows.Close()

	var totals []TaskTotal
	for rows.Next() {
		var t TaskTotal
		if err := rows.Scan(&t.Name, &t.TotalSeconds, &t.RecordCount); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// TotalSeconds is the sum of every recorded duration.
func (s *Store) TotalSeconds() (int64, error) {
	var total int64
	err := s.db.QueryRow(`SELECT COALESCE(SUM(duration), 0) FROM task_records`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total seconds: %w", err)
	}
	return total, nil
}
