package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/trackhours/internal/store"
)

// ErrNothingToExport is returned when there are no records to write.
var ErrNothingToExport = errors.New("no tasks recorded yet")

// WriteError reports an I/O failure while exporting. The target file is left
// as it was before the export started.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("export to %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Header is the first row of every CSV export.
var Header = []string{"Task Name", "Date", "Start Time", "End Time", "Duration (HH:MM)"}

const timestampLayout = "2006-01-02 15:04:05"

func ToCSV(records []store.TaskRecord, path string) error {
	if len(records) == 0 {
		return ErrNothingToExport
	}
	return writeAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(Header); err != nil {
			return err
		}
		for _, r := range records {
			row := []string{
				r.Name,
				r.DateLabel(),
				r.StartTime.Local().Format(timestampLayout),
				r.EndTime.Local().Format(timestampLayout),
				r.DurationHM(),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// writeAtomic writes to a temporary file next to path and renames it into
// place only once write and close have both succeeded.
func writeAtomic(path string, write func(io.Writer) error) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmp := f.Name()

	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return &WriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatCSV, FormatJSON}

func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Write exports records in the given format.
func Write(format Format, records []store.TaskRecord, path string) error {
	switch format {
	case FormatCSV:
		return ToCSV(records, path)
	case FormatJSON:
		return ToJSON(records, path)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// DefaultPath is dir/trackhours-YYYY-MM-DD.<format>. An empty dir means the
// user's home directory.
func DefaultPath(dir string, format Format, now time.Time) string {
	if dir == "" {
		dir, _ = os.UserHomeDir()
	}
	return filepath.Join(dir, fmt.Sprintf("trackhours-%s.%s", now.Format("2006-01-02"), format))
}
