package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sadopc/trackhours/internal/store"
)

type jsonExport struct {
	ExportedAt   string       `json:"exported_at"`
	Count        int          `json:"count"`
	TotalSeconds int64        `json:"total_seconds"`
	Tasks        []jsonRecord `json:"tasks"`
}

type jsonRecord struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
}

func ToJSON(records []store.TaskRecord, path string) error {
	if len(records) == 0 {
		return ErrNothingToExport
	}

	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(records),
	}
	for _, r := range records {
		export.TotalSeconds += r.Duration
		export.Tasks = append(export.Tasks, jsonRecord{
			Name:        r.Name,
			Date:        r.DateLabel(),
			StartTime:   r.StartTime.Local().Format(time.RFC3339),
			EndTime:     r.EndTime.Local().Format(time.RFC3339),
			DurationSec: r.Duration,
			Duration:    r.DurationHM(),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	return writeAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
