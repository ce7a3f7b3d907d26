package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/trackhours/internal/export"
	"github.com/sadopc/trackhours/internal/store"
)

// exportModel asks for a format and a save path, then writes the export.
type exportModel struct {
	store *store.Store
	width int

	active bool
	form   *huh.Form

	// Form values as pointers (survive value copies)
	format *string
	path   *string
}

func newExportModel(s *store.Store) exportModel {
	format, path := string(export.FormatCSV), ""
	return exportModel{
		store:  s,
		format: &format,
		path:   &path,
	}
}

func (e *exportModel) setSize(w, _ int) {
	e.width = w
}

func (e exportModel) open(dir string, format export.Format, now time.Time) (exportModel, tea.Cmd) {
	*e.format = string(format)
	*e.path = export.DefaultPath(dir, format, now)

	var options []huh.Option[string]
	for _, f := range export.Formats {
		options = append(options, huh.NewOption(strings.ToUpper(string(f)), string(f)))
	}

	e.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Format").Options(options...).Value(e.format),
			huh.NewInput().Title("Save task data as").
				Description("Leave empty to cancel").
				Value(e.path),
		).Title("Export Tasks"),
	).WithShowHelp(true).WithShowErrors(true)

	e.active = true
	return e, e.form.Init()
}

func (e exportModel) update(msg tea.Msg) (exportModel, tea.Cmd) {
	if !e.active || e.form == nil {
		return e, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		e.active = false
		e.form = nil
		return e, nil
	}

	form, cmd := e.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		e.form = f
	}

	switch e.form.State {
	case huh.StateCompleted:
		e.active = false
		e.form = nil
		path := strings.TrimSpace(*e.path)
		if path == "" {
			return e, nil
		}
		format, err := export.ParseFormat(*e.format)
		if err != nil {
			return e, func() tea.Msg { return statusMsg{text: err.Error(), isError: true} }
		}
		return e, e.doExport(format, expandHome(path))
	case huh.StateAborted:
		e.active = false
		e.form = nil
		return e, nil
	}
	return e, cmd
}

func (e exportModel) doExport(format export.Format, path string) tea.Cmd {
	return func() tea.Msg {
		records, err := e.store.ListRecords()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		err = export.Write(format, records, path)
		var we *export.WriteError
		switch {
		case errors.Is(err, export.ErrNothingToExport):
			return statusMsg{text: "No tasks recorded yet."}
		case errors.As(err, &we):
			return statusMsg{text: fmt.Sprintf("Export failed: %v", we.Err), isError: true}
		case err != nil:
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func (e exportModel) view() string {
	if !e.active || e.form == nil {
		return ""
	}
	title := titleStyle.Render("Export")
	return activePanelStyle.Width(e.width - 4).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", e.form.View()),
	)
}
