package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/trackhours/internal/reminder"
	"github.com/sadopc/trackhours/internal/store"
	"github.com/sadopc/trackhours/internal/timer"
)

type dashboardModel struct {
	store  *store.Store
	engine *timer.Engine
	width  int
	height int

	input    textinput.Model
	records  []store.TaskRecord
	interval reminder.Interval
}

func newDashboardModel(s *store.Store, e *timer.Engine) dashboardModel {
	ti := textinput.New()
	ti.Placeholder = "What are you working on?"
	ti.Prompt = "Task: "
	ti.CharLimit = 120
	ti.Focus()

	return dashboardModel{
		store:    s,
		engine:   e,
		input:    ti,
		interval: 30,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return tea.Batch(d.loadRecords(), textinput.Blink)
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) inputActive() bool { return d.input.Focused() }

func (d dashboardModel) loadRecords() tea.Cmd {
	return func() tea.Msg {
		records, err := d.store.ListRecords()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return recordsDataMsg{records: records}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsDataMsg:
		d.records = msg.records
		return d, nil

	case tea.KeyMsg:
		if d.input.Focused() {
			return d.updateInput(msg)
		}

		switch {
		case key.Matches(msg, keys.Start):
			return d.startTimer(d.input.Value())
		case key.Matches(msg, keys.Stop):
			return d.stopTimer()
		case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
			cmd := d.input.Focus()
			return d, cmd
		}
	}
	return d, nil
}

func (d dashboardModel) updateInput(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		return d.startTimer(d.input.Value())
	case key.Matches(msg, keys.Back):
		d.input.Blur()
		return d, nil
	}
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d dashboardModel) startTimer(name string) (dashboardModel, tea.Cmd) {
	err := d.engine.Start(name)
	switch {
	case errors.Is(err, timer.ErrAlreadyRunning):
		return d, func() tea.Msg {
			return statusMsg{text: "A task is already running. Stop it first."}
		}
	case errors.Is(err, timer.ErrEmptyTaskName):
		return d, func() tea.Msg {
			return statusMsg{text: "Please enter a task name.", isError: true}
		}
	case err != nil:
		return d, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	d.input.Blur()
	started := d.engine.TaskName()
	return d, func() tea.Msg { return timerStartedMsg{name: started} }
}

// stopTimer is shared by the stop key and a declined reminder.
func (d dashboardModel) stopTimer() (dashboardModel, tea.Cmd) {
	rec, err := d.engine.Stop()
	if errors.Is(err, timer.ErrNoActiveTimer) {
		return d, nil
	}
	if err != nil {
		return d, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	return d, tea.Batch(
		d.loadRecords(),
		func() tea.Msg { return timerStoppedMsg{record: rec} },
	)
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	timerPanel := d.renderTimerPanel(contentWidth)
	inputPanel := d.renderInputPanel(contentWidth)
	used := lipgloss.Height(timerPanel) + lipgloss.Height(inputPanel)
	recordsPanel := d.renderRecordsPanel(contentWidth, d.height-used)

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, inputPanel, recordsPanel)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	reminderLine := mutedStyle.Render(fmt.Sprintf("Reminder every %s min", d.interval))
	if d.interval == reminder.Never {
		reminderLine = mutedStyle.Render("Reminders off")
	}

	if d.engine.Running() {
		timeDisplay := timerRunningStyle.Width(w - 6).Render(d.engine.ElapsedDisplay())
		indicator := successStyle.Render("●  RUNNING")
		taskLine := "Current Task: " + highlightStyle.Render(d.engine.TaskName())

		content := lipgloss.JoinVertical(lipgloss.Center,
			timeDisplay,
			indicator,
			taskLine,
			reminderLine,
		)
		return activePanelStyle.Width(w).Render(content)
	}

	timeDisplay := timerStyle.Width(w - 6).Render(timer.NoActiveTask)
	indicator := mutedStyle.Render("■  STOPPED")
	hint := mutedStyle.Render("Type a task name and press enter, or press s to start")

	content := lipgloss.JoinVertical(lipgloss.Center,
		timeDisplay,
		indicator,
		hint,
		reminderLine,
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderInputPanel(w int) string {
	style := panelStyle
	if d.input.Focused() {
		style = activePanelStyle
	}
	return style.Width(w).Padding(0, 2).Render(d.input.View())
}

func (d dashboardModel) renderRecordsPanel(w, h int) string {
	title := titleStyle.Render(fmt.Sprintf("Recorded Tasks (%d)", len(d.records)))
	if len(d.records) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No tasks recorded yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	nameWidth := w - 6 - 12 - 10 - 4
	if nameWidth < 8 {
		nameWidth = 8
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %-10s %s", "Date", "Time", "Task Name")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-8, 60))))

	// Panel border, padding, title and header take 7 lines.
	visible := len(d.records)
	if maxRows := h - 7; maxRows > 0 && visible > maxRows {
		visible = maxRows
	}
	for _, r := range d.records[len(d.records)-visible:] {
		rows = append(rows, fmt.Sprintf("  %-12s %-10s %s",
			r.DateLabel(), r.DurationHM(), truncate(r.Name, nameWidth)))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
