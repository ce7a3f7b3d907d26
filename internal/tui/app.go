package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/trackhours/internal/config"
	"github.com/sadopc/trackhours/internal/export"
	"github.com/sadopc/trackhours/internal/reminder"
	"github.com/sadopc/trackhours/internal/store"
	"github.com/sadopc/trackhours/internal/timer"
)

// App is the root Bubble Tea model. It is the only code that touches the
// timer engine, so the session needs no locking.
type App struct {
	store  *store.Store
	engine *timer.Engine
	poller *reminder.Poller
	cfg    *config.Config
	log    *slog.Logger
	width  int
	height int

	activeView viewState
	showHelp   bool

	dashboard dashboardModel
	reports   reportsModel
	settings  settingsModel
	prompt    promptModel
	exporter  exportModel

	help          help.Model
	status        string
	statusIsError bool
}

func NewApp(s *store.Store, e *timer.Engine, p *reminder.Poller, cfg *config.Config, logger *slog.Logger) App {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := help.New()
	h.ShowAll = false

	a := App{
		store:      s,
		engine:     e,
		poller:     p,
		cfg:        cfg,
		log:        logger,
		activeView: viewTimer,
		dashboard:  newDashboardModel(s, e),
		reports:    newReportsModel(s),
		settings:   newSettingsModel(s),
		prompt:     newPromptModel(),
		exporter:   newExportModel(s),
		help:       h,
	}
	a.dashboard.interval = a.reminderInterval()
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		a.tickCmd(),
	)
}

func (a App) tickCmd() tea.Cmd {
	return tea.Tick(a.cfg.RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		a.prompt.setSize(a.width, contentHeight)
		a.exporter.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// The reminder prompt is modal over every view.
		if a.prompt.active {
			var cmd tea.Cmd
			a.prompt, cmd = a.prompt.update(msg)
			return a, cmd
		}
		if a.exporter.active {
			var cmd tea.Cmd
			a.exporter, cmd = a.exporter.update(msg)
			return a, cmd
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			return a.openExport()
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTimer
			return a, a.dashboard.loadRecords()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewReports
			return a, a.reports.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		case key.Matches(msg, keys.Start), key.Matches(msg, keys.Stop):
			// Start and stop work from every view.
			var cmd tea.Cmd
			a.dashboard, cmd = a.dashboard.update(msg)
			return a, cmd
		}

	case tickMsg:
		return a, a.tickCmd()

	case PollMsg:
		return a.checkReminder()

	case reminderAnsweredMsg:
		a.log.Info("reminder answered", "task", a.engine.TaskName(), "continue", msg.keepGoing)
		if msg.keepGoing {
			return a, nil
		}
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.stopTimer()
		return a, cmd

	case recordsDataMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd

	case reportsDataMsg:
		var cmd tea.Cmd
		a.reports, cmd = a.reports.update(msg)
		return a, cmd

	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case settingsSavedMsg:
		a.dashboard.interval = a.reminderInterval()
		a.log.Info("settings saved", "reminder_interval", a.dashboard.interval.String())
		a.setStatus("Settings saved", false)
		return a, nil

	case statusMsg:
		if msg.isError {
			a.log.Warn("status", "text", msg.text)
		}
		a.setStatus(msg.text, msg.isError)
		return a, nil

	case timerStartedMsg:
		a.log.Info("timer started", "task", msg.name)
		a.setStatus(fmt.Sprintf("Timer started: %s", msg.name), false)
		return a, nil

	case timerStoppedMsg:
		if msg.record == nil {
			return a, nil
		}
		a.log.Info("timer stopped",
			"task", msg.record.Name,
			"duration_seconds", msg.record.Duration,
		)
		a.setStatus(fmt.Sprintf("Task '%s' recorded for %s (HH:MM).", msg.record.Name, msg.record.DurationHM()), false)
		if a.activeView == viewReports {
			return a, a.reports.refresh()
		}
		return a, nil

	case exportDoneMsg:
		a.log.Info("export complete", "path", msg.path)
		a.setStatus("Tasks exported to "+msg.path, false)
		return a, nil
	}

	// Anything else (cursor blink, form internals) goes to whatever is on top.
	if a.prompt.active {
		var cmd tea.Cmd
		a.prompt, cmd = a.prompt.update(msg)
		return a, cmd
	}
	if a.exporter.active {
		var cmd tea.Cmd
		a.exporter, cmd = a.exporter.update(msg)
		return a, cmd
	}
	return a.updateActiveView(msg)
}

func (a *App) setStatus(text string, isError bool) {
	a.status = text
	a.statusIsError = isError
}

// checkReminder runs one poll tick on the event loop.
func (a App) checkReminder() (tea.Model, tea.Cmd) {
	if a.poller == nil {
		return a, nil
	}
	iv := a.reminderInterval()
	a.dashboard.interval = iv
	if !a.poller.Check(iv) || a.prompt.active {
		return a, nil
	}

	a.log.Info("reminder due", "task", a.engine.TaskName(), "interval_minutes", int(iv),
		"elapsed", a.engine.Elapsed().Round(time.Second).String())
	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.open(a.engine.TaskName(), iv)
	return a, cmd
}

// reminderInterval reads the interval the user selected, falling back to the
// configured default.
func (a App) reminderInterval() reminder.Interval {
	v, err := a.store.GetSetting(store.SettingReminderInterval)
	if err != nil {
		return a.cfg.DefaultReminder
	}
	iv, err := reminder.ParseInterval(v)
	if err != nil {
		return a.cfg.DefaultReminder
	}
	return iv
}

func (a App) openExport() (tea.Model, tea.Cmd) {
	n, err := a.store.CountRecords()
	if err != nil {
		a.setStatus(fmt.Sprintf("Export error: %v", err), true)
		return a, nil
	}
	if n == 0 {
		a.setStatus("No tasks recorded yet.", false)
		return a, nil
	}

	dir := a.cfg.ExportDir
	if v, err := a.store.GetSetting(store.SettingExportDir); err == nil && v != "" {
		dir = expandHome(v)
	}
	format := a.cfg.ExportFormat
	if v, err := a.store.GetSetting(store.SettingExportFormat); err == nil {
		if f, err := export.ParseFormat(v); err == nil {
			format = f
		}
	}

	var cmd tea.Cmd
	a.exporter, cmd = a.exporter.open(dir, format, time.Now())
	return a, cmd
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTimer:
		return a.dashboard.inputActive()
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewTimer:
		return a.dashboard.loadRecords()
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimer:
		content = a.dashboard.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Dialogs replace the view they were opened over.
	switch {
	case a.prompt.active:
		content = a.prompt.view()
	case a.exporter.active:
		content = a.exporter.view()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("Track My Hours")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys.withTimerState(a.engine.Running()))

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusIsError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	timerInfo := ""
	if a.engine.Running() {
		timerInfo = successStyle.Render(" ● " + a.engine.ElapsedDisplay())
		if a.prompt.active {
			timerInfo = warningStyle.Render(" ? " + a.engine.ElapsedDisplay())
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}
